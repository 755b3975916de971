package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/unidash/unidash-api/internal/models"
)

// EditLogFilter narrows edit history queries.
type EditLogFilter struct {
	ModuleID      uint
	EditedByIndex string
	Page          int
	PageSize      int
}

// EditLogRepository appends and lists the immutable edit audit trail.
type EditLogRepository interface {
	Create(ctx context.Context, entry *models.EditLog) error
	List(ctx context.Context, filter EditLogFilter) ([]models.EditLog, int64, error)
}

type editLogRepository struct {
	db *gorm.DB
}

// NewEditLogRepository constructs the edit log repository.
func NewEditLogRepository(db *gorm.DB) EditLogRepository {
	return &editLogRepository{db: db}
}

func (r *editLogRepository) Create(ctx context.Context, entry *models.EditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *editLogRepository) List(ctx context.Context, filter EditLogFilter) ([]models.EditLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.EditLog{})

	if filter.ModuleID > 0 {
		query = query.Where("module_id = ?", filter.ModuleID)
	}

	if filter.EditedByIndex != "" {
		query = query.Where("edited_by_index = ?", filter.EditedByIndex)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		offset := (page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var entries []models.EditLog
	if err := query.Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
