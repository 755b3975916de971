package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/unidash/unidash-api/internal/models"
)

// ContentVersionRepository persists per-batch topic outlines. One row exists
// per (module, batch); writes upsert on that composite key.
type ContentVersionRepository interface {
	Get(ctx context.Context, moduleID uint, batchNumber int) (models.ModuleContentVersion, error)
	ListMeta(ctx context.Context, moduleID uint, batchNumbers []int) ([]models.ModuleContentVersion, error)
	Upsert(ctx context.Context, version *models.ModuleContentVersion) error
}

type contentVersionRepository struct {
	db *gorm.DB
}

// NewContentVersionRepository constructs the content version repository.
func NewContentVersionRepository(db *gorm.DB) ContentVersionRepository {
	return &contentVersionRepository{db: db}
}

func (r *contentVersionRepository) Get(ctx context.Context, moduleID uint, batchNumber int) (models.ModuleContentVersion, error) {
	var version models.ModuleContentVersion
	err := r.db.WithContext(ctx).
		Where("module_id = ? AND batch_number = ?", moduleID, batchNumber).
		First(&version).Error
	return version, err
}

func (r *contentVersionRepository) ListMeta(ctx context.Context, moduleID uint, batchNumbers []int) ([]models.ModuleContentVersion, error) {
	if len(batchNumbers) == 0 {
		return nil, nil
	}

	var versions []models.ModuleContentVersion
	err := r.db.WithContext(ctx).
		Select("id", "module_id", "batch_number", "lecturer_name", "updated_at").
		Where("module_id = ? AND batch_number IN ?", moduleID, batchNumbers).
		Order("batch_number DESC").
		Find(&versions).Error
	if err != nil {
		return nil, err
	}
	return versions, nil
}

func (r *contentVersionRepository) Upsert(ctx context.Context, version *models.ModuleContentVersion) error {
	columns := []string{"content_json", "lecturer_name", "updated_by", "updated_at"}
	// Provenance is stamped by the clone path only. A manual save carries a
	// nil ClonedFromBatch and must leave the stored value alone.
	if version.ClonedFromBatch != nil {
		columns = append(columns, "cloned_from_batch")
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "module_id"}, {Name: "batch_number"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(version).Error
}
