package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/unidash/unidash-api/internal/models"
)

// PastPaperRepository persists per-batch exam structures, independently from
// the topic outline: a batch may have one without the other.
type PastPaperRepository interface {
	Get(ctx context.Context, moduleID uint, batchNumber int) (models.PastPaperStructure, error)
	ListMeta(ctx context.Context, moduleID uint, batchNumbers []int) ([]models.PastPaperStructure, error)
	Upsert(ctx context.Context, structure *models.PastPaperStructure) error
}

type pastPaperRepository struct {
	db *gorm.DB
}

// NewPastPaperRepository constructs the past paper structure repository.
func NewPastPaperRepository(db *gorm.DB) PastPaperRepository {
	return &pastPaperRepository{db: db}
}

func (r *pastPaperRepository) Get(ctx context.Context, moduleID uint, batchNumber int) (models.PastPaperStructure, error) {
	var structure models.PastPaperStructure
	err := r.db.WithContext(ctx).
		Where("module_id = ? AND batch_number = ?", moduleID, batchNumber).
		First(&structure).Error
	return structure, err
}

func (r *pastPaperRepository) ListMeta(ctx context.Context, moduleID uint, batchNumbers []int) ([]models.PastPaperStructure, error) {
	if len(batchNumbers) == 0 {
		return nil, nil
	}

	var structures []models.PastPaperStructure
	err := r.db.WithContext(ctx).
		Select("id", "module_id", "batch_number", "updated_at").
		Where("module_id = ? AND batch_number IN ?", moduleID, batchNumbers).
		Find(&structures).Error
	if err != nil {
		return nil, err
	}
	return structures, nil
}

func (r *pastPaperRepository) Upsert(ctx context.Context, structure *models.PastPaperStructure) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "module_id"}, {Name: "batch_number"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"structure_json", "updated_by", "updated_at",
		}),
	}).Create(structure).Error
}
