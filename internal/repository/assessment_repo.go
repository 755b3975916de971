package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/unidash/unidash-api/internal/models"
)

// AssessmentRepository persists continuous assessment sets. A save replaces
// the whole set for a (module, batch) pair: delete everything, insert anew.
type AssessmentRepository interface {
	ListByBatch(ctx context.Context, moduleID uint, batchNumber int) ([]models.ContinuousAssessment, error)
	ListMeta(ctx context.Context, moduleID uint, batchNumbers []int) ([]models.ContinuousAssessment, error)
	ReplaceSet(ctx context.Context, moduleID uint, batchNumber int, cas []models.ContinuousAssessment) error
}

type assessmentRepository struct {
	db *gorm.DB
}

// NewAssessmentRepository constructs the continuous assessment repository.
func NewAssessmentRepository(db *gorm.DB) AssessmentRepository {
	return &assessmentRepository{db: db}
}

func (r *assessmentRepository) ListByBatch(ctx context.Context, moduleID uint, batchNumber int) ([]models.ContinuousAssessment, error) {
	var cas []models.ContinuousAssessment
	err := r.db.WithContext(ctx).
		Where("module_id = ? AND batch_number = ?", moduleID, batchNumber).
		Order("ca_number ASC").
		Find(&cas).Error
	if err != nil {
		return nil, err
	}
	return cas, nil
}

func (r *assessmentRepository) ListMeta(ctx context.Context, moduleID uint, batchNumbers []int) ([]models.ContinuousAssessment, error) {
	if len(batchNumbers) == 0 {
		return nil, nil
	}

	var cas []models.ContinuousAssessment
	err := r.db.WithContext(ctx).
		Select("id", "module_id", "batch_number", "updated_at").
		Where("module_id = ? AND batch_number IN ?", moduleID, batchNumbers).
		Find(&cas).Error
	if err != nil {
		return nil, err
	}
	return cas, nil
}

func (r *assessmentRepository) ReplaceSet(ctx context.Context, moduleID uint, batchNumber int, cas []models.ContinuousAssessment) error {
	err := r.db.WithContext(ctx).
		Where("module_id = ? AND batch_number = ?", moduleID, batchNumber).
		Delete(&models.ContinuousAssessment{}).Error
	if err != nil {
		return err
	}

	if len(cas) == 0 {
		return nil
	}

	for i := range cas {
		cas[i].ID = 0
		cas[i].ModuleID = moduleID
		cas[i].BatchNumber = batchNumber
	}

	return r.db.WithContext(ctx).Create(&cas).Error
}
