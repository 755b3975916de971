package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/unidash/unidash-api/internal/models"
)

// StudentProfileRepository resolves authenticated users to their cohort.
type StudentProfileRepository interface {
	GetByID(ctx context.Context, id uint) (models.StudentProfile, error)
	Create(ctx context.Context, profile *models.StudentProfile) error
}

type studentProfileRepository struct {
	db *gorm.DB
}

// NewStudentProfileRepository constructs the profile repository.
func NewStudentProfileRepository(db *gorm.DB) StudentProfileRepository {
	return &studentProfileRepository{db: db}
}

func (r *studentProfileRepository) GetByID(ctx context.Context, id uint) (models.StudentProfile, error) {
	var profile models.StudentProfile
	err := r.db.WithContext(ctx).Preload("Batch").First(&profile, id).Error
	return profile, err
}

func (r *studentProfileRepository) Create(ctx context.Context, profile *models.StudentProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}
