package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/unidash/unidash-api/internal/models"
)

// ModuleFilter narrows module catalog queries.
type ModuleFilter struct {
	Year     int
	Semester int
}

// ModuleRepository persists degree modules.
type ModuleRepository interface {
	List(ctx context.Context, filter ModuleFilter) ([]models.Module, error)
	GetByID(ctx context.Context, id uint) (models.Module, error)
	Create(ctx context.Context, module *models.Module) error
}

type moduleRepository struct {
	db *gorm.DB
}

// NewModuleRepository constructs the module repository.
func NewModuleRepository(db *gorm.DB) ModuleRepository {
	return &moduleRepository{db: db}
}

func (r *moduleRepository) List(ctx context.Context, filter ModuleFilter) ([]models.Module, error) {
	query := r.db.WithContext(ctx).Model(&models.Module{})

	if filter.Year > 0 {
		query = query.Where("year = ?", filter.Year)
	}

	if filter.Semester > 0 {
		query = query.Where("semester = ?", filter.Semester)
	}

	var modules []models.Module
	if err := query.Order("year ASC, semester ASC, code ASC").Find(&modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

func (r *moduleRepository) GetByID(ctx context.Context, id uint) (models.Module, error) {
	var module models.Module
	err := r.db.WithContext(ctx).First(&module, id).Error
	return module, err
}

func (r *moduleRepository) Create(ctx context.Context, module *models.Module) error {
	return r.db.WithContext(ctx).Create(module).Error
}
