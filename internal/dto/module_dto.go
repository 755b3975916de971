package dto

import (
	"time"

	"github.com/unidash/unidash-api/internal/models"
)

// ModuleCreateRequest registers a new degree module in the catalog.
type ModuleCreateRequest struct {
	Code     string `json:"code" validate:"required,max=32"`
	Title    string `json:"title" validate:"required,max=255"`
	Year     int    `json:"year" validate:"required,gte=1,lte=6"`
	Semester int    `json:"semester" validate:"gte=0,lte=2"`
	Credits  int    `json:"credits" validate:"gte=0"`
}

// ModuleResponse is the catalog view of a module.
type ModuleResponse struct {
	ID        uint      `json:"id"`
	Code      string    `json:"code"`
	Title     string    `json:"title"`
	Year      int       `json:"year"`
	Semester  int       `json:"semester"`
	Credits   int       `json:"credits"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewModuleResponse maps a module row onto its catalog view.
func NewModuleResponse(module models.Module) ModuleResponse {
	return ModuleResponse{
		ID:        module.ID,
		Code:      module.Code,
		Title:     module.Title,
		Year:      module.Year,
		Semester:  module.Semester,
		Credits:   module.Credits,
		UpdatedAt: module.UpdatedAt,
	}
}
