package dto

import (
	"time"

	"github.com/unidash/unidash-api/internal/models"
)

// PaginationMeta describes the slice of a paginated listing.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
}

// EditLogEntry is one row of the edit history view.
type EditLogEntry struct {
	ID               uint      `json:"id"`
	ModuleID         uint      `json:"module_id"`
	ContentVersionID *uint     `json:"content_version_id"`
	BatchNumber      int       `json:"batch_number"`
	EditedByIndex    string    `json:"edited_by_index"`
	EditReason       string    `json:"edit_reason"`
	CreatedAt        time.Time `json:"created_at"`
}

// EditHistoryResult is a page of edit log entries, newest first.
type EditHistoryResult struct {
	Items      []EditLogEntry `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}

// NewEditLogEntry maps an audit row onto its history view.
func NewEditLogEntry(entry models.EditLog) EditLogEntry {
	return EditLogEntry{
		ID:               entry.ID,
		ModuleID:         entry.ModuleID,
		ContentVersionID: entry.ContentVersionID,
		BatchNumber:      entry.BatchNumber,
		EditedByIndex:    entry.EditedByIndex,
		EditReason:       entry.EditReason,
		CreatedAt:        entry.CreatedAt,
	}
}
