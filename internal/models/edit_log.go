package models

import "time"

// EditLog is an immutable audit record written on every successful content
// save or clone. Rows are only ever created and read, never updated.
type EditLog struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	ModuleID         uint      `gorm:"not null;index" json:"module_id"`
	ContentVersionID *uint     `gorm:"index" json:"content_version_id"`
	BatchNumber      int       `gorm:"not null" json:"batch_number"`
	EditedByIndex    string    `gorm:"size:64;not null;index" json:"edited_by_index"`
	EditReason       string    `gorm:"type:text" json:"edit_reason"`
	CreatedAt        time.Time `json:"created_at"`
}
