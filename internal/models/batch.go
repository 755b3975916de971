package models

import "time"

// Batch is an admission cohort. Batch numbers increase with every intake and
// are never reused, so a lower number always means a more senior cohort.
type Batch struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	BatchNumber     int       `gorm:"uniqueIndex;not null" json:"batch_number"`
	BatchCode       string    `gorm:"size:32" json:"batch_code"`
	CurrentSemester int       `gorm:"default:1" json:"current_semester"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// StudentProfile links an authenticated user to their cohort. A profile with
// no batch assignment cannot use any module content endpoint.
type StudentProfile struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	IndexNumber string    `gorm:"size:64;uniqueIndex" json:"index_number"`
	FullName    string    `gorm:"size:255" json:"full_name"`
	BatchID     *uint     `gorm:"index" json:"batch_id"`
	Batch       *Batch    `gorm:"foreignKey:BatchID" json:"batch,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
