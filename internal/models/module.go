package models

import "time"

// Module is a unit of study taught in a nominal academic year.
type Module struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"size:32;uniqueIndex;not null" json:"code"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Year      int       `gorm:"not null;index" json:"year"`
	Semester  int       `gorm:"default:1" json:"semester"`
	Credits   int       `gorm:"default:0" json:"credits"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
