package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Content block types supported inside a sub-topic.
const (
	BlockTypeText = "text"
	BlockTypeLink = "link"
	BlockTypeNote = "note"
)

// Continuous assessment component types.
const (
	CATypeWrittenExam  = "written_exam"
	CATypePresentation = "presentation"
	CATypeMCQ          = "mcq"
	CATypePractical    = "practical"
	CATypeVideo        = "video"
	CATypeOther        = "other"
)

// CAWeights is the fixed set of percentages a CA component may carry.
var CAWeights = []int{20, 30, 40, 50}

// ContentBlock is a single note, link or text entry under a sub-topic.
type ContentBlock struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Content string `json:"content"`
	URL     string `json:"url,omitempty"`
}

// SubTopic groups ordered content blocks under a topic.
type SubTopic struct {
	ID     string         `json:"id"`
	Title  string         `json:"title"`
	Blocks []ContentBlock `json:"blocks"`
}

// Topic is one entry of a module's topic outline.
type Topic struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	SubTopics []SubTopic `json:"subTopics"`
}

// ModuleContent is the topic outline payload stored per (module, batch).
type ModuleContent struct {
	Topics          []Topic `json:"topics"`
	AdditionalNotes string  `json:"additionalNotes,omitempty"`
}

// EssayQuestion describes one essay slot of a past paper.
type EssayQuestion struct {
	Topics string `json:"topics"`
	Marks  int    `json:"marks"`
}

// PaperStructure is the exam-structure payload stored per (module, batch).
type PaperStructure struct {
	TotalQuestions int             `json:"totalQuestions"`
	Duration       int             `json:"duration"`
	HasMCQs        bool            `json:"hasMcqs"`
	MCQCount       int             `json:"mcqCount"`
	MCQMarks       int             `json:"mcqMarks"`
	MCQNotes       string          `json:"mcqNotes,omitempty"`
	EssayCount     int             `json:"essayCount"`
	EssayMarks     int             `json:"essayMarks"`
	EssayQuestions []EssayQuestion `json:"essayQuestions"`
	GeneralNotes   string          `json:"generalNotes,omitempty"`
}

// ModuleContentVersion is one module's topic outline for one batch. Exactly
// one row may exist per (module, batch); saves upsert on that composite key.
type ModuleContentVersion struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	ModuleID        uint           `gorm:"not null;uniqueIndex:idx_content_module_batch" json:"module_id"`
	BatchNumber     int            `gorm:"not null;uniqueIndex:idx_content_module_batch" json:"batch_number"`
	ContentJSON     datatypes.JSON `gorm:"type:json" json:"content_json"`
	LecturerName    string         `gorm:"size:255" json:"lecturer_name"`
	ClonedFromBatch *int           `json:"cloned_from_batch"`
	CreatedBy       uint           `json:"created_by"`
	UpdatedBy       uint           `json:"updated_by"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// PastPaperStructure is one module's exam-structure metadata for one batch,
// versioned independently from the topic outline.
type PastPaperStructure struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	ModuleID      uint           `gorm:"not null;uniqueIndex:idx_paper_module_batch" json:"module_id"`
	BatchNumber   int            `gorm:"not null;uniqueIndex:idx_paper_module_batch" json:"batch_number"`
	StructureJSON datatypes.JSON `gorm:"type:json" json:"structure_json"`
	CreatedBy     uint           `json:"created_by"`
	UpdatedBy     uint           `json:"updated_by"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// ContinuousAssessment is one graded component of a (module, batch) pair.
// The set is always replaced whole on save, never patched row by row.
type ContinuousAssessment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ModuleID    uint      `gorm:"not null;index:idx_ca_module_batch" json:"module_id"`
	BatchNumber int       `gorm:"not null;index:idx_ca_module_batch" json:"batch_number"`
	CANumber    int       `gorm:"not null" json:"ca_number"`
	CAType      string    `gorm:"size:32;not null" json:"ca_type"`
	CAWeight    int       `gorm:"not null" json:"ca_weight"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BeforeSave normalises the component type prior to persistence.
func (ca *ContinuousAssessment) BeforeSave(tx *gorm.DB) error {
	ca.CAType = NormalizeCAType(ca.CAType)
	return nil
}

// NormalizeCAType maps free-form input onto a known component type.
func NormalizeCAType(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case CATypeWrittenExam:
		return CATypeWrittenExam
	case CATypePresentation:
		return CATypePresentation
	case CATypeMCQ:
		return CATypeMCQ
	case CATypePractical:
		return CATypePractical
	case CATypeVideo:
		return CATypeVideo
	default:
		return CATypeOther
	}
}
