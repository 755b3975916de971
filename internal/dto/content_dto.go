package dto

import (
	"encoding/json"

	"github.com/unidash/unidash-api/internal/models"
)

// ContinuousAssessmentPayload is one CA component as submitted by a client.
type ContinuousAssessmentPayload struct {
	CANumber    int    `json:"caNumber"`
	Type        string `json:"type"`
	Weight      int    `json:"weight"`
	Description string `json:"description"`
}

// SnapshotResponse combines the three independently versioned content
// sources for one (module, batch) pair. Any of them may be absent.
type SnapshotResponse struct {
	BatchNumber           int                           `json:"batchNumber"`
	Content               *models.ModuleContentVersion  `json:"content"`
	PastPaperStructure    *models.PastPaperStructure    `json:"pastPaperStructure"`
	ContinuousAssessments []models.ContinuousAssessment `json:"continuousAssessments"`
	HasContent            bool                          `json:"hasContent"`
	HasPaperStructure     bool                          `json:"hasPaperStructure"`
	HasCAs                bool                          `json:"hasCAs"`
}

// SaveSnapshotRequest carries a full-replace save of any subset of the three
// content sources. A nil ContinuousAssessments leaves the stored set alone;
// an explicitly empty list wipes it.
type SaveSnapshotRequest struct {
	BatchNumber           int                            `json:"batchNumber" validate:"required,gt=0"`
	ContentJSON           json.RawMessage                `json:"contentJson,omitempty"`
	PastPaperStructure    json.RawMessage                `json:"pastPaperStructure,omitempty"`
	ContinuousAssessments *[]ContinuousAssessmentPayload `json:"continuousAssessments,omitempty"`
	LecturerName          string                         `json:"lecturerName,omitempty"`
	EditReason            string                         `json:"editReason,omitempty"`
}

// SaveResult enumerates the per-entity outcome of a save. The three
// sub-writes are independent; callers must inspect which ones landed.
type SaveResult struct {
	Success      bool     `json:"success"`
	ContentSaved bool     `json:"contentSaved"`
	PaperSaved   bool     `json:"paperSaved"`
	CAsSaved     int      `json:"casSaved"`
	Warnings     []string `json:"warnings,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// CloneRequest asks for a senior batch's snapshot to be copied into the
// caller's own batch.
type CloneRequest struct {
	FromBatch int `json:"fromBatch"`
	ToBatch   int `json:"toBatch"`
}

// CloneResult reports which sub-entities were actually copied. Sources
// absent at the origin batch are skipped and leave the destination alone.
type CloneResult struct {
	Success       bool   `json:"success"`
	ClonedFrom    int    `json:"clonedFrom"`
	ClonedTo      int    `json:"clonedTo"`
	ClonedContent bool   `json:"clonedContent"`
	ClonedPaper   bool   `json:"clonedPaper"`
	ClonedCAs     int    `json:"clonedCAs"`
	Error         string `json:"error,omitempty"`
}
