package dto

import "github.com/unidash/unidash-api/internal/policy"

// ModuleBatchesResponse lists the batch versions a student may view for a
// module, alongside the default selection.
type ModuleBatchesResponse struct {
	UserBatchNumber  int                   `json:"userBatchNumber"`
	AvailableBatches []policy.BatchSummary `json:"availableBatches"`
	DefaultBatch     int                   `json:"defaultBatch"`
}

// EditRightsResponse reports what the requesting student may edit for a
// module while viewing a particular batch.
type EditRightsResponse struct {
	UserBatchNumber    int  `json:"userBatchNumber"`
	ViewingBatch       int  `json:"viewingBatch"`
	DerivedYear        int  `json:"derivedYear"`
	ModuleYear         int  `json:"moduleYear"`
	CanEdit            bool `json:"canEdit"`
	CanEditTopics      bool `json:"canEditTopics"`
	CanEditPapersAndCA bool `json:"canEditPapersAndCa"`
}
