package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/unidash/unidash-api/internal/dto"
	"github.com/unidash/unidash-api/internal/models"
	"github.com/unidash/unidash-api/internal/policy"
	"github.com/unidash/unidash-api/internal/repository"
)

func newContentService(t *testing.T, db *gorm.DB) ContentService {
	t.Helper()

	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewContentService(
		repository.NewStudentProfileRepository(db),
		repository.NewContentVersionRepository(db),
		repository.NewPastPaperRepository(db),
		repository.NewAssessmentRepository(db),
		repository.NewEditLogRepository(db),
		validate,
		policy.Default(),
		testLogger(),
	)
}

func caPayload(items ...dto.ContinuousAssessmentPayload) *[]dto.ContinuousAssessmentPayload {
	return &items
}

func TestContentServiceSaveAndSnapshotRoundTrip(t *testing.T) {
	db := newTestDB(t)
	seedStudent(t, db, 101, "IX/2021/101", 30)

	svc := newContentService(t, db)
	ctx := context.Background()

	contentJSON, err := json.Marshal(models.ModuleContent{
		Topics: []models.Topic{{
			ID:    "t1",
			Title: "Anatomy of the heart",
			SubTopics: []models.SubTopic{{
				ID:     "s1",
				Title:  "Chambers",
				Blocks: []models.ContentBlock{{ID: "b1", Type: models.BlockTypeText, Content: "Four chambers"}},
			}},
		}},
	})
	require.NoError(t, err)

	paperJSON, err := json.Marshal(models.PaperStructure{
		TotalQuestions: 10,
		Duration:       180,
		HasMCQs:        true,
		MCQCount:       5,
		MCQMarks:       40,
		EssayCount:     5,
		EssayMarks:     60,
		EssayQuestions: []models.EssayQuestion{{Topics: "Cardiac cycle", Marks: 12}},
	})
	require.NoError(t, err)

	result, err := svc.SaveSnapshot(ctx, 501, 101, dto.SaveSnapshotRequest{
		BatchNumber:        30,
		ContentJSON:        contentJSON,
		PastPaperStructure: paperJSON,
		ContinuousAssessments: caPayload(
			dto.ContinuousAssessmentPayload{CANumber: 1, Type: "MCQ", Weight: 20, Description: "First CA"},
			dto.ContinuousAssessmentPayload{CANumber: 2, Type: "practical", Weight: 30, Description: "Second CA"},
		),
		LecturerName: "Dr. Perera",
		EditReason:   "Initial upload",
	})
	require.NoError(t, err)
	require.True(t, result.Success)
	require.True(t, result.ContentSaved)
	require.True(t, result.PaperSaved)
	require.Equal(t, 2, result.CAsSaved)
	require.Empty(t, result.Warnings)

	snapshot, err := svc.GetSnapshot(ctx, 501, 30)
	require.NoError(t, err)
	require.True(t, snapshot.HasContent)
	require.True(t, snapshot.HasPaperStructure)
	require.True(t, snapshot.HasCAs)
	require.Equal(t, "Dr. Perera", snapshot.Content.LecturerName)
	require.Nil(t, snapshot.Content.ClonedFromBatch)
	require.Len(t, snapshot.ContinuousAssessments, 2)
	require.Equal(t, models.CATypeMCQ, snapshot.ContinuousAssessments[0].CAType)
	require.Equal(t, models.CATypePractical, snapshot.ContinuousAssessments[1].CAType)

	var logs []models.EditLog
	require.NoError(t, db.Where("module_id = ?", 501).Find(&logs).Error)
	require.Len(t, logs, 1)
	require.Equal(t, "IX/2021/101", logs[0].EditedByIndex)
	require.Equal(t, "Initial upload", logs[0].EditReason)
	require.NotNil(t, logs[0].ContentVersionID)
}

func TestContentServiceSaveRejectsForeignBatch(t *testing.T) {
	db := newTestDB(t)
	seedStudent(t, db, 102, "IX/2021/102", 31)

	svc := newContentService(t, db)

	_, err := svc.SaveSnapshot(context.Background(), 502, 102, dto.SaveSnapshotRequest{
		BatchNumber: 30,
		ContinuousAssessments: caPayload(
			dto.ContinuousAssessmentPayload{CANumber: 1, Type: "mcq", Weight: 20},
		),
	})
	require.ErrorIs(t, err, policy.ErrForeignBatch)

	var count int64
	require.NoError(t, db.Model(&models.ContinuousAssessment{}).Where("module_id = ?", 502).Count(&count).Error)
	require.Zero(t, count)
}

func TestContentServiceSaveRejectsMalformedPayload(t *testing.T) {
	db := newTestDB(t)
	seedStudent(t, db, 103, "IX/2021/103", 32)

	svc := newContentService(t, db)

	_, err := svc.SaveSnapshot(context.Background(), 503, 103, dto.SaveSnapshotRequest{
		BatchNumber: 32,
		ContentJSON: json.RawMessage(`{"topics": not-json`),
	})
	require.ErrorIs(t, err, ErrInvalidPayload)

	var count int64
	require.NoError(t, db.Model(&models.ModuleContentVersion{}).Where("module_id = ?", 503).Count(&count).Error)
	require.Zero(t, count)
}

func TestContentServiceSaveSanitizesContent(t *testing.T) {
	db := newTestDB(t)
	seedStudent(t, db, 104, "IX/2021/104", 33)

	svc := newContentService(t, db)
	ctx := context.Background()

	contentJSON, err := json.Marshal(models.ModuleContent{
		AdditionalNotes: `<script>alert(1)</script>bring calculators`,
	})
	require.NoError(t, err)

	_, err = svc.SaveSnapshot(ctx, 504, 104, dto.SaveSnapshotRequest{
		BatchNumber: 33,
		ContentJSON: contentJSON,
	})
	require.NoError(t, err)

	snapshot, err := svc.GetSnapshot(ctx, 504, 33)
	require.NoError(t, err)

	var stored models.ModuleContent
	require.NoError(t, json.Unmarshal(snapshot.Content.ContentJSON, &stored))
	require.Equal(t, "bring calculators", stored.AdditionalNotes)
}

func TestContentServiceCAReplaceIsWholeSet(t *testing.T) {
	db := newTestDB(t)
	seedStudent(t, db, 105, "IX/2021/105", 34)

	svc := newContentService(t, db)
	ctx := context.Background()

	_, err := svc.SaveSnapshot(ctx, 505, 105, dto.SaveSnapshotRequest{
		BatchNumber: 34,
		ContinuousAssessments: caPayload(
			dto.ContinuousAssessmentPayload{CANumber: 1, Type: "mcq", Weight: 20},
			dto.ContinuousAssessmentPayload{CANumber: 2, Type: "video", Weight: 30},
		),
	})
	require.NoError(t, err)

	// Replacing with one component drops the other, not patches it.
	result, err := svc.SaveSnapshot(ctx, 505, 105, dto.SaveSnapshotRequest{
		BatchNumber: 34,
		ContinuousAssessments: caPayload(
			dto.ContinuousAssessmentPayload{CANumber: 1, Type: "presentation", Weight: 40},
		),
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.CAsSaved)

	snapshot, err := svc.GetSnapshot(ctx, 505, 34)
	require.NoError(t, err)
	require.Len(t, snapshot.ContinuousAssessments, 1)
	require.Equal(t, models.CATypePresentation, snapshot.ContinuousAssessments[0].CAType)

	// A nil set leaves the stored components untouched.
	_, err = svc.SaveSnapshot(ctx, 505, 105, dto.SaveSnapshotRequest{
		BatchNumber:  34,
		LecturerName: "Dr. Silva",
	})
	require.NoError(t, err)

	snapshot, err = svc.GetSnapshot(ctx, 505, 34)
	require.NoError(t, err)
	require.Len(t, snapshot.ContinuousAssessments, 1)

	// An explicitly empty set wipes them.
	result, err = svc.SaveSnapshot(ctx, 505, 105, dto.SaveSnapshotRequest{
		BatchNumber:           34,
		ContinuousAssessments: caPayload(),
	})
	require.NoError(t, err)
	require.Zero(t, result.CAsSaved)

	snapshot, err = svc.GetSnapshot(ctx, 505, 34)
	require.NoError(t, err)
	require.False(t, snapshot.HasCAs)
	require.Empty(t, snapshot.ContinuousAssessments)
}

func TestContentServiceSaveWarnsOnWeightProblems(t *testing.T) {
	db := newTestDB(t)
	seedStudent(t, db, 106, "IX/2021/106", 35)

	svc := newContentService(t, db)

	result, err := svc.SaveSnapshot(context.Background(), 506, 106, dto.SaveSnapshotRequest{
		BatchNumber: 35,
		ContinuousAssessments: caPayload(
			dto.ContinuousAssessmentPayload{CANumber: 1, Type: "mcq", Weight: 50},
			dto.ContinuousAssessmentPayload{CANumber: 2, Type: "practical", Weight: 45},
		),
	})
	require.NoError(t, err)
	require.True(t, result.Success)
	require.NotEmpty(t, result.Warnings)
	// Advisory only: the set is still persisted.
	require.Equal(t, 2, result.CAsSaved)
}

func TestContentServiceCloneCopiesOnlyPresentSources(t *testing.T) {
	db := newTestDB(t)
	seedStudent(t, db, 107, "IX/2021/107", 42)
	seedStudent(t, db, 108, "IX/2021/108", 44)

	svc := newContentService(t, db)
	ctx := context.Background()

	contentJSON, err := json.Marshal(models.ModuleContent{AdditionalNotes: "senior notes"})
	require.NoError(t, err)

	// The senior batch carries content and CAs but no paper structure.
	_, err = svc.SaveSnapshot(ctx, 507, 107, dto.SaveSnapshotRequest{
		BatchNumber:  42,
		ContentJSON:  contentJSON,
		LecturerName: "Dr. Fernando",
		ContinuousAssessments: caPayload(
			dto.ContinuousAssessmentPayload{CANumber: 1, Type: "mcq", Weight: 20},
		),
	})
	require.NoError(t, err)

	// The junior batch already has its own paper structure.
	paperJSON, err := json.Marshal(models.PaperStructure{TotalQuestions: 8, Duration: 120})
	require.NoError(t, err)
	_, err = svc.SaveSnapshot(ctx, 507, 108, dto.SaveSnapshotRequest{
		BatchNumber:        44,
		PastPaperStructure: paperJSON,
	})
	require.NoError(t, err)

	result, err := svc.Clone(ctx, 507, 108, dto.CloneRequest{FromBatch: 42, ToBatch: 44})
	require.NoError(t, err)
	require.True(t, result.Success)
	require.True(t, result.ClonedContent)
	require.False(t, result.ClonedPaper)
	require.Equal(t, 1, result.ClonedCAs)

	snapshot, err := svc.GetSnapshot(ctx, 507, 44)
	require.NoError(t, err)
	require.True(t, snapshot.HasContent)
	require.NotNil(t, snapshot.Content.ClonedFromBatch)
	require.Equal(t, 42, *snapshot.Content.ClonedFromBatch)
	require.Equal(t, "Dr. Fernando", snapshot.Content.LecturerName)

	// The absent source left the junior batch's own paper untouched.
	require.True(t, snapshot.HasPaperStructure)
	var stored models.PaperStructure
	require.NoError(t, json.Unmarshal(snapshot.PastPaperStructure.StructureJSON, &stored))
	require.Equal(t, 8, stored.TotalQuestions)

	var logs []models.EditLog
	require.NoError(t, db.Where("module_id = ? AND batch_number = ?", 507, 44).Order("id").Find(&logs).Error)
	require.NotEmpty(t, logs)
	require.Equal(t, "Cloned from batch 42", logs[len(logs)-1].EditReason)
}

func TestContentServiceCloneRejectsForeignDestination(t *testing.T) {
	db := newTestDB(t)
	seedStudent(t, db, 109, "IX/2021/109", 45)

	svc := newContentService(t, db)

	_, err := svc.Clone(context.Background(), 508, 109, dto.CloneRequest{FromBatch: 43, ToBatch: 46})
	require.ErrorIs(t, err, policy.ErrForeignBatch)
}

func TestContentServiceCloneIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	seedStudent(t, db, 110, "IX/2021/110", 52)
	seedStudent(t, db, 111, "IX/2021/111", 54)

	svc := newContentService(t, db)
	ctx := context.Background()

	contentJSON, err := json.Marshal(models.ModuleContent{AdditionalNotes: "source"})
	require.NoError(t, err)
	_, err = svc.SaveSnapshot(ctx, 509, 110, dto.SaveSnapshotRequest{
		BatchNumber: 52,
		ContentJSON: contentJSON,
		ContinuousAssessments: caPayload(
			dto.ContinuousAssessmentPayload{CANumber: 1, Type: "mcq", Weight: 20},
			dto.ContinuousAssessmentPayload{CANumber: 2, Type: "video", Weight: 30},
		),
	})
	require.NoError(t, err)

	first, err := svc.Clone(ctx, 509, 111, dto.CloneRequest{FromBatch: 52, ToBatch: 54})
	require.NoError(t, err)
	second, err := svc.Clone(ctx, 509, 111, dto.CloneRequest{FromBatch: 52, ToBatch: 54})
	require.NoError(t, err)
	require.Equal(t, first.ClonedCAs, second.ClonedCAs)

	var contentCount int64
	require.NoError(t, db.Model(&models.ModuleContentVersion{}).
		Where("module_id = ? AND batch_number = ?", 509, 54).Count(&contentCount).Error)
	require.Equal(t, int64(1), contentCount)

	var caCount int64
	require.NoError(t, db.Model(&models.ContinuousAssessment{}).
		Where("module_id = ? AND batch_number = ?", 509, 54).Count(&caCount).Error)
	require.Equal(t, int64(2), caCount)
}

func TestContentServiceSaveKeepsCloneProvenance(t *testing.T) {
	db := newTestDB(t)
	seedStudent(t, db, 113, "IX/2021/113", 62)
	seedStudent(t, db, 114, "IX/2021/114", 64)

	svc := newContentService(t, db)
	ctx := context.Background()

	contentJSON, err := json.Marshal(models.ModuleContent{AdditionalNotes: "inherited"})
	require.NoError(t, err)
	_, err = svc.SaveSnapshot(ctx, 511, 113, dto.SaveSnapshotRequest{
		BatchNumber: 62,
		ContentJSON: contentJSON,
	})
	require.NoError(t, err)

	_, err = svc.Clone(ctx, 511, 114, dto.CloneRequest{FromBatch: 62, ToBatch: 64})
	require.NoError(t, err)

	// Editing the cloned content afterwards must not erase where it came from.
	editedJSON, err := json.Marshal(models.ModuleContent{AdditionalNotes: "our own revision"})
	require.NoError(t, err)
	_, err = svc.SaveSnapshot(ctx, 511, 114, dto.SaveSnapshotRequest{
		BatchNumber:  64,
		ContentJSON:  editedJSON,
		LecturerName: "Dr. Herath",
	})
	require.NoError(t, err)

	snapshot, err := svc.GetSnapshot(ctx, 511, 64)
	require.NoError(t, err)
	require.NotNil(t, snapshot.Content.ClonedFromBatch)
	require.Equal(t, 62, *snapshot.Content.ClonedFromBatch)
	require.Equal(t, "Dr. Herath", snapshot.Content.LecturerName)

	var stored models.ModuleContent
	require.NoError(t, json.Unmarshal(snapshot.Content.ContentJSON, &stored))
	require.Equal(t, "our own revision", stored.AdditionalNotes)
}

func TestContentServiceProfileFailures(t *testing.T) {
	db := newTestDB(t)

	// A profile with no batch assignment.
	profile := models.StudentProfile{ID: 112, IndexNumber: "IX/2021/112", FullName: "No Batch"}
	require.NoError(t, db.Create(&profile).Error)

	svc := newContentService(t, db)
	ctx := context.Background()

	_, err := svc.SaveSnapshot(ctx, 510, 112, dto.SaveSnapshotRequest{BatchNumber: 30})
	require.ErrorIs(t, err, ErrProfileIncomplete)

	_, err = svc.SaveSnapshot(ctx, 510, 9999, dto.SaveSnapshotRequest{BatchNumber: 30})
	require.ErrorIs(t, err, ErrProfileNotFound)
}
