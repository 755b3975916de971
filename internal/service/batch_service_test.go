package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/unidash/unidash-api/internal/models"
	"github.com/unidash/unidash-api/internal/policy"
	"github.com/unidash/unidash-api/internal/repository"
)

func TestBatchServiceListModuleBatches(t *testing.T) {
	db := newTestDB(t)
	seedStudent(t, db, 201, "IX/2022/201", 24)

	now := time.Now().UTC()

	// Batch 22 carries the freshest content; 23 has older content; 21 has
	// only a paper structure. Batch 20 is outside the viewable window.
	rows := []models.ModuleContentVersion{
		{ModuleID: 601, BatchNumber: 23, LecturerName: "Dr. Jayasuriya", UpdatedAt: now.Add(-48 * time.Hour)},
		{ModuleID: 601, BatchNumber: 22, LecturerName: "Dr. Wickrama", UpdatedAt: now.Add(-1 * time.Hour)},
		{ModuleID: 601, BatchNumber: 20, LecturerName: "Dr. Senior", UpdatedAt: now},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}
	require.NoError(t, db.Create(&models.PastPaperStructure{
		ModuleID: 601, BatchNumber: 21, UpdatedAt: now.Add(-72 * time.Hour),
	}).Error)

	svc := NewBatchService(
		repository.NewStudentProfileRepository(db),
		repository.NewModuleRepository(db),
		repository.NewContentVersionRepository(db),
		repository.NewPastPaperRepository(db),
		repository.NewAssessmentRepository(db),
		policy.Default(),
		testLogger(),
	)

	result, err := svc.ListModuleBatches(context.Background(), 601, 201)
	require.NoError(t, err)
	require.Equal(t, 24, result.UserBatchNumber)
	require.Equal(t, 22, result.DefaultBatch)

	require.Len(t, result.AvailableBatches, 4)
	numbers := make([]int, 0, 4)
	for _, summary := range result.AvailableBatches {
		numbers = append(numbers, summary.BatchNumber)
	}
	require.Equal(t, []int{24, 23, 22, 21}, numbers)

	require.False(t, result.AvailableBatches[0].HasAnyData())
	require.True(t, result.AvailableBatches[1].HasContent)
	require.True(t, result.AvailableBatches[2].HasContent)
	require.Equal(t, "Dr. Wickrama", result.AvailableBatches[2].LecturerName)
	require.True(t, result.AvailableBatches[3].HasPaperStructure)
	require.False(t, result.AvailableBatches[3].HasContent)
}

func TestBatchServiceListRequiresBatchAssignment(t *testing.T) {
	db := newTestDB(t)

	profile := models.StudentProfile{ID: 202, IndexNumber: "IX/2022/202", FullName: "Unassigned"}
	require.NoError(t, db.Create(&profile).Error)

	svc := NewBatchService(
		repository.NewStudentProfileRepository(db),
		repository.NewModuleRepository(db),
		repository.NewContentVersionRepository(db),
		repository.NewPastPaperRepository(db),
		repository.NewAssessmentRepository(db),
		policy.Default(),
		testLogger(),
	)

	_, err := svc.ListModuleBatches(context.Background(), 602, 202)
	require.ErrorIs(t, err, ErrProfileIncomplete)

	_, err = svc.ListModuleBatches(context.Background(), 602, 9998)
	require.ErrorIs(t, err, ErrProfileNotFound)
}

func TestBatchServiceEditRights(t *testing.T) {
	db := newTestDB(t)
	seedStudent(t, db, 203, "IX/2022/203", 24)

	firstYear := models.Module{ID: 603, Code: "MED101", Title: "Basic Anatomy", Year: 1, Semester: 1, Credits: 3}
	secondYear := models.Module{ID: 604, Code: "MED201", Title: "Pathology", Year: 2, Semester: 1, Credits: 4}
	require.NoError(t, db.Create(&firstYear).Error)
	require.NoError(t, db.Create(&secondYear).Error)

	svc := NewBatchService(
		repository.NewStudentProfileRepository(db),
		repository.NewModuleRepository(db),
		repository.NewContentVersionRepository(db),
		repository.NewPastPaperRepository(db),
		repository.NewAssessmentRepository(db),
		policy.Default(),
		testLogger(),
	)
	ctx := context.Background()

	// Batch 24 maps to year 1: first-year modules are editable.
	rights, err := svc.EditRights(ctx, 603, 203, 22)
	require.NoError(t, err)
	require.Equal(t, 1, rights.DerivedYear)
	require.True(t, rights.CanEdit)
	require.True(t, rights.CanEditPapersAndCA)
	// Topic edits stay batch-exclusive even with general edit rights.
	require.False(t, rights.CanEditTopics)

	rights, err = svc.EditRights(ctx, 603, 203, 0)
	require.NoError(t, err)
	require.Equal(t, 24, rights.ViewingBatch)
	require.True(t, rights.CanEditTopics)

	// A module ahead of the cohort's year is read-only.
	rights, err = svc.EditRights(ctx, 604, 203, 24)
	require.NoError(t, err)
	require.False(t, rights.CanEdit)
	require.False(t, rights.CanEditTopics)
	require.False(t, rights.CanEditPapersAndCA)

	_, err = svc.EditRights(ctx, 9997, 203, 24)
	require.ErrorIs(t, err, ErrModuleNotFound)
}
