package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/unidash/unidash-api/internal/models"
	"github.com/unidash/unidash-api/internal/repository"
)

var (
	// ErrProfileNotFound indicates the authenticated user has no stored profile.
	ErrProfileNotFound = errors.New("student profile not found")
	// ErrProfileIncomplete indicates a profile exists but carries no batch assignment.
	ErrProfileIncomplete = errors.New("user has no batch assigned, please contact admin")
	// ErrBatchJoinFailed indicates a batch id points at a missing batch row.
	ErrBatchJoinFailed = errors.New("batch record missing for assigned batch id")
	// ErrBatchRequired indicates a request without a usable batch number.
	ErrBatchRequired = errors.New("batch number required")
	// ErrModuleNotFound indicates a module lookup failed.
	ErrModuleNotFound = errors.New("module not found")
	// ErrInvalidPayload indicates a content or paper payload that does not parse.
	ErrInvalidPayload = errors.New("invalid content payload")
)

// resolveProfileBatch maps an authenticated user onto their profile and own
// batch number. Every module content operation starts here.
func resolveProfileBatch(ctx context.Context, profiles repository.StudentProfileRepository, userID uint) (models.StudentProfile, int, error) {
	profile, err := profiles.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.StudentProfile{}, 0, ErrProfileNotFound
		}
		return models.StudentProfile{}, 0, err
	}

	if profile.BatchID == nil {
		return profile, 0, ErrProfileIncomplete
	}

	if profile.Batch == nil || profile.Batch.BatchNumber <= 0 {
		return profile, 0, ErrBatchJoinFailed
	}

	return profile, profile.Batch.BatchNumber, nil
}
