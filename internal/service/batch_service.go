package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/unidash/unidash-api/internal/dto"
	"github.com/unidash/unidash-api/internal/models"
	"github.com/unidash/unidash-api/internal/policy"
	"github.com/unidash/unidash-api/internal/repository"
)

// BatchService resolves which batch versions of a module a student may view
// and what they are allowed to edit.
type BatchService interface {
	ListModuleBatches(ctx context.Context, moduleID, userID uint) (dto.ModuleBatchesResponse, error)
	EditRights(ctx context.Context, moduleID, userID uint, viewingBatch int) (dto.EditRightsResponse, error)
}

type batchService struct {
	profiles    repository.StudentProfileRepository
	modules     repository.ModuleRepository
	contents    repository.ContentVersionRepository
	papers      repository.PastPaperRepository
	assessments repository.AssessmentRepository
	policy      policy.Config
	logger      zerolog.Logger
}

// NewBatchService constructs the batch resolution service.
func NewBatchService(
	profiles repository.StudentProfileRepository,
	modules repository.ModuleRepository,
	contents repository.ContentVersionRepository,
	papers repository.PastPaperRepository,
	assessments repository.AssessmentRepository,
	policyCfg policy.Config,
	logger zerolog.Logger,
) BatchService {
	return &batchService{
		profiles:    profiles,
		modules:     modules,
		contents:    contents,
		papers:      papers,
		assessments: assessments,
		policy:      policyCfg,
		logger:      logger.With().Str("component", "batch_service").Logger(),
	}
}

func (s *batchService) ListModuleBatches(ctx context.Context, moduleID, userID uint) (dto.ModuleBatchesResponse, error) {
	_, ownBatch, err := resolveProfileBatch(ctx, s.profiles, userID)
	if err != nil {
		return dto.ModuleBatchesResponse{}, err
	}

	viewable := s.policy.ViewableBatches(ownBatch)

	contentRows, err := s.contents.ListMeta(ctx, moduleID, viewable)
	if err != nil {
		return dto.ModuleBatchesResponse{}, err
	}

	paperRows, err := s.papers.ListMeta(ctx, moduleID, viewable)
	if err != nil {
		return dto.ModuleBatchesResponse{}, err
	}

	caRows, err := s.assessments.ListMeta(ctx, moduleID, viewable)
	if err != nil {
		return dto.ModuleBatchesResponse{}, err
	}

	summaries := s.policy.AnnotateAvailability(
		viewable,
		contentAvailability(contentRows),
		paperAvailability(paperRows),
		caAvailability(caRows),
	)

	return dto.ModuleBatchesResponse{
		UserBatchNumber:  ownBatch,
		AvailableBatches: summaries,
		DefaultBatch:     s.policy.PickDefaultBatch(summaries, ownBatch),
	}, nil
}

func (s *batchService) EditRights(ctx context.Context, moduleID, userID uint, viewingBatch int) (dto.EditRightsResponse, error) {
	_, ownBatch, err := resolveProfileBatch(ctx, s.profiles, userID)
	if err != nil {
		return dto.EditRightsResponse{}, err
	}

	module, err := s.modules.GetByID(ctx, moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EditRightsResponse{}, ErrModuleNotFound
		}
		return dto.EditRightsResponse{}, err
	}

	if viewingBatch <= 0 {
		viewingBatch = ownBatch
	}

	return dto.EditRightsResponse{
		UserBatchNumber:    ownBatch,
		ViewingBatch:       viewingBatch,
		DerivedYear:        s.policy.DerivedYear(ownBatch),
		ModuleYear:         module.Year,
		CanEdit:            s.policy.CanEditModule(ownBatch, module.Year),
		CanEditTopics:      s.policy.CanEditTopics(ownBatch, viewingBatch, module.Year),
		CanEditPapersAndCA: s.policy.CanEditPapersAndCA(ownBatch, module.Year),
	}, nil
}

func contentAvailability(rows []models.ModuleContentVersion) []policy.AvailabilityRow {
	result := make([]policy.AvailabilityRow, 0, len(rows))
	for _, row := range rows {
		result = append(result, policy.AvailabilityRow{
			BatchNumber:  row.BatchNumber,
			UpdatedAt:    row.UpdatedAt,
			LecturerName: row.LecturerName,
		})
	}
	return result
}

func paperAvailability(rows []models.PastPaperStructure) []policy.AvailabilityRow {
	result := make([]policy.AvailabilityRow, 0, len(rows))
	for _, row := range rows {
		result = append(result, policy.AvailabilityRow{
			BatchNumber: row.BatchNumber,
			UpdatedAt:   row.UpdatedAt,
		})
	}
	return result
}

func caAvailability(rows []models.ContinuousAssessment) []policy.AvailabilityRow {
	result := make([]policy.AvailabilityRow, 0, len(rows))
	for _, row := range rows {
		result = append(result, policy.AvailabilityRow{
			BatchNumber: row.BatchNumber,
			UpdatedAt:   row.UpdatedAt,
		})
	}
	return result
}
