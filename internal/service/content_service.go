package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/unidash/unidash-api/internal/dto"
	"github.com/unidash/unidash-api/internal/models"
	"github.com/unidash/unidash-api/internal/policy"
	"github.com/unidash/unidash-api/internal/repository"
)

// ContentService assembles per-batch content snapshots and performs the
// ownership-gated save and clone operations.
type ContentService interface {
	GetSnapshot(ctx context.Context, moduleID uint, batchNumber int) (dto.SnapshotResponse, error)
	SaveSnapshot(ctx context.Context, moduleID, userID uint, req dto.SaveSnapshotRequest) (dto.SaveResult, error)
	Clone(ctx context.Context, moduleID, userID uint, req dto.CloneRequest) (dto.CloneResult, error)
}

type contentService struct {
	profiles    repository.StudentProfileRepository
	contents    repository.ContentVersionRepository
	papers      repository.PastPaperRepository
	assessments repository.AssessmentRepository
	editLogs    repository.EditLogRepository
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	policy      policy.Config
	logger      zerolog.Logger
}

// NewContentService constructs the content inheritance service.
func NewContentService(
	profiles repository.StudentProfileRepository,
	contents repository.ContentVersionRepository,
	papers repository.PastPaperRepository,
	assessments repository.AssessmentRepository,
	editLogs repository.EditLogRepository,
	validate *validator.Validate,
	policyCfg policy.Config,
	logger zerolog.Logger,
) ContentService {
	return &contentService{
		profiles:    profiles,
		contents:    contents,
		papers:      papers,
		assessments: assessments,
		editLogs:    editLogs,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		policy:      policyCfg,
		logger:      logger.With().Str("component", "content_service").Logger(),
	}
}

func (s *contentService) GetSnapshot(ctx context.Context, moduleID uint, batchNumber int) (dto.SnapshotResponse, error) {
	if batchNumber <= 0 {
		return dto.SnapshotResponse{}, ErrBatchRequired
	}

	snapshot := dto.SnapshotResponse{
		BatchNumber:           batchNumber,
		ContinuousAssessments: []models.ContinuousAssessment{},
	}

	// The three fetches are independent: a batch with only a paper
	// structure, or only CAs, is a valid partial snapshot.
	content, err := s.contents.Get(ctx, moduleID, batchNumber)
	switch {
	case err == nil:
		snapshot.Content = &content
		snapshot.HasContent = true
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return dto.SnapshotResponse{}, err
	}

	paper, err := s.papers.Get(ctx, moduleID, batchNumber)
	switch {
	case err == nil:
		snapshot.PastPaperStructure = &paper
		snapshot.HasPaperStructure = true
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return dto.SnapshotResponse{}, err
	}

	cas, err := s.assessments.ListByBatch(ctx, moduleID, batchNumber)
	if err != nil {
		return dto.SnapshotResponse{}, err
	}
	if len(cas) > 0 {
		snapshot.ContinuousAssessments = cas
		snapshot.HasCAs = true
	}

	return snapshot, nil
}

func (s *contentService) SaveSnapshot(ctx context.Context, moduleID, userID uint, req dto.SaveSnapshotRequest) (dto.SaveResult, error) {
	if req.BatchNumber <= 0 {
		return dto.SaveResult{}, ErrBatchRequired
	}

	if err := s.validator.Struct(req); err != nil {
		return dto.SaveResult{}, err
	}

	profile, ownBatch, err := resolveProfileBatch(ctx, s.profiles, userID)
	if err != nil {
		return dto.SaveResult{}, err
	}

	if err := policy.GuardOwnBatch(ownBatch, req.BatchNumber); err != nil {
		return dto.SaveResult{}, err
	}

	// Parse payloads before touching the store so a malformed request
	// cannot land as a half-written snapshot.
	var content *models.ModuleContent
	if len(req.ContentJSON) > 0 {
		var parsed models.ModuleContent
		if err := json.Unmarshal(req.ContentJSON, &parsed); err != nil {
			return dto.SaveResult{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		s.sanitizeContent(&parsed)
		content = &parsed
	}

	var paper *models.PaperStructure
	if len(req.PastPaperStructure) > 0 {
		var parsed models.PaperStructure
		if err := json.Unmarshal(req.PastPaperStructure, &parsed); err != nil {
			return dto.SaveResult{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		s.sanitizePaper(&parsed)
		paper = &parsed
	}

	var result dto.SaveResult
	var subErrs []error
	var contentVersionID *uint
	casWritten := false

	if content != nil {
		payload, err := json.Marshal(content)
		if err != nil {
			subErrs = append(subErrs, fmt.Errorf("encode content: %w", err))
		} else {
			version := models.ModuleContentVersion{
				ModuleID:     moduleID,
				BatchNumber:  req.BatchNumber,
				ContentJSON:  datatypes.JSON(payload),
				LecturerName: req.LecturerName,
				CreatedBy:    userID,
				UpdatedBy:    userID,
			}
			if err := s.contents.Upsert(ctx, &version); err != nil {
				subErrs = append(subErrs, fmt.Errorf("save content: %w", err))
			} else {
				result.ContentSaved = true
				if stored, getErr := s.contents.Get(ctx, moduleID, req.BatchNumber); getErr == nil {
					contentVersionID = &stored.ID
				}
			}
		}
	}

	if paper != nil {
		payload, err := json.Marshal(paper)
		if err != nil {
			subErrs = append(subErrs, fmt.Errorf("encode paper structure: %w", err))
		} else {
			structure := models.PastPaperStructure{
				ModuleID:      moduleID,
				BatchNumber:   req.BatchNumber,
				StructureJSON: datatypes.JSON(payload),
				CreatedBy:     userID,
				UpdatedBy:     userID,
			}
			if err := s.papers.Upsert(ctx, &structure); err != nil {
				subErrs = append(subErrs, fmt.Errorf("save paper structure: %w", err))
			} else {
				result.PaperSaved = true
			}
		}
	}

	if req.ContinuousAssessments != nil {
		components := make([]policy.CAComponent, 0, len(*req.ContinuousAssessments))
		rows := make([]models.ContinuousAssessment, 0, len(*req.ContinuousAssessments))
		for _, ca := range *req.ContinuousAssessments {
			components = append(components, policy.CAComponent{
				CANumber: ca.CANumber,
				CAType:   ca.Type,
				Weight:   ca.Weight,
			})
			rows = append(rows, models.ContinuousAssessment{
				CANumber:    ca.CANumber,
				CAType:      ca.Type,
				CAWeight:    ca.Weight,
				Description: s.sanitizer.Sanitize(ca.Description),
			})
		}

		result.Warnings = s.policy.ValidateCASet(components, models.CAWeights)

		if err := s.assessments.ReplaceSet(ctx, moduleID, req.BatchNumber, rows); err != nil {
			subErrs = append(subErrs, fmt.Errorf("save continuous assessments: %w", err))
		} else {
			result.CAsSaved = len(rows)
			casWritten = true
		}
	}

	if result.ContentSaved || result.PaperSaved || casWritten {
		s.appendEditLog(ctx, moduleID, req.BatchNumber, contentVersionID, profile.IndexNumber, saveReason(req.EditReason))
	}

	if len(subErrs) > 0 {
		// Earlier sub-writes stay committed; the caller sees exactly
		// which parts landed alongside the failure.
		return result, errors.Join(subErrs...)
	}

	result.Success = true
	return result, nil
}

func (s *contentService) Clone(ctx context.Context, moduleID, userID uint, req dto.CloneRequest) (dto.CloneResult, error) {
	if req.FromBatch <= 0 || req.ToBatch <= 0 {
		return dto.CloneResult{}, ErrBatchRequired
	}

	profile, ownBatch, err := resolveProfileBatch(ctx, s.profiles, userID)
	if err != nil {
		return dto.CloneResult{}, err
	}

	// Students clone into their own batch only, never into someone else's.
	if err := policy.GuardOwnBatch(ownBatch, req.ToBatch); err != nil {
		return dto.CloneResult{}, err
	}

	source, err := s.GetSnapshot(ctx, moduleID, req.FromBatch)
	if err != nil {
		return dto.CloneResult{}, err
	}

	result := dto.CloneResult{ClonedFrom: req.FromBatch, ClonedTo: req.ToBatch}
	var subErrs []error
	var contentVersionID *uint

	if source.HasContent {
		fromBatch := req.FromBatch
		version := models.ModuleContentVersion{
			ModuleID:        moduleID,
			BatchNumber:     req.ToBatch,
			ContentJSON:     source.Content.ContentJSON,
			LecturerName:    source.Content.LecturerName,
			ClonedFromBatch: &fromBatch,
			CreatedBy:       userID,
			UpdatedBy:       userID,
		}
		if err := s.contents.Upsert(ctx, &version); err != nil {
			subErrs = append(subErrs, fmt.Errorf("clone content: %w", err))
		} else {
			result.ClonedContent = true
			if stored, getErr := s.contents.Get(ctx, moduleID, req.ToBatch); getErr == nil {
				contentVersionID = &stored.ID
			}
		}
	}

	if source.HasPaperStructure {
		structure := models.PastPaperStructure{
			ModuleID:      moduleID,
			BatchNumber:   req.ToBatch,
			StructureJSON: source.PastPaperStructure.StructureJSON,
			CreatedBy:     userID,
			UpdatedBy:     userID,
		}
		if err := s.papers.Upsert(ctx, &structure); err != nil {
			subErrs = append(subErrs, fmt.Errorf("clone paper structure: %w", err))
		} else {
			result.ClonedPaper = true
		}
	}

	if source.HasCAs {
		rows := make([]models.ContinuousAssessment, 0, len(source.ContinuousAssessments))
		for _, ca := range source.ContinuousAssessments {
			rows = append(rows, models.ContinuousAssessment{
				CANumber:    ca.CANumber,
				CAType:      ca.CAType,
				CAWeight:    ca.CAWeight,
				Description: ca.Description,
			})
		}
		if err := s.assessments.ReplaceSet(ctx, moduleID, req.ToBatch, rows); err != nil {
			subErrs = append(subErrs, fmt.Errorf("clone continuous assessments: %w", err))
		} else {
			result.ClonedCAs = len(rows)
		}
	}

	if result.ClonedContent || result.ClonedPaper || result.ClonedCAs > 0 {
		reason := fmt.Sprintf("Cloned from batch %d", req.FromBatch)
		s.appendEditLog(ctx, moduleID, req.ToBatch, contentVersionID, profile.IndexNumber, reason)
	}

	if len(subErrs) > 0 {
		return result, errors.Join(subErrs...)
	}

	result.Success = true
	return result, nil
}

func (s *contentService) appendEditLog(ctx context.Context, moduleID uint, batchNumber int, contentVersionID *uint, index, reason string) {
	entry := models.EditLog{
		ModuleID:         moduleID,
		ContentVersionID: contentVersionID,
		BatchNumber:      batchNumber,
		EditedByIndex:    index,
		EditReason:       reason,
	}
	if err := s.editLogs.Create(ctx, &entry); err != nil {
		s.logger.Warn().Err(err).
			Uint("module_id", moduleID).
			Int("batch_number", batchNumber).
			Msg("failed to append edit log entry")
	}
}

func (s *contentService) sanitizeContent(content *models.ModuleContent) {
	content.AdditionalNotes = s.sanitizer.Sanitize(content.AdditionalNotes)
	for ti := range content.Topics {
		topic := &content.Topics[ti]
		topic.Title = s.sanitizer.Sanitize(topic.Title)
		for si := range topic.SubTopics {
			sub := &topic.SubTopics[si]
			sub.Title = s.sanitizer.Sanitize(sub.Title)
			for bi := range sub.Blocks {
				block := &sub.Blocks[bi]
				block.Content = s.sanitizer.Sanitize(block.Content)
			}
		}
	}
}

func (s *contentService) sanitizePaper(paper *models.PaperStructure) {
	paper.MCQNotes = s.sanitizer.Sanitize(paper.MCQNotes)
	paper.GeneralNotes = s.sanitizer.Sanitize(paper.GeneralNotes)
	for i := range paper.EssayQuestions {
		paper.EssayQuestions[i].Topics = s.sanitizer.Sanitize(paper.EssayQuestions[i].Topics)
	}
}

func saveReason(reason string) string {
	if reason == "" {
		return "Content updated"
	}
	return reason
}
