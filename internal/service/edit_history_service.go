package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/unidash/unidash-api/internal/dto"
	"github.com/unidash/unidash-api/internal/repository"
)

// EditHistoryService reads the immutable edit audit trail.
type EditHistoryService interface {
	ListModuleHistory(ctx context.Context, moduleID uint, page, pageSize int) (dto.EditHistoryResult, error)
	ListStudentHistory(ctx context.Context, indexNumber string, page, pageSize int) (dto.EditHistoryResult, error)
	ListUserHistory(ctx context.Context, userID uint, page, pageSize int) (dto.EditHistoryResult, error)
}

type editHistoryService struct {
	editLogs repository.EditLogRepository
	profiles repository.StudentProfileRepository
	logger   zerolog.Logger
}

// NewEditHistoryService constructs the edit history service.
func NewEditHistoryService(
	editLogs repository.EditLogRepository,
	profiles repository.StudentProfileRepository,
	logger zerolog.Logger,
) EditHistoryService {
	return &editHistoryService{
		editLogs: editLogs,
		profiles: profiles,
		logger:   logger.With().Str("component", "edit_history_service").Logger(),
	}
}

func (s *editHistoryService) ListModuleHistory(ctx context.Context, moduleID uint, page, pageSize int) (dto.EditHistoryResult, error) {
	return s.list(ctx, repository.EditLogFilter{
		ModuleID: moduleID,
		Page:     normalizePage(page),
		PageSize: clampPageSize(pageSize),
	})
}

func (s *editHistoryService) ListStudentHistory(ctx context.Context, indexNumber string, page, pageSize int) (dto.EditHistoryResult, error) {
	return s.list(ctx, repository.EditLogFilter{
		EditedByIndex: strings.TrimSpace(indexNumber),
		Page:          normalizePage(page),
		PageSize:      clampPageSize(pageSize),
	})
}

// ListUserHistory resolves the caller's index number and lists their edits.
func (s *editHistoryService) ListUserHistory(ctx context.Context, userID uint, page, pageSize int) (dto.EditHistoryResult, error) {
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EditHistoryResult{}, ErrProfileNotFound
		}
		return dto.EditHistoryResult{}, err
	}

	return s.ListStudentHistory(ctx, profile.IndexNumber, page, pageSize)
}

func (s *editHistoryService) list(ctx context.Context, filter repository.EditLogFilter) (dto.EditHistoryResult, error) {
	entries, total, err := s.editLogs.List(ctx, filter)
	if err != nil {
		return dto.EditHistoryResult{}, err
	}

	items := make([]dto.EditLogEntry, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.NewEditLogEntry(entry))
	}

	return dto.EditHistoryResult{
		Items: items,
		Pagination: dto.PaginationMeta{
			Page:       filter.Page,
			PageSize:   filter.PageSize,
			TotalItems: total,
			TotalPages: calculateTotalPages(total, filter.PageSize),
		},
	}, nil
}

func normalizePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}

func clampPageSize(pageSize int) int {
	switch {
	case pageSize <= 0:
		return 20
	case pageSize > 100:
		return 100
	default:
		return pageSize
	}
}

func calculateTotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		pages++
	}
	return int(pages)
}
