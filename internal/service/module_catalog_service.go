package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/unidash/unidash-api/internal/dto"
	"github.com/unidash/unidash-api/internal/models"
	"github.com/unidash/unidash-api/internal/repository"
)

// ModuleCatalogService lists and registers degree modules.
type ModuleCatalogService interface {
	List(ctx context.Context, filter repository.ModuleFilter) ([]dto.ModuleResponse, error)
	Get(ctx context.Context, id uint) (dto.ModuleResponse, error)
	Create(ctx context.Context, payload dto.ModuleCreateRequest) (dto.ModuleResponse, error)
}

type moduleCatalogService struct {
	modules   repository.ModuleRepository
	cache     *redis.Client
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewModuleCatalogService constructs the module catalog service.
func NewModuleCatalogService(
	modules repository.ModuleRepository,
	cache *redis.Client,
	cacheTTL time.Duration,
	validate *validator.Validate,
	logger zerolog.Logger,
) ModuleCatalogService {
	return &moduleCatalogService{
		modules:   modules,
		cache:     cache,
		cacheTTL:  cacheTTL,
		validator: validate,
		logger:    logger.With().Str("component", "module_catalog_service").Logger(),
	}
}

func (s *moduleCatalogService) List(ctx context.Context, filter repository.ModuleFilter) ([]dto.ModuleResponse, error) {
	cacheKey := catalogCacheKey(filter)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response []dto.ModuleResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Str("key", cacheKey).Msg("module catalog cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read module catalog cache")
		}
	}

	modules, err := s.modules.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	response := make([]dto.ModuleResponse, 0, len(modules))
	for _, module := range modules {
		response = append(response, dto.NewModuleResponse(module))
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store module catalog cache")
			}
		}
	}

	return response, nil
}

func (s *moduleCatalogService) Get(ctx context.Context, id uint) (dto.ModuleResponse, error) {
	module, err := s.modules.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ModuleResponse{}, ErrModuleNotFound
		}
		return dto.ModuleResponse{}, err
	}
	return dto.NewModuleResponse(module), nil
}

func (s *moduleCatalogService) Create(ctx context.Context, payload dto.ModuleCreateRequest) (dto.ModuleResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ModuleResponse{}, err
	}

	module := models.Module{
		Code:     strings.ToUpper(strings.TrimSpace(payload.Code)),
		Title:    strings.TrimSpace(payload.Title),
		Year:     payload.Year,
		Semester: payload.Semester,
		Credits:  payload.Credits,
	}

	if err := s.modules.Create(ctx, &module); err != nil {
		return dto.ModuleResponse{}, err
	}

	s.invalidateCatalog(ctx, module)

	return dto.NewModuleResponse(module), nil
}

func (s *moduleCatalogService) invalidateCatalog(ctx context.Context, module models.Module) {
	if s.cache == nil {
		return
	}

	keys := []string{
		catalogCacheKey(repository.ModuleFilter{}),
		catalogCacheKey(repository.ModuleFilter{Year: module.Year}),
		catalogCacheKey(repository.ModuleFilter{Year: module.Year, Semester: module.Semester}),
	}
	if err := s.cache.Del(ctx, keys...).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate module catalog cache")
	}
}

func catalogCacheKey(filter repository.ModuleFilter) string {
	return fmt.Sprintf("catalog:modules:y%d:s%d", filter.Year, filter.Semester)
}
