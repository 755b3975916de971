package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/unidash/unidash-api/internal/dto"
	"github.com/unidash/unidash-api/internal/repository"
	"github.com/unidash/unidash-api/internal/service"
	"github.com/unidash/unidash-api/internal/utils"
)

// ModuleCatalogHandler exposes the degree module catalog.
type ModuleCatalogHandler struct {
	catalog service.ModuleCatalogService
	logger  zerolog.Logger
}

// NewModuleCatalogHandler constructs the handler.
func NewModuleCatalogHandler(catalog service.ModuleCatalogService, logger zerolog.Logger) *ModuleCatalogHandler {
	return &ModuleCatalogHandler{
		catalog: catalog,
		logger:  logger.With().Str("component", "module_catalog_handler").Logger(),
	}
}

// Register wires the catalog routes onto the modules group.
func (h *ModuleCatalogHandler) Register(router fiber.Router, writeGuard fiber.Handler) {
	if writeGuard == nil {
		writeGuard = func(c *fiber.Ctx) error { return c.Next() }
	}

	router.Get("/", h.list)
	router.Post("/", writeGuard, h.create)
	router.Get("/:moduleId", h.get)
}

func (h *ModuleCatalogHandler) list(c *fiber.Ctx) error {
	year, err := parseQueryInt(c, "year")
	if err != nil || year < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid year")
	}
	semester, err := parseQueryInt(c, "semester")
	if err != nil || semester < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid semester")
	}

	logger := requestLogger(h.logger, c)
	modules, err := h.catalog.List(c.Context(), repository.ModuleFilter{Year: year, Semester: semester})
	if err != nil {
		logger.Error().Err(err).Msg("failed to list modules")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list modules")
	}

	return utils.SendSuccess(c, "modules retrieved", modules)
}

func (h *ModuleCatalogHandler) get(c *fiber.Ctx) error {
	moduleID, err := parseUintParam(c, "moduleId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	logger := requestLogger(h.logger, c)
	module, err := h.catalog.Get(c.Context(), moduleID)
	if err != nil {
		if errors.Is(err, service.ErrModuleNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "module not found")
		}
		logger.Error().Err(err).Uint("module_id", moduleID).Msg("failed to fetch module")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch module")
	}

	return utils.SendSuccess(c, "module retrieved", module)
}

func (h *ModuleCatalogHandler) create(c *fiber.Ctx) error {
	var payload dto.ModuleCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	logger := requestLogger(h.logger, c)
	module, err := h.catalog.Create(c.Context(), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		logger.Error().Err(err).Str("code", payload.Code).Msg("failed to create module")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create module")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "module created", module)
}
