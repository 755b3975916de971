package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/unidash/unidash-api/internal/dto"
	"github.com/unidash/unidash-api/internal/policy"
	"github.com/unidash/unidash-api/internal/service"
	"github.com/unidash/unidash-api/internal/utils"
)

// ModuleContentHandler exposes the batch-versioned module content endpoints:
// batch listing, snapshot fetch, gated save and senior-to-junior clone.
type ModuleContentHandler struct {
	batches service.BatchService
	content service.ContentService
	logger  zerolog.Logger
}

// NewModuleContentHandler constructs the handler.
func NewModuleContentHandler(batches service.BatchService, content service.ContentService, logger zerolog.Logger) *ModuleContentHandler {
	return &ModuleContentHandler{
		batches: batches,
		content: content,
		logger:  logger.With().Str("component", "module_content_handler").Logger(),
	}
}

// Register wires the module content routes. The write guard, when provided,
// rate limits the mutating endpoints.
func (h *ModuleContentHandler) Register(router fiber.Router, writeGuard fiber.Handler) {
	if writeGuard == nil {
		writeGuard = func(c *fiber.Ctx) error { return c.Next() }
	}

	router.Get("/:moduleId/batches", h.listBatches)
	router.Get("/:moduleId/content", h.getContent)
	router.Get("/:moduleId/permissions", h.permissions)
	router.Post("/:moduleId/content", writeGuard, h.saveContent)
	router.Post("/:moduleId/clone", writeGuard, h.clone)
}

func (h *ModuleContentHandler) listBatches(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	moduleID, err := parseUintParam(c, "moduleId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	logger := requestLogger(h.logger, c)
	result, err := h.batches.ListModuleBatches(c.Context(), moduleID, userID)
	if err != nil {
		if resp, handled := mapProfileError(c, err, logger); handled {
			return resp
		}
		logger.Error().Err(err).Uint("module_id", moduleID).Msg("failed to list module batches")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list batches")
	}

	return c.JSON(result)
}

func (h *ModuleContentHandler) getContent(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	moduleID, err := parseUintParam(c, "moduleId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	batch, err := parseQueryInt(c, "batch")
	if err != nil || batch <= 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "batch number required")
	}

	logger := requestLogger(h.logger, c)
	snapshot, err := h.content.GetSnapshot(c.Context(), moduleID, batch)
	if err != nil {
		logger.Error().Err(err).Uint("module_id", moduleID).Int("batch", batch).Msg("failed to fetch batch content")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch content")
	}

	return c.JSON(snapshot)
}

func (h *ModuleContentHandler) permissions(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	moduleID, err := parseUintParam(c, "moduleId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	viewingBatch, err := parseQueryInt(c, "batch")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid batch")
	}

	logger := requestLogger(h.logger, c)
	rights, err := h.batches.EditRights(c.Context(), moduleID, userID, viewingBatch)
	if err != nil {
		if resp, handled := mapProfileError(c, err, logger); handled {
			return resp
		}
		if errors.Is(err, service.ErrModuleNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "module not found")
		}
		logger.Error().Err(err).Uint("module_id", moduleID).Msg("failed to resolve edit rights")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to resolve permissions")
	}

	return c.JSON(rights)
}

func (h *ModuleContentHandler) saveContent(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	moduleID, err := parseUintParam(c, "moduleId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.SaveSnapshotRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	logger := requestLogger(h.logger, c)
	result, err := h.content.SaveSnapshot(c.Context(), moduleID, userID, payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBatchRequired):
			return utils.SendError(c, fiber.StatusBadRequest, "batch number required")
		case errors.Is(err, service.ErrInvalidPayload), isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, policy.ErrForeignBatch):
			return utils.SendError(c, fiber.StatusForbidden, "you can only edit content for your own batch")
		}
		if resp, handled := mapProfileError(c, err, logger); handled {
			return resp
		}

		// Committed sub-writes stay committed; report exactly what landed.
		logger.Error().Err(err).Uint("module_id", moduleID).Msg("failed to save batch content")
		result.Success = false
		result.Error = err.Error()
		return c.Status(fiber.StatusInternalServerError).JSON(result)
	}

	return c.JSON(result)
}

func (h *ModuleContentHandler) clone(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	moduleID, err := parseUintParam(c, "moduleId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.CloneRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	logger := requestLogger(h.logger, c)
	result, err := h.content.Clone(c.Context(), moduleID, userID, payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBatchRequired):
			return utils.SendError(c, fiber.StatusBadRequest, "fromBatch and toBatch are required")
		case errors.Is(err, policy.ErrForeignBatch):
			return utils.SendError(c, fiber.StatusForbidden, "you can only clone to your own batch")
		}
		if resp, handled := mapProfileError(c, err, logger); handled {
			return resp
		}

		logger.Error().Err(err).Uint("module_id", moduleID).Msg("failed to clone batch content")
		result.Success = false
		result.Error = err.Error()
		return c.Status(fiber.StatusInternalServerError).JSON(result)
	}

	return c.JSON(result)
}
