package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/unidash/unidash-api/internal/service"
	"github.com/unidash/unidash-api/internal/utils"
)

// HistoryHandler exposes the edit audit trail.
type HistoryHandler struct {
	history service.EditHistoryService
	logger  zerolog.Logger
}

// NewHistoryHandler constructs the handler.
func NewHistoryHandler(history service.EditHistoryService, logger zerolog.Logger) *HistoryHandler {
	return &HistoryHandler{
		history: history,
		logger:  logger.With().Str("component", "history_handler").Logger(),
	}
}

// RegisterModuleRoutes wires the per-module history listing.
func (h *HistoryHandler) RegisterModuleRoutes(router fiber.Router) {
	router.Get("/:moduleId/history", h.moduleHistory)
}

// RegisterUserRoutes wires the caller-scoped history listing.
func (h *HistoryHandler) RegisterUserRoutes(router fiber.Router) {
	router.Get("/history", h.userHistory)
}

func (h *HistoryHandler) moduleHistory(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	moduleID, err := parseUintParam(c, "moduleId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	page, pageSize, err := paginationParams(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid pagination")
	}

	logger := requestLogger(h.logger, c)
	result, err := h.history.ListModuleHistory(c.Context(), moduleID, page, pageSize)
	if err != nil {
		logger.Error().Err(err).Uint("module_id", moduleID).Msg("failed to list module edit history")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list edit history")
	}

	return utils.SendSuccess(c, "edit history retrieved", result)
}

func (h *HistoryHandler) userHistory(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	page, pageSize, err := paginationParams(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid pagination")
	}

	logger := requestLogger(h.logger, c)
	result, err := h.history.ListUserHistory(c.Context(), userID, page, pageSize)
	if err != nil {
		if resp, handled := mapProfileError(c, err, logger); handled {
			return resp
		}
		logger.Error().Err(err).Uint("user_id", userID).Msg("failed to list user edit history")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list edit history")
	}

	return utils.SendSuccess(c, "edit history retrieved", result)
}

func paginationParams(c *fiber.Ctx) (int, int, error) {
	page, err := parseQueryInt(c, "page")
	if err != nil || page < 0 {
		return 0, 0, fiber.ErrBadRequest
	}
	pageSize, err := parseQueryInt(c, "pageSize")
	if err != nil || pageSize < 0 {
		return 0, 0, fiber.ErrBadRequest
	}
	return page, pageSize, nil
}
