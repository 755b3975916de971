package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/unidash/unidash-api/internal/middleware"
	"github.com/unidash/unidash-api/internal/service"
	"github.com/unidash/unidash-api/internal/utils"
)

func parseUintParam(c *fiber.Ctx, key string) (uint, error) {
	value := strings.TrimSpace(c.Params(key))
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil || parsed == 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(parsed), nil
}

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

func userIDFromContext(c *fiber.Ctx) uint {
	if v := c.Locals("user_id"); v != nil {
		if id, ok := v.(uint); ok {
			return id
		}
		if id, ok := v.(int); ok {
			if id < 0 {
				return 0
			}
			return uint(id)
		}
	}
	return 0
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

// mapProfileError translates the shared profile resolution failures onto the
// HTTP taxonomy: missing profile and missing batch assignment are distinct
// 404s, a broken batch join is a store-level 500.
func mapProfileError(c *fiber.Ctx, err error, logger *zerolog.Logger) (error, bool) {
	switch {
	case errors.Is(err, service.ErrProfileNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "profile not found"), true
	case errors.Is(err, service.ErrProfileIncomplete):
		return utils.SendError(c, fiber.StatusNotFound, "user has no batch assigned, please contact admin"), true
	case errors.Is(err, service.ErrBatchJoinFailed):
		logger.Error().Err(err).Msg("batch join failed for assigned batch id")
		return utils.SendError(c, fiber.StatusInternalServerError, "batch data not found"), true
	}
	return nil, false
}
