package errors

import (
	stderrors "errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// HandleError maps a MediaError to an HTTP response. Only Code + Message reach
// the client; the wrapped cause goes to the log.
func HandleError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	var me *MediaError
	if stderrors.As(err, &me) {
		if me.Err != nil {
			log.Error().Str("code", me.Code).Err(me.Err).Msg("request failed")
		}

		var status int
		switch me.Code {
		case "not_found":
			status = fiber.StatusNotFound
		case "validation_failed", "duration_exceeded":
			status = fiber.StatusBadRequest
		case "access_denied":
			status = fiber.StatusForbidden
		case "range_not_satisfiable":
			status = fiber.StatusRequestedRangeNotSatisfiable
		default:
			status = fiber.StatusInternalServerError
		}

		return c.Status(status).JSON(fiber.Map{
			"error":   me.Code,
			"message": me.Message,
		})
	}

	log.Error().Err(err).Msg("unexpected error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "internal_error",
		"message": "internal server error",
	})
}
