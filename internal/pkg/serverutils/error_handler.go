package serverutils

import (
	"errors"
	"strings"

	"ai-research-assistant-be/pkg/agent"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts service and workflow errors into the
// uniform JSON error envelope. Model failures map to 502 since the
// upstream provider misbehaved, storage failures to 503.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var ferr *fiber.Error
		if errors.As(err, &ferr) {
			return ctx.Status(ferr.Code).JSON(ErrorResponse(ferr.Message))
		}

		var verr *ValidationError
		if errors.As(err, &verr) {
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse("invalid request", verr.Fields...))
		}

		var merr *agent.ModelError
		if errors.As(err, &merr) {
			return ctx.Status(fiber.StatusBadGateway).JSON(ErrorResponse("language model request failed"))
		}

		var serr *agent.StorageError
		if errors.As(err, &serr) {
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse("storage unavailable"))
		}

		var wferr *agent.WorkflowError
		if errors.As(err, &wferr) {
			return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("research workflow failed"))
		}

		if strings.Contains(err.Error(), "not found") {
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse(err.Error()))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("internal server error"))
	}
}
