package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/career-pilot/internal/models"
	"alfredoptarigan/career-pilot/internal/repositories"
	"alfredoptarigan/career-pilot/internal/services"
)

// StatusFor maps domain errors to HTTP status codes.
func StatusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, services.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrResumeUnreadable):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, services.ErrJobNotFound), errors.Is(err, repositories.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrUnauthorized), errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrEmailTaken), errors.Is(err, repositories.ErrDuplicate):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrEvaluationFailed),
		errors.Is(err, services.ErrMalformedModelOutput),
		errors.Is(err, services.ErrModelCallFailed):
		return fiber.StatusBadGateway
	case errors.Is(err, services.ErrRecommendationsDisabled):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// messageFor keeps provider and database details out of responses.
func messageFor(err error, code int) string {
	switch {
	case errors.Is(err, services.ErrEvaluationFailed):
		return services.ErrEvaluationFailed.Error()
	case errors.Is(err, services.ErrMalformedModelOutput):
		return services.ErrMalformedModelOutput.Error()
	case errors.Is(err, services.ErrModelCallFailed):
		return services.ErrModelCallFailed.Error()
	case errors.Is(err, services.ErrUnauthorized):
		return services.ErrUnauthorized.Error()
	case code == fiber.StatusInternalServerError:
		return "internal server error"
	default:
		return err.Error()
	}
}

// ErrorHandler renders every error returned by a handler as ErrorResponse.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := StatusFor(err)

		if code >= fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", code),
				zap.Error(err),
			)
		} else {
			log.Debug("request rejected", zap.String("path", c.Path()), zap.Int("status", code), zap.Error(err))
		}

		return c.Status(code).JSON(models.ErrorResponse{
			Message: messageFor(err, code),
			Code:    code,
		})
	}
}
