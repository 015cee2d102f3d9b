package middleware

import (
	"learnly/apperrors"
	"learnly/logger"

	"github.com/gofiber/fiber/v2"
)

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return ErrorResponse(c, apperrors.Validation("Validation failed!", errors))
}

func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// ErrorResponse writes err using the error taxonomy. Internal errors are
// logged with the request id and answered with a generic message only.
func ErrorResponse(c *fiber.Ctx, err error) error {
	appErr := apperrors.As(err)
	status := apperrors.HTTPStatus(appErr.Kind)

	body := fiber.Map{
		"status":  false,
		"message": appErr.Message,
		"error":   appErr.Kind,
	}
	if len(appErr.Details) > 0 {
		body["details"] = appErr.Details
	}

	if appErr.Kind == apperrors.KindInternal {
		logger.Log.Error("request failed",
			"request_id", RequestID(c),
			"method", c.Method(),
			"path", c.Path(),
			"error", appErr.Err,
		)
		body["message"] = "Something went wrong!"
	}

	return c.Status(status).JSON(body)
}

// FiberErrorHandler is installed as the app ErrorHandler so that errors
// returned by handlers and recovered panics share one response shape.
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(fiber.Map{
			"status":  false,
			"message": fe.Message,
			"error":   statusToErrorCode(fe.Code),
		})
	}
	return ErrorResponse(c, err)
}

func statusToErrorCode(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	case fiber.StatusNotFound:
		return string(apperrors.KindNotFound)
	case fiber.StatusTooManyRequests:
		return "TOO_MANY_REQUESTS"
	default:
		if status >= 500 {
			return string(apperrors.KindInternal)
		}
		return "ERROR"
	}
}
