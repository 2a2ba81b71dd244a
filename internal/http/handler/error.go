package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"clinicapi/internal/service"
)

// errorPayload is the error response body every endpoint returns. The shape
// is a compatibility contract with the existing frontend: a human-readable
// message under "error" and, for store failures, the driver message under
// "details".
type errorPayload struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// writeError writes the standard error body with the given status.
func writeError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(errorPayload{Error: message})
}

// writeStorageError maps an unexpected service failure to a 500 with a safe
// generic message and the underlying error as details.
func writeStorageError(c *fiber.Ctx, message string, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(errorPayload{
		Error:   message,
		Details: err.Error(),
	})
}

// asValidation extracts a service validation error, if err is one.
func asValidation(err error) (*service.ValidationError, bool) {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// ErrorHandler returns a Fiber global error handler that standardizes error
// responses for errors escaping the route handlers.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "Solicitud inválida")
		case fiber.StatusNotFound:
			return writeError(c, status, "Recurso no encontrado")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "Método no permitido")
		default:
			return writeError(c, status, "Error interno del servidor")
		}
	}
}
