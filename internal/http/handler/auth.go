package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"clinicapi/internal/service"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login checks the clinician credential and answers with a session token.
func Login(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
		}
		token, err := svc.Login(req.Username, req.Password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				return writeError(c, fiber.StatusUnauthorized, "Credenciales inválidas")
			}
			return writeStorageError(c, "Error al iniciar sesión", err)
		}
		return c.JSON(fiber.Map{
			"message": "Inicio de sesión exitoso",
			"token":   token,
		})
	}
}
