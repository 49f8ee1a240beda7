package auth

import (
	"github.com/AzizRahmanYaad/cbs-dashboard/internal/config"

	"github.com/gofiber/fiber/v2"
)

type AuthApi struct {
	controller *AuthController
	config     *config.Config
}

func NewAuthApi(controller *AuthController, config *config.Config) *AuthApi {
	return &AuthApi{
		controller: controller,
		config:     config,
	}
}

func (h *AuthApi) Setup(app *fiber.App) {
	app.Post("/api/login", h.controller.Login)
	app.Post("/api/refresh", h.controller.Refresh)
}
