package user

import (
	"github.com/AzizRahmanYaad/cbs-dashboard/internal/config"
	"github.com/AzizRahmanYaad/cbs-dashboard/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type UserApi struct {
	controller *UserController
	config     *config.Config
}

func NewUserApi(controller *UserController, config *config.Config) *UserApi {
	return &UserApi{
		controller: controller,
		config:     config,
	}
}

func (h *UserApi) Setup(app *fiber.App) {
	users := app.Group("/api/admin/users",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireRole(h.config.SkipAuth, RoleAdmin))

	users.Get("/", h.controller.ListUsers)
	users.Get("/roles", h.controller.ListRoles)
	users.Get("/:id", h.controller.GetUser)
	users.Post("/", h.controller.CreateUser)
	users.Put("/:id", h.controller.UpdateUser)
	users.Put("/:id/password", h.controller.ChangePassword)
	users.Delete("/:id", h.controller.DeleteUser)
}
