package audit

import (
	"github.com/AzizRahmanYaad/cbs-dashboard/internal/config"
	"github.com/AzizRahmanYaad/cbs-dashboard/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuditApi struct {
	controller *AuditController
	config     *config.Config
}

func NewAuditApi(controller *AuditController, config *config.Config) *AuditApi {
	return &AuditApi{
		controller: controller,
		config:     config,
	}
}

func (h *AuditApi) Setup(app *fiber.App) {
	audit := app.Group("/api/audit-logs",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireRole(h.config.SkipAuth, "ROLE_ADMIN"))

	audit.Get("/", h.controller.ListLogs)
}
