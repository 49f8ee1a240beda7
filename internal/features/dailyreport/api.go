package dailyreport

import (
	"github.com/AzizRahmanYaad/cbs-dashboard/internal/config"
	"github.com/AzizRahmanYaad/cbs-dashboard/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReportApi struct {
	controller *ReportController
	config     *config.Config
}

func NewReportApi(controller *ReportController, config *config.Config) *ReportApi {
	return &ReportApi{
		controller: controller,
		config:     config,
	}
}

func (h *ReportApi) Setup(app *fiber.App) {
	reports := app.Group("/api/daily-reports", middleware.AuthMiddleware(h.config.SkipAuth))

	// Employee lifecycle
	reports.Post("/", h.controller.CreateReport)
	reports.Get("/my-reports", h.controller.GetMyReports)
	reports.Get("/date/:date", h.controller.GetMyReportByDate)
	reports.Put("/:id", h.controller.UpdateReport)
	reports.Post("/:id/submit", h.controller.SubmitReport)
	reports.Delete("/:id", h.controller.DeleteReport)

	// Downloads. The personal download stays owner-only inside the service.
	reports.Get("/download/my-report/:id", h.controller.DownloadMyReport)
	reports.Get("/download/employee/:employeeId", h.controller.DownloadEmployeeReports)
	reports.Get("/download/combined", h.controller.DownloadConsolidated)

	// Review and admin views. Capability checks live in the service; the
	// role gate here only trims the surface for non-admin tokens.
	admin := reports.Group("", middleware.RequireRole(h.config.SkipAuth, "ROLE_ADMIN"))
	admin.Get("/", h.controller.GetAllReports)
	admin.Get("/dashboard", h.controller.GetDashboard)
	admin.Get("/by-date/:date", h.controller.GetReportsByDate)
	admin.Post("/:id/review", h.controller.ReviewReport)

	// Single report and its document projection, owner or reviewer
	reports.Get("/:id/projection", h.controller.GetProjection)
	reports.Get("/:id", h.controller.GetReport)
}
