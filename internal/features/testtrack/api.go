package testtrack

import (
	"github.com/AzizRahmanYaad/cbs-dashboard/internal/config"
	"github.com/AzizRahmanYaad/cbs-dashboard/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type TrackApi struct {
	controller *TrackController
	config     *config.Config
}

func NewTrackApi(controller *TrackController, config *config.Config) *TrackApi {
	return &TrackApi{
		controller: controller,
		config:     config,
	}
}

func (h *TrackApi) Setup(app *fiber.App) {
	auth := middleware.AuthMiddleware(h.config.SkipAuth)

	modules := app.Group("/api/test-modules", auth)
	modules.Post("/", h.controller.CreateModule)
	modules.Get("/", h.controller.ListModules)
	modules.Put("/:id", h.controller.UpdateModule)
	modules.Delete("/:id", h.controller.DeleteModule)

	cases := app.Group("/api/test-cases", auth)
	cases.Post("/", h.controller.CreateCase)
	cases.Get("/", h.controller.ListCases)
	cases.Get("/:id", h.controller.GetCase)
	cases.Put("/:id", h.controller.UpdateCase)
	cases.Delete("/:id", h.controller.DeleteCase)

	executions := app.Group("/api/test-executions", auth)
	executions.Post("/", h.controller.RecordExecution)
	executions.Get("/", h.controller.ListExecutions)

	defects := app.Group("/api/defects", auth)
	defects.Post("/", h.controller.CreateDefect)
	defects.Get("/", h.controller.ListDefects)
	defects.Get("/:id", h.controller.GetDefect)
	defects.Put("/:id/status", h.controller.UpdateDefectStatus)

	comments := app.Group("/api/test-comments", auth)
	comments.Post("/", h.controller.AddComment)
	comments.Get("/", h.controller.ListComments)
}
