package report

import (
	"forwarddesk/internal/config"
	"forwarddesk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReportApi struct {
	ReportController *ReportController
	Config           *config.Config
}

func NewReportApi(reportController *ReportController, config *config.Config) *ReportApi {
	return &ReportApi{
		ReportController: reportController,
		Config:           config,
	}
}

func (api *ReportApi) Setup(app *fiber.App) {
	group := app.Group("/api/reports", middleware.AuthMiddleware(api.Config.SkipAuth))

	group.Post("/run", api.ReportController.Run)
	group.Post("/export", api.ReportController.Export)

	group.Post("/", api.ReportController.Create)
	group.Get("/", api.ReportController.List)
	group.Get("/:id", api.ReportController.Get)
	group.Put("/:id", api.ReportController.Update)
	group.Delete("/:id", api.ReportController.Delete)
	group.Get("/:id/run", api.ReportController.RunSaved)
	group.Get("/:id/export", api.ReportController.ExportSaved)
	group.Patch("/:id/favorite", api.ReportController.Favorite)
}
