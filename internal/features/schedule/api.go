package schedule

import (
	"forwarddesk/internal/config"
	"forwarddesk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ScheduleApi struct {
	ScheduleController *ScheduleController
	Config             *config.Config
}

func NewScheduleApi(scheduleController *ScheduleController, config *config.Config) *ScheduleApi {
	return &ScheduleApi{
		ScheduleController: scheduleController,
		Config:             config,
	}
}

func (api *ScheduleApi) Setup(app *fiber.App) {
	group := app.Group("/api/schedules", middleware.AuthMiddleware(api.Config.SkipAuth))

	group.Post("/", api.ScheduleController.Create)
	group.Get("/", api.ScheduleController.List)
	group.Get("/:id", api.ScheduleController.Get)
	group.Put("/:id", api.ScheduleController.Update)
	group.Delete("/:id", api.ScheduleController.Delete)
	group.Post("/:id/run", api.ScheduleController.Run)
	group.Get("/:id/logs", api.ScheduleController.Logs)
}
