package trend

import (
	"forwarddesk/internal/config"
	"forwarddesk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type TrendApi struct {
	TrendController *TrendController
	Config          *config.Config
}

func NewTrendApi(trendController *TrendController, config *config.Config) *TrendApi {
	return &TrendApi{
		TrendController: trendController,
		Config:          config,
	}
}

func (api *TrendApi) Setup(app *fiber.App) {
	group := app.Group("/api/trends", middleware.AuthMiddleware(api.Config.SkipAuth), middleware.RequireOwner())

	group.Get("/", api.TrendController.Analyze)
}
