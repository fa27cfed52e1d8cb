package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"forwarddesk/internal/api"
	"forwarddesk/internal/cache"
	"forwarddesk/internal/config"
	"forwarddesk/internal/database"
	"forwarddesk/internal/features/dataset"
	"forwarddesk/internal/features/live"
	"forwarddesk/internal/features/organization"
	"forwarddesk/internal/features/report"
	"forwarddesk/internal/features/schedule"
	"forwarddesk/internal/features/system"
	"forwarddesk/internal/features/trend"
	"forwarddesk/internal/logger"
	"forwarddesk/internal/middleware"
	"forwarddesk/pkg/utils"

	_ "forwarddesk/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// NewCache builds the process-local TTL cache and ties its cleanup
// loop to the app lifecycle.
func NewCache(lc fx.Lifecycle, logger *zap.Logger) *cache.TTLCache {
	ttlCache := cache.New(time.Minute, logger)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			ttlCache.Close()
			return nil
		},
	})
	return ttlCache
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
	log.Printf("Registered %d route groups\n", len(routes))
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// @title           ForwardDesk Reporting API
// @version         1.0
// @description     Ad-hoc reporting, trend analytics and scheduled exports for call-forwarding workspaces.

// @host            localhost:8000
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,

			logger.NewLogger,

			NewFiberServer,
			NewCache,

			database.NewDatabase,
			database.NewPostgres,

			organization.NewOrganizationRepository,
			dataset.NewRepository,
			report.NewSavedReportRepository,
			schedule.NewScheduleRepository,

			live.NewHub,

			report.NewReportService,
			trend.NewTrendService,
			schedule.NewScheduleService,

			// Interface adapter: the live hub satisfies the report
			// package's Notifier without importing it.
			func(h *live.Hub) report.Notifier { return h },

			report.NewReportController,
			trend.NewTrendController,
			schedule.NewScheduleController,
			live.NewLiveController,
			system.NewDebugController,

			AsRoute(report.NewReportApi),
			AsRoute(trend.NewTrendApi),
			AsRoute(schedule.NewScheduleApi),
			AsRoute(live.NewLiveApi),
			AsRoute(system.NewDebugApi),
			AsRoute(system.NewSwaggerApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) {
				utils.SetSecret(cfg.JWTSecret)
			},
			RegisterAllRoutesWithAnnotation,
			StartServer,
			func(lc fx.Lifecycle, scheduleService schedule.ScheduleService) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return scheduleService.InitializeScheduler(ctx)
					},
					OnStop: func(ctx context.Context) error {
						return scheduleService.StopScheduler()
					},
				})
			},
		),
	)

	app.Run()
}
