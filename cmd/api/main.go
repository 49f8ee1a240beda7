package main

import (
	"context"
	"fmt"
	"log"
	"time"

	common_api "github.com/AzizRahmanYaad/cbs-dashboard/internal/common/api"
	"github.com/AzizRahmanYaad/cbs-dashboard/internal/config"
	"github.com/AzizRahmanYaad/cbs-dashboard/internal/database"
	"github.com/AzizRahmanYaad/cbs-dashboard/internal/features/audit"
	"github.com/AzizRahmanYaad/cbs-dashboard/internal/features/auth"
	"github.com/AzizRahmanYaad/cbs-dashboard/internal/features/dailyreport"
	"github.com/AzizRahmanYaad/cbs-dashboard/internal/features/reminder"
	"github.com/AzizRahmanYaad/cbs-dashboard/internal/features/render"
	"github.com/AzizRahmanYaad/cbs-dashboard/internal/features/testtrack"
	"github.com/AzizRahmanYaad/cbs-dashboard/internal/features/user"
	"github.com/AzizRahmanYaad/cbs-dashboard/internal/logger"
	"github.com/AzizRahmanYaad/cbs-dashboard/internal/middleware"
	"github.com/AzizRahmanYaad/cbs-dashboard/pkg/utils"

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

// AsRoute tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
}

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

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(lc fx.Lifecycle, reportRepo dailyreport.ReportRepository, userRepo user.UserRepository) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := reportRepo.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure report indexes: %v", err)
				}
				if err := userRepo.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure user indexes: %v", err)
				}
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database
			database.NewDatabase,

			// Initialize Repository
			audit.NewAuditRepository,
			user.NewUserRepository,
			dailyreport.NewReportRepository,
			testtrack.NewTrackRepository,

			// Initialize Service
			audit.NewAuditService,
			user.NewUserService,
			user.NewDirectory,
			auth.NewAuthService,
			render.NewExcelRenderer,
			dailyreport.NewReportService,
			testtrack.NewTrackService,
			reminder.NewReminderService,

			// Interface Adapters to satisfy Fx
			func(d *user.Directory) dailyreport.EmployeeDirectory { return d },
			func(d *user.Directory) audit.UserFinder { return d },
			func(r *render.ExcelRenderer) dailyreport.Renderer { return r },

			// Initialize Controller
			auth.NewAuthController,
			user.NewUserController,
			audit.NewAuditController,
			dailyreport.NewReportController,
			testtrack.NewTrackController,

			// Initialize API Routes
			AsRoute(auth.NewAuthApi),
			AsRoute(user.NewUserApi),
			AsRoute(audit.NewAuditApi),
			AsRoute(dailyreport.NewReportApi),
			AsRoute(testtrack.NewTrackApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) {
				utils.SetSecret(cfg.JWTSecret)
			},

			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			func(lc fx.Lifecycle, reminderService reminder.ReminderService) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return reminderService.Start()
					},
					OnStop: func(ctx context.Context) error {
						reminderService.Stop()
						return nil
					},
				})
			},
			InitializeIndexes,
		),
	)

	app.Run()
}
