package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/ratotecki/smartgridlab-api/internal/config"
	"github.com/ratotecki/smartgridlab-api/internal/handler"
	"github.com/ratotecki/smartgridlab-api/internal/middleware"
	"github.com/ratotecki/smartgridlab-api/internal/observability"
	"github.com/ratotecki/smartgridlab-api/internal/service"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	HealthHandler      *handler.HealthHandler
	AuthHandler        *handler.AuthHandler
	ContactHandler     *handler.ContactHandler
	WaitingListHandler *handler.WaitingListHandler
	NewsHandler        *handler.NewsHandler
	ActivityHandler    *handler.ActivityHandler
	BootstrapHandler   *handler.BootstrapHandler
	Recorder           service.ActivityRecorder
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	app.Use(middleware.DashboardGate(cfg.DashboardPrefix, cfg.LoginPath))

	deps.HealthHandler.Register(app)
	app.Get("/metrics", observability.MetricsHandler())

	auth := app.Group("/auth")
	deps.AuthHandler.Register(auth)

	// Public lead-capture surface.
	app.Post("/contact", deps.ContactHandler.Submit)
	app.Post("/waiting-list", deps.WaitingListHandler.Submit)
	app.Get("/news", deps.NewsHandler.List)
	app.Get("/news/:id", deps.NewsHandler.Get)

	// Admin surface. Each resource carries its own gate so unauthorized
	// attempts are audited against the resource they targeted.
	app.Get("/contact", middleware.RequireAdmin(deps.Recorder, "contact_message"), deps.ContactHandler.List)
	app.Get("/waiting-list", middleware.RequireAdmin(deps.Recorder, "waiting_list"), deps.WaitingListHandler.List)

	newsGate := middleware.RequireAdmin(deps.Recorder, "news")
	app.Post("/news", newsGate, deps.NewsHandler.Create)
	app.Post("/news/image", newsGate, deps.NewsHandler.UploadImage)
	app.Put("/news/:id", newsGate, deps.NewsHandler.Update)
	app.Delete("/news/:id", newsGate, deps.NewsHandler.Delete)

	admin := app.Group("/admin")
	admin.Post("/create", deps.BootstrapHandler.CreateAdmin)

	activityGate := middleware.RequireAdmin(deps.Recorder, "activity_log")
	admin.Get("/activity", activityGate, deps.ActivityHandler.List)
	admin.Get("/activity/ws", activityGate, deps.ActivityHandler.Upgrade, websocket.New(deps.ActivityHandler.Stream))
}
