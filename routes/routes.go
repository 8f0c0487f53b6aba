package routes

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"stockroom/controllers"
	"stockroom/inventory"
	"stockroom/middleware"
	"stockroom/web"
)

type Options struct {
	AllowOrigins   string
	JWTSecret      string
	RequestTimeout time.Duration
}

// NewApp builds the Fiber app with middleware and every route registered.
func NewApp(svc *inventory.Service, log *zap.Logger, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		Views:                 web.Engine(),
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.AccessLog(log))
	if strings.TrimSpace(opts.AllowOrigins) != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowOrigins,
			AllowMethods:     "GET,POST,OPTIONS",
			AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
			AllowCredentials: true,
		}))
	}
	app.Use(middleware.Deadline(opts.RequestTimeout))

	RegisterRoutes(app, controllers.NewViews(svc, log, opts.JWTSecret != ""), opts.JWTSecret)
	return app
}

func RegisterRoutes(app *fiber.App, views *controllers.Views, jwtSecret string) {
	guard := middleware.JWT(jwtSecret)

	app.Get("/healthz", controllers.Health)
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/views/dashboard")
	})
	if jwtSecret != "" {
		app.Post("/session", controllers.Session(jwtSecret))
	}

	//html
	app.Get("/views/:view", views.Page)
	app.Post("/views/:view", guard, views.Submit)

	//api
	api := app.Group("/api")
	api.Get("/views/:view", views.APIPage)
	api.Post("/views/:view", guard, views.APISubmit)
}

// errorHandler hides backend detail from clients; AccessLog has already
// recorded the full error.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "internal error"

	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code, msg = fe.Code, fe.Message
	case errors.Is(err, inventory.ErrUnknownView):
		code, msg = fiber.StatusNotFound, "unknown view"
	}

	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}
	return c.Status(code).SendString(msg)
}
