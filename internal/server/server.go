package server

import (
	"context"
	"fmt"
	"log/slog"

	swagger "github.com/Flussen/swagger-fiber-v3"
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"go.uber.org/fx"

	_ "github.com/init-pkg/trade-disclosure/docs"
	"github.com/init-pkg/trade-disclosure/internal/config"
)

// Route is implemented by every feature HTTP handler.
type Route interface {
	Register(mainApp *fiber.App)
}

func AsRoute(f any) any {
	return fx.Annotate(f, fx.As(new(Route)), fx.ResultTags(`group:"routes"`))
}

// Middleware runs in front of every route.
type Middleware interface {
	Handler() fiber.Handler
}

func AsMiddleware(f any) any {
	return fx.Annotate(f, fx.As(new(Middleware)), fx.ResultTags(`group:"middlewares"`))
}

func New(cfg *config.Config, log *slog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.Http.BodyLimit,
		ReadTimeout:  cfg.Http.ReadTimeout,
		WriteTimeout: cfg.Http.WriteTimeout,
		ErrorHandler: ErrorHandler(log),
	})

	app.Use(recoverer.New())
	app.Use(RequestLogger(log))

	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	if cfg.Http.Swagger {
		app.Get("/swagger/*", swagger.HandlerDefault)
	}

	return app
}

type StartParams struct {
	fx.In

	Lifecycle   fx.Lifecycle
	Config      *config.Config
	Log         *slog.Logger
	App         *fiber.App
	Routes      []Route      `group:"routes"`
	Middlewares []Middleware `group:"middlewares"`
}

func Start(p StartParams) {
	for _, m := range p.Middlewares {
		p.App.Use(m.Handler())
	}
	for _, r := range p.Routes {
		r.Register(p.App)
	}

	addr := fmt.Sprintf("%s:%d", p.Config.Http.Host, p.Config.Http.Port)

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				p.Log.Info("http server listening", "addr", addr, "routes", len(p.Routes))
				if err := p.App.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
					p.Log.Error("http server stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return p.App.ShutdownWithContext(ctx)
		},
	})
}
