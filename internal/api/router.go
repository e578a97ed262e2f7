package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/thuso-software/veriface/internal/api/docs"
	"github.com/thuso-software/veriface/internal/api/handler"
	"github.com/thuso-software/veriface/internal/api/middleware"
	"github.com/thuso-software/veriface/internal/config"
	"github.com/thuso-software/veriface/internal/match"
	"github.com/thuso-software/veriface/internal/provider"
	"github.com/thuso-software/veriface/internal/repository"
	"github.com/thuso-software/veriface/internal/service"
)

type Dependencies struct {
	ProfileRepo      repository.ProfileRepositoryInterface
	VerificationRepo repository.VerificationRepositoryInterface
	Extractor        provider.Extractor
	Photos           service.PhotoLoader
	DB               *pgxpool.Pool
	Config           *config.Config
}

type Router struct {
	app    *fiber.App
	logger *slog.Logger
	deps   *Dependencies
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "Veriface API",
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	healthHandler := handler.NewHealthHandler(r.deps.DB)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	verifyService := service.NewVerifyService(
		r.deps.ProfileRepo,
		r.deps.VerificationRepo,
		r.deps.Extractor,
		r.deps.Photos,
		r.deps.Config.ExtractWorkers(),
		r.logger,
	).WithPolicy(match.Policy{Threshold: r.deps.Config.MatchThreshold})

	verifyHandler := handler.NewVerifyHandler(verifyService, r.deps.Config.RequestTimeout, r.logger)

	v1 := r.app.Group("/v1")
	v1.Post("/verify", verifyHandler.Verify)
	v1.Post("/verify/compare", verifyHandler.Compare)
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	return r.app.Shutdown()
}
