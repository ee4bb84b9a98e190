package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/lol-stats/lol_stats/internal/account"
	"github.com/lol-stats/lol_stats/internal/audit"
	"github.com/lol-stats/lol_stats/internal/canned"
	"github.com/lol-stats/lol_stats/internal/config"
	"github.com/lol-stats/lol_stats/internal/middleware"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Outside of dev the storage backends are mandatory, even though main
	// also checks.
	if !isDev(d.Cfg.AppEnv) {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.RequestLog(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Dedupe(d.Cache, d.Cfg.DedupeTTL, d.Logger))
	}

	// Health
	RegisterHealthRoutes(app, d)

	// Services and handlers
	var userRepo account.Repository
	if d.DB != nil {
		userRepo = account.NewPostgresRepository(d.DB)
	} else {
		userRepo = account.NewMemoryRepository()
	}

	var auditStore audit.Store
	if d.DB != nil {
		auditStore = audit.NewPostgresStore(d.DB)
	} else {
		auditStore = audit.NewMemoryStore()
	}
	recorder := audit.NewRecorder(auditStore, d.Logger)

	accounts := account.NewService(userRepo, recorder, account.NewRules(d.Cfg))
	picker := canned.NewSource(time.Now().UnixNano())

	api := app.Group("/api")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	rateLimiter := middleware.SubmissionRateLimit(d.Cache, d.Cfg.SubmitsPerMinute)
	RegisterAccountRoutes(app, accounts, picker, rateLimiter, d.Logger)
	RegisterAPIRoutes(api, userRepo, recorder, picker)

	return nil
}

func isDev(env string) bool {
	switch strings.ToLower(env) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}
