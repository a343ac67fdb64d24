package server

import (
	"github.com/uxmariia/DOG-TRACKING-228/internal/auth"
	"github.com/uxmariia/DOG-TRACKING-228/internal/config"
	"github.com/uxmariia/DOG-TRACKING-228/internal/dog"
	"github.com/uxmariia/DOG-TRACKING-228/internal/gps"
	"github.com/uxmariia/DOG-TRACKING-228/internal/live"
	"github.com/uxmariia/DOG-TRACKING-228/internal/session"
	"github.com/uxmariia/DOG-TRACKING-228/internal/stream"
	"github.com/uxmariia/DOG-TRACKING-228/internal/track"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Stream *stream.Hub
	Live   *live.Manager
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	hub := stream.NewHub(redisClient)
	liveStore := live.NewStore(redisClient, hub)

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Stream: hub,
		Live:   live.NewManager(liveStore, redisClient, recorderConfig(cfg)),
	}

	registerRoutes(s, liveStore)
	return s
}

// recorderConfig maps the environment settings onto the per-session
// recording thresholds.
func recorderConfig(cfg config.Config) session.Config {
	return session.Config{
		Filter: gps.FilterConfig{
			MinAccuracyM: cfg.MinAccuracyM,
			MinDistanceM: cfg.MinDistanceM,
		},
		ProximityRadiusM: cfg.ProximityRadiusM,
		ConfirmFound:     cfg.ConfirmObjectFound,
		ResumeTTL:        cfg.ResumeTTL(),
	}
}

func registerRoutes(s *Server, liveStore *live.Store) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB))
	dog.RegisterRoutes(s.App.Group("/dogs"), dog.NewService(s.DB), jwtMiddleware)
	track.RegisterRoutes(s.App.Group("/tracks"), track.NewService(s.DB, s.Redis), jwtMiddleware)
	live.RegisterRoutes(s.App.Group("/live"), s.Live, liveStore, jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
