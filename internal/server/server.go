package server

import (
	"time"

	"github.com/rakawanegan/Emotter/internal/auth"
	"github.com/rakawanegan/Emotter/internal/config"
	"github.com/rakawanegan/Emotter/internal/emotion"
	"github.com/rakawanegan/Emotter/internal/post"
	"github.com/rakawanegan/Emotter/internal/social"
	"github.com/rakawanegan/Emotter/internal/stream"
	"github.com/rakawanegan/Emotter/internal/validate"

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
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)
	val := validate.New()

	classifier := emotion.NewHTTPClassifier(s.Cfg.ClassifierURL)
	classifyTimeout := time.Duration(s.Cfg.ClassifierTimeoutMS) * time.Millisecond

	postSvc := post.NewService(s.DB, classifier, emotion.StubTextEstimator{}, s.Stream, classifyTimeout)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB))
	post.RegisterRoutes(s.App.Group("/posts"), postSvc, val, jwtMiddleware)
	social.RegisterRoutes(s.App.Group("/social"), social.NewService(s.DB, s.Stream), jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
