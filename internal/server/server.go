// Package server contains HTTP handlers and route wiring for the posts API.
package server

import (
	"context"

	"devconnector/internal/cache"
	"devconnector/internal/config"
	"devconnector/internal/database"
	"devconnector/internal/middleware"
	"devconnector/internal/repository"
	"devconnector/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config      *config.Config
	db          *gorm.DB
	app         *fiber.App
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	postRepo    repository.PostRepository
	postService *service.PostService
}

// New creates a server instance, connecting the database and Redis.
func New(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}

	cache.InitRedis(cfg.RedisURL)

	return NewWithDeps(cfg, db), nil
}

// NewWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes the DB connection.
func NewWithDeps(cfg *config.Config, db *gorm.DB) *Server {
	middleware.InitMiddleware(cfg)

	s := &Server{
		config:      cfg,
		db:          db,
		userRepo:    repository.NewUserRepository(db),
		profileRepo: repository.NewProfileRepository(db),
		postRepo:    repository.NewPostRepository(db),
	}
	s.postService = service.NewPostService(s.postRepo, s.profileRepo, cfg.CommentDeletePolicy)
	s.app = s.newApp()
	return s
}

func (s *Server) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "DevConnector API",
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.StructuredLogger())

	prom := fiberprometheus.New("devconnector-api")
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	s.registerRoutes(app)
	return app
}

func (s *Server) registerRoutes(app *fiber.App) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/signup", s.Signup)
	auth.Post("/login", s.Login)

	profile := api.Group("/profile")
	profile.Get("/me", middleware.AuthRequired, s.GetMyProfile)
	profile.Post("/", middleware.AuthRequired, s.UpsertProfile)
	profile.Get("/:user_id", s.GetProfile)

	posts := api.Group("/posts")
	// Public post routes
	posts.Get("/test", s.TestPosts)
	posts.Get("/", s.GetPosts)
	// Protected post routes; registered before the catch-all :id routes so
	// fiber matches the literal prefixes first.
	posts.Post("/", middleware.AuthRequired, s.CreatePost)
	posts.Post("/like/:id", middleware.AuthRequired, s.LikePost)
	posts.Post("/unlike/:id", middleware.AuthRequired, s.UnlikePost)
	posts.Post("/comment/:id", middleware.AuthRequired, s.AddComment)
	posts.Delete("/comment/:id/:comment_id", middleware.AuthRequired, s.RemoveComment)
	posts.Get("/:id", s.GetPost)
	posts.Delete("/:id", middleware.AuthRequired, s.DeletePost)
}

// App exposes the fiber app, primarily for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts the HTTP server on the configured port.
func (s *Server) Listen() error {
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully stops the HTTP server and closes the cache connection.
func (s *Server) Shutdown(ctx context.Context) error {
	defer cache.Close()
	return s.app.ShutdownWithContext(ctx)
}
