package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/jackc/pgx/v5/stdlib"

	"blog-api/internal/api"
	"blog-api/internal/config"
	"blog-api/internal/events"
	"blog-api/internal/model"
	"blog-api/internal/oauth"
	"blog-api/internal/repository"
	"blog-api/internal/s3"
	"blog-api/internal/service"
	"blog-api/internal/token"
	"blog-api/internal/tracing"
	_ "blog-api/migrations"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, reading configuration from the environment")
	}

	cfg := config.Load()

	api.SetupGlobalHandler("blog-api")

	shutdownTracer, err := tracing.InitTracerProvider("blog-api", cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize OpenTelemetry: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("Error shutting down tracer provider: %v", err)
		}
	}()

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		handleMigrations(cfg)
		return
	}

	db := connectDB(cfg)
	defer db.Close()

	eventPublisher, err := events.NewNatsPublisher(cfg.NATSUrl)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	log.Println("Successfully connected to NATS.")

	filePresigner, err := s3.NewFilePresigner(cfg)
	if err != nil {
		log.Fatalf("Failed to configure S3 presigner: %v", err)
	}

	tokens := token.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	googleProvider := oauth.NewGoogleProvider(cfg)

	userRepo := repository.NewPostgresUserRepository(db)
	postRepo := repository.NewPostgresPostRepository(db)
	commentRepo := repository.NewPostgresCommentRepository(db)
	categoryRepo := repository.NewPostgresCategoryRepository(db)

	authService := service.NewAuthService(userRepo)
	postService := service.NewPostService(postRepo, eventPublisher)
	commentService := service.NewCommentService(commentRepo, postRepo, eventPublisher)
	categoryService := service.NewCategoryService(categoryRepo)
	userService := service.NewUserService(userRepo)

	authHandler := api.NewAuthHandler(authService, tokens, googleProvider, cfg)
	postHandler := api.NewPostHandler(postService)
	commentHandler := api.NewCommentHandler(commentService)
	categoryHandler := api.NewCategoryHandler(categoryService)
	userHandler := api.NewUserHandler(userService, filePresigner)

	app := fiber.New()
	app.Use(otelfiber.Middleware())
	app.Use(cors.New())
	app.Use(helmet.New())
	app.Use(api.PrometheusMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": "blog-api"})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	authRequired := api.AuthMiddleware(tokens)
	adminOnly := api.RequireRole(model.RoleAdmin)

	apiGroup := app.Group("/api")

	authRoutes := apiGroup.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Post("/logout", authHandler.Logout)
	authRoutes.Get("/google/url", authHandler.GoogleAuthURL)
	authRoutes.Get("/google", authHandler.GoogleCallback)

	postRoutes := apiGroup.Group("/posts")
	postRoutes.Get("/", postHandler.ListPosts)
	postRoutes.Post("/", authRequired, postHandler.CreatePost)
	postRoutes.Post("/approve/:id", authRequired, adminOnly, postHandler.ApprovePost)
	postRoutes.Get("/:id", postHandler.GetPost)
	postRoutes.Put("/:id", authRequired, postHandler.UpdatePost)
	postRoutes.Delete("/:id", authRequired, postHandler.DeletePost)

	commentRoutes := apiGroup.Group("/comments")
	commentRoutes.Get("/", authRequired, adminOnly, commentHandler.ListComments)
	commentRoutes.Get("/posts/:id", authRequired, commentHandler.GetCommentsForPost)
	commentRoutes.Post("/posts/:id", authRequired, commentHandler.AddComment)
	commentRoutes.Post("/like/:id", authRequired, commentHandler.LikeComment)
	commentRoutes.Put("/:id", authRequired, commentHandler.UpdateComment)
	commentRoutes.Delete("/:id", authRequired, commentHandler.DeleteComment)

	categoryRoutes := apiGroup.Group("/categories")
	categoryRoutes.Get("/", categoryHandler.ListCategories)
	categoryRoutes.Post("/", authRequired, adminOnly, categoryHandler.AddCategory)
	categoryRoutes.Put("/:id", authRequired, adminOnly, categoryHandler.UpdateCategory)
	categoryRoutes.Delete("/:id", authRequired, adminOnly, categoryHandler.DeleteCategory)

	userRoutes := apiGroup.Group("/users")
	userRoutes.Use(authRequired)
	userRoutes.Get("/me", userHandler.GetMe)
	userRoutes.Put("/me", userHandler.UpdateMe)
	userRoutes.Get("/me/avatar-upload-url", userHandler.GetAvatarUploadURL)

	log.Printf("Listening blog-api on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}

func connectDB(cfg *config.Config) *sqlx.DB {
	db, err := sqlx.Connect("pgx", cfg.DatabaseURL())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Successfully connected to the database.")
	return db
}

func handleMigrations(cfg *config.Config) {
	log.Println("Running database migrations...")

	db, err := sql.Open("pgx", cfg.DatabaseURL())
	if err != nil {
		log.Fatalf("failed to connect to database for migration: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("failed to set goose dialect: %v", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		log.Fatalf("goose: failed to run migrations: %v", err)
	}

	log.Println("Migrations applied successfully!")
}
