package main

import (
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"vibecode/internal/config"
	"vibecode/internal/database"
	"vibecode/internal/handlers"
	"vibecode/internal/heuristics"
	"vibecode/internal/jobs"
	"vibecode/internal/logging"
	"vibecode/internal/middleware"
	"vibecode/internal/services"
	"vibecode/internal/transcription"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting Vibecode Server...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	log.Printf("📋 Configuration loaded (Port: %s, DB: %s)", cfg.Port, cfg.DatabasePath)

	// Initialize SQLite database
	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		log.Fatalf("❌ Failed to create data directory: %v", err)
	}
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("❌ Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Heuristic tables: compiled defaults, optional YAML override with hot reload
	tables := heuristics.NewRegistry()
	if cfg.HeuristicsPath != "" {
		if err := tables.LoadFile(cfg.HeuristicsPath); err != nil {
			log.Fatalf("❌ Failed to load heuristics from %s: %v", cfg.HeuristicsPath, err)
		}
		log.Printf("✅ Heuristic tables loaded from %s", cfg.HeuristicsPath)
		if cfg.HeuristicsWatch {
			if err := tables.Watch(cfg.HeuristicsPath); err != nil {
				log.Printf("⚠️  Heuristics hot reload disabled: %v", err)
			} else {
				log.Println("👀 Watching heuristics file for changes")
			}
		}
	}
	defer tables.Close()

	metrics := services.InitMetrics()

	store := services.NewContextMemoryStore(db)
	store.SetMetrics(metrics)

	// Transcription is optional: without API keys, text input still works
	var transcriber transcription.Transcriber
	if cfg.GroqAPIKey != "" || cfg.OpenAIAPIKey != "" {
		transcriber = transcription.NewClient(cfg.GroqAPIKey, cfg.OpenAIAPIKey)
		log.Println("✅ Whisper transcription enabled")
	} else {
		log.Println("⚠️  No transcription API keys set; audio endpoint will degrade")
	}

	// Redis event publishing is optional
	var events *services.EventPublisher
	if cfg.RedisURL != "" {
		events, err = services.NewEventPublisher(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️  Redis unavailable, events disabled: %v", err)
			events = nil
		} else {
			defer events.Close()
		}
	}

	processor := services.NewVoiceInputProcessor(transcriber, tables, metrics)
	engine := services.NewContextSynthesisEngine(store, tables, events, metrics)

	// Background retention cleanup
	var scheduler *jobs.Scheduler
	if cfg.CleanupEnabled {
		scheduler, err = jobs.NewScheduler()
		if err != nil {
			log.Fatalf("❌ Failed to create scheduler: %v", err)
		}
		cleanup := jobs.NewRetentionCleanupJob(store, cfg.RetentionDays)
		if err := scheduler.Register(cfg.CleanupSchedule, cleanup); err != nil {
			log.Fatalf("❌ Failed to register retention cleanup: %v", err)
		}
		scheduler.Start()
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Vibecode v1.0",
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    (cfg.MaxAudioUploadMB + 1) * 1024 * 1024,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())

	// Prometheus metrics middleware
	prometheus := fiberprometheus.New("vibecode")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:5173,http://localhost:3000"
		log.Println("⚠️  ALLOWED_ORIGINS not set, using development defaults")
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	rateLimitConfig := middleware.LoadRateLimitConfig()
	app.Use("/api", middleware.GlobalAPIRateLimiter(rateLimitConfig))
	log.Printf("🛡️  [RATE-LIMIT] Global=%d/min, Audio=%d/min", rateLimitConfig.GlobalAPIMax, rateLimitConfig.AudioMax)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	voiceHandler := handlers.NewVoiceHandler(processor, engine, cfg.MaxAudioUploadMB)
	synthesisHandler := handlers.NewSynthesisHandler(engine)
	userHandler := handlers.NewUserHandler(store)

	// Routes
	app.Get("/health", healthHandler.Handle)

	api := app.Group("/api")
	api.Post("/voice/text", voiceHandler.ProcessText)
	api.Post("/voice/audio", middleware.AudioRateLimiter(rateLimitConfig), voiceHandler.ProcessAudio)
	api.Post("/synthesize", synthesisHandler.Synthesize)
	api.Get("/users/:userID/statistics", userHandler.Statistics)
	api.Get("/users/:userID/sessions", userHandler.RecentSessions)

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("\n🛑 Shutting down server...")

		if scheduler != nil {
			if err := scheduler.Stop(); err != nil {
				log.Printf("⚠️ Error stopping scheduler: %v", err)
			}
		}

		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ Error shutting down server: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
