package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"poster_app_go/config"
	"poster_app_go/db"
	"poster_app_go/handlers"
	"poster_app_go/middleware"
	"poster_app_go/models"
	"poster_app_go/services"
	"poster_app_go/services/i18n"
	"poster_app_go/services/jobs"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if err := i18n.Load(); err != nil {
		log.Fatalf("Failed to load translations: %v", err)
	}

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(&models.SessionItem{}, &models.ErrorLogEntry{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	services.InitializeStorage(cfg)
	middleware.InitAssetVersions()

	ctx := context.Background()
	store, errorLogRepo := initializeStore(ctx, cfg)
	errorLog := services.NewErrorLogSink(errorLogRepo, cfg.ErrorLogCapacity)

	chrome := services.NewChromeRenderer(cfg.ChromePath)
	loader := services.NewImageLoader(&http.Client{Timeout: 30 * time.Second}, chrome)
	var exporter services.DocumentExporter = services.NewPDFDocumentExporter(loader, cfg.PDFFontPath)
	if cfg.PrintStrategy == config.PrintStrategyStylesheet {
		exporter = services.NewStylesheetExporter(loader, chrome)
	}

	studio := services.NewPosterStudio(services.StudioOptions{
		Store:         store,
		Generator:     services.NewGenerationClient(cfg.GenerationEndpoint, cfg.GenerationTimeout, errorLog),
		Exporter:      exporter,
		Storage:       services.Storage,
		ErrorLog:      errorLog,
		PrintStrategy: cfg.PrintStrategy,
		PrintDelay:    cfg.PrintDelay,
	})
	log.Printf("[INFO] Poster studio ready (endpoint: %s, print strategy: %s)", cfg.GenerationEndpoint, studio.PrintStrategy())

	cipher, err := services.NewSessionCipherFromSecret(cfg.SessionSecret)
	if err != nil {
		log.Fatalf("Failed to initialize session cipher: %v", err)
	}

	scheduler, err := jobs.StartScheduler(store, services.Storage, cfg.SessionTTL)
	if err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(echomiddleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CSPNonce())

	// Make config and studio available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			c.Set(handlers.ContextKeyStudio, studio)
			return next(c)
		}
	})

	// Static files
	e.Static("/static", "static")
	e.GET("/healthz", handlers.HealthHandler)

	generateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Requests: cfg.GenerateRatePerMin,
		Window:   time.Minute,
		Message:  i18n.Translate(i18n.DefaultLanguage(), "messages.rate_limited"),
	})
	defer generateLimiter.Stop()

	app := e.Group("")
	app.Use(middleware.Locale(cfg))
	app.Use(middleware.Session(cfg, cipher))
	app.Use(middleware.ClientEnvironment("web"))
	app.Use(echomiddleware.CSRFWithConfig(echomiddleware.CSRFConfig{
		TokenLookup:    "header:X-CSRF-Token,form:_csrf",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   cfg.Environment == "production",
		CookieSameSite: http.SameSiteLaxMode,
	}))
	{
		app.GET("/", handlers.StudioHandler)
		app.POST("/form", handlers.SaveFormHandler)
		app.POST("/generate", handlers.GenerateHandler, generateLimiter.Middleware())
		app.POST("/generate/run", handlers.RunGenerationHandler)
		app.POST("/regenerate", handlers.RegenerateHandler)
		app.GET("/print", handlers.PrintHandler)
		app.GET(services.DocumentRoutePrefix+":name", handlers.DocumentHandler)
		app.GET("/errors/log", handlers.ErrorLogTextHandler)
		app.GET("/errors/log.xlsx", handlers.ErrorLogWorkbookHandler)
	}

	// Start server
	go func() {
		log.Printf("Server starting on port %s", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] Server shutdown: %v", err)
	}
	log.Println("Server stopped")
}

// initializeStore picks the session store and error log backend
func initializeStore(ctx context.Context, cfg *config.Config) (services.KeyValueStore, services.ErrorLogRepository) {
	if cfg.StoreBackend == config.StoreBackendRedis {
		client, err := services.NewRedisClient(ctx, services.RedisConf{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err == nil {
			log.Printf("[INFO] Session store: redis (%s:%d)", cfg.RedisHost, cfg.RedisPort)
			return services.NewRedisKeyValueStore(client, cfg.SessionTTL),
				services.NewRedisErrorLogRepository(client, cfg.ErrorLogCapacity)
		}
		log.Printf("[WARNING] Redis unavailable: %v. Falling back to SQLite.", err)
	}

	log.Println("[INFO] Session store: sqlite")
	return services.NewGormKeyValueStore(db.DB, cfg.SessionTTL),
		services.NewGormErrorLogRepository(db.DB, cfg.ErrorLogCapacity)
}
