package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/strideapp/coach-billing/internal/config"
	"github.com/strideapp/coach-billing/internal/handler"
	"github.com/strideapp/coach-billing/internal/notify"
	"github.com/strideapp/coach-billing/internal/repository"
	"github.com/strideapp/coach-billing/internal/service"
	"github.com/strideapp/coach-billing/pkg/response"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	initLogger(cfg)

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories
	lessonRepo := repository.NewLessonRepository(db)
	clientRepo := repository.NewClientRepository(db)
	lessonTypeRepo := repository.NewLessonTypeRepository(db)
	billingRepo := repository.NewBillingRepository(db)

	// Initialize services
	notifier := notify.NewRedisNotifier(redisClient, cfg.Billing.NotifyChannelPattern)
	rateResolver := service.NewRateResolver(lessonTypeRepo, cfg)
	bookingService := service.NewBookingService(lessonRepo, billingRepo, clientRepo, rateResolver, notifier, cfg)
	aggregationService := service.NewAggregationService(lessonRepo, clientRepo)

	bookingHandler := handler.NewBookingHandler(bookingService)
	summaryHandler := handler.NewSummaryHandler(aggregationService)
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.GetHealthTimeout())

	// Setup routes
	router := setupRoutes(bookingHandler, summaryHandler, healthHandler)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

func initLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Logging.Format == "console" || cfg.IsDevelopment() {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger()
	}
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(bookingHandler *handler.BookingHandler, summaryHandler *handler.SummaryHandler, healthHandler *handler.HealthHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.CORSMiddleware, response.LoggingMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes, all behind the upstream-resolved coach identity
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(handler.AuthMiddleware)

	api.HandleFunc("/bookings", bookingHandler.CreateBooking).Methods("POST")
	api.HandleFunc("/lessons/{lessonId}/complete", bookingHandler.CompleteLesson).Methods("POST")
	api.HandleFunc("/lessons/{lessonId}/cancel", bookingHandler.CancelLesson).Methods("POST")
	api.HandleFunc("/entries/{entryId}/pay", bookingHandler.MarkEntryPaid).Methods("POST")
	api.HandleFunc("/summary/{year}", summaryHandler.GetYearSummary).Methods("GET")
	api.HandleFunc("/summary/{year}/export", summaryHandler.ExportYearCSV).Methods("GET")

	return router
}
