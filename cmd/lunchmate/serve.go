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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mroshb/lunchmate/internal/config"
	"github.com/mroshb/lunchmate/internal/database"
	"github.com/mroshb/lunchmate/internal/handlers"
	"github.com/mroshb/lunchmate/internal/middleware"
	"github.com/mroshb/lunchmate/internal/notify"
	"github.com/mroshb/lunchmate/internal/recommend"
	"github.com/mroshb/lunchmate/internal/repositories"
	"github.com/mroshb/lunchmate/internal/scheduler"
	"github.com/mroshb/lunchmate/internal/services"
	"github.com/mroshb/lunchmate/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the background sweep",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Listen port (overrides APP_PORT)")
}

type profileStore interface {
	services.ProfileStore
	handlers.ProfileDirectory
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(envFile); err != nil {
		log.Println("No .env file found, using system environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if servePort != "" {
		cfg.AppPort = servePort
	}

	logger.Init(cfg.LogLevel, !cfg.IsProduction())
	defer logger.Sync()

	logger.Info("Starting LunchMate...", "env", cfg.AppEnv, "port", cfg.AppPort)

	if cfg.IsProduction() {
		if err := cfg.ValidateProductionSecurity(); err != nil {
			return err
		}
		logger.Info("Production security validation passed")
	}

	catalog, err := recommend.LoadCatalog(cfg.RestaurantCatalog)
	if err != nil {
		return err
	}
	rec, err := recommend.NewRecommender(catalog)
	if err != nil {
		return err
	}
	logger.Info("Restaurant catalog loaded", "restaurants", len(catalog))

	profiles, db, err := openProfileStore(cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer closeDB(db)
	}

	var notifier services.Notifier
	if cfg.NotificationsEnabled() {
		tg, err := notify.NewTelegramBot(cfg.BotToken, cfg.NotifyChatID, !cfg.IsProduction())
		if err != nil {
			logger.Warn("Telegram notifications disabled", "error", err)
		} else {
			defer tg.Close()
			notifier = tg
		}
	}

	opts := services.DefaultMatchOptions()
	opts.Policy = cfg.RelaxPolicy()
	opts.MaxGroupSize = cfg.MaxGroupSize
	opts.AgeTolerance = cfg.AgeTolerance
	opts.StrictPreferences = cfg.StrictPreferences
	opts.Alternates = cfg.AlternateRestaurants

	matches := services.NewMatchService(rec, profiles, notifier, opts)
	rooms := services.NewRoomService(rec, profiles, notifier, nil)
	h := handlers.NewHandlerManager(
		matches,
		rooms,
		services.NewActivityService(matches, rooms, services.DefaultGroupActivityWindow),
		services.NewStatsService(matches, rooms),
		rec,
		profiles,
	)

	sweeper, err := scheduler.New(matches, cfg.SweepSchedule)
	if err != nil {
		return err
	}
	sweeper.Start()

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerUser, cfg.RateLimitPerIP, time.Minute)
	defer limiter.Stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", middleware.UserHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}))
	h.Register(r, limiter.Middleware())

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	logger.Info("LunchMate started successfully", "addr", srv.Addr)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			logger.Error("HTTP server failed", "error", err)
		}
	}

	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	if err := sweeper.Stop(shutdownCtx); err != nil {
		logger.Error("Sweep scheduler did not stop in time", "error", err)
	}
	logger.Info("LunchMate stopped")
	return nil
}

func openProfileStore(cfg *config.Config) (profileStore, *gorm.DB, error) {
	if cfg.ProfileStore != config.ProfileStorePostgres {
		logger.Info("Using in-memory profile store")
		return repositories.NewMemoryProfileRepository(repositories.DemoProfiles()...), nil, nil
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		closeDB(db)
		return nil, nil, err
	}
	if err := database.SeedUsers(db, repositories.DemoProfiles()); err != nil {
		logger.Warn("Failed to seed users", "error", err)
	}
	return repositories.NewUserRepository(db), db, nil
}

func closeDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("Failed to close database", "error", err)
	}
}
