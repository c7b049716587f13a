package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notecards/internal/config"
	"notecards/internal/generator"
	"notecards/internal/handlers"
	"notecards/internal/inference/local"
	"notecards/internal/inference/remote"
	"notecards/internal/logger"
	"notecards/internal/repository"
	"notecards/internal/repository/database"
	"notecards/internal/server"
	"notecards/internal/service"

	_ "notecards/docs"

	"github.com/joho/godotenv"
)

const shutdownTimeout = 10 * time.Second

// @title          notecards API
// @version        1.0
// @description    Turns free-text notes into question/answer flashcards.
// @BasePath       /
// @securityDefinitions.apikey BearerAuth
// @in             header
// @name           Authorization
func main() {
	envErr := loadDotenv()

	cfg, err := config.Load(os.Getenv("NOTECARDS_CONFIG"))
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(cfg.Log.Level)
	defer log.Sync()
	if envErr != nil {
		log.Warnw("dotenv_load_failed", "err", envErr)
	}

	// context for startup and background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// open DB, postgres first with SQLite fallback
	conn, err := database.Open(ctx, database.Options{DSN: cfg.DB.DSN, SQLitePath: cfg.DB.Path}, log)
	if err != nil {
		log.Fatalw("failed to open database", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close database", "err", cerr)
		}
	}()
	log.Infow("db_ready", "dialect", conn.Dialect)

	pipeline, err := buildPipeline(cfg, log)
	if err != nil {
		log.Fatalw("failed to build generation pipeline", "err", err)
	}

	if cfg.Auth.JWTSecret == "" {
		log.Warnw("jwt_secret_not_set", "detail", "using a random secret; sessions will not survive a restart")
	}

	// wire dependencies
	repos := repository.NewRepository(conn)
	services := service.NewService(repos, pipeline, service.AuthConfig{
		JWTSecret:  cfg.Auth.JWTSecret,
		SessionTTL: cfg.Auth.SessionTTL,
	}, log)
	apiHandler := handlers.NewHandler(services, log, handlers.Config{
		CookieSecure:   cfg.Auth.CookieSecure,
		SessionTTL:     cfg.Auth.SessionTTL,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	// expired session sweep
	go services.Run(ctx, cfg.Auth.SweepInterval)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

// loadDotenv reads .env into the environment. A missing file is not an error.
func loadDotenv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// buildPipeline probes the model backends once and fixes the strategy chain.
func buildPipeline(cfg *config.Config, log *logger.Logger) (*generator.Pipeline, error) {
	runner := local.NewRunner(local.Config{
		Command: cfg.Local.Command,
		Args:    cfg.Local.Args,
		QGModel: cfg.Local.QGModel,
		QAModel: cfg.Local.QAModel,
		Device:  cfg.Local.Device,
	})
	client, err := remote.New(remote.Options{
		BaseURL:    cfg.Remote.BaseURL,
		APIKey:     cfg.Remote.APIToken,
		QGModel:    cfg.Remote.QGModel,
		QAModel:    cfg.Remote.QAModel,
		Timeout:    cfg.Remote.Timeout,
		MaxRetries: cfg.Remote.MaxRetries,
	})
	if err != nil {
		return nil, err
	}

	caps := generator.DetectCapabilities(runner, client)
	log.Infow("generation_capabilities",
		"local_available", caps.LocalAvailable,
		"local_detail", caps.LocalDetail,
		"remote_configured", caps.RemoteConfigured,
	)
	return generator.NewPipeline(caps, generator.Backends{Local: runner, Remote: client}, log), nil
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http_server_starting", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
