// Package server initializes and runs the application: database, services,
// HTTP endpoint, background cleanup, and graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rentacat/rentacat/internal/logging"
	"github.com/rentacat/rentacat/internal/server/config"
	"github.com/rentacat/rentacat/internal/server/csrf"
	"github.com/rentacat/rentacat/internal/server/httpapi"
	"github.com/rentacat/rentacat/internal/server/repositories/repomanager"
	"github.com/rentacat/rentacat/internal/server/services"
	"github.com/rentacat/rentacat/internal/server/storage"
)

const sessionCleanupInterval = 10 * time.Minute

type App struct {
	config *config.Config
	logger logging.Logger

	db     *sql.DB
	tokens *csrf.Registry

	userService *services.UserService
	httpServer  *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	var store storage.Store
	if cfg.S3Enabled {
		store = storage.NewS3Store(cfg)
	} else {
		store, err = storage.NewDiskStore(cfg.UploadDir, cfg.PublicImageBase)
		if err != nil {
			return nil, fmt.Errorf("image store init error: %w", err)
		}
	}

	tokens := csrf.NewRegistry(cfg.CSRFTokenTTL, time.Minute)

	userService := services.NewUserService(db, rm, cfg)
	reservationService := services.NewReservationService(db, rm, cfg)
	catService := services.NewCatService(db, rm)
	imageService := services.NewImageService(store, cfg, logger)

	httpServer := httpapi.NewServer(cfg, logger,
		userService, reservationService, catService, imageService, tokens)

	return &App{
		config:      cfg,
		logger:      logger,
		db:          db,
		tokens:      tokens,
		userService: userService,
		httpServer:  httpServer,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// cleanupSessions drops expired session rows until ctx is cancelled.
func (app *App) cleanupSessions(ctx context.Context) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.userService.CleanupSessions(ctx)
			if err != nil {
				app.logger.Error(ctx, "session cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				app.logger.Info(ctx, "expired sessions removed", "count", n)
			}
		}
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.httpServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.cleanupSessions(ctx)
	}()

	wg.Wait()

	app.tokens.Close()
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database failed", "error", err)
	}
}
