// Package server initializes and runs the application: it opens the
// database, applies migrations, wires the services, and starts the HTTP
// server with the websocket chat endpoint, shutting everything down
// gracefully on SIGINT/SIGTERM.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sethvargo/go-retry"

	"github.com/oxylize/api/internal/logging"
	"github.com/oxylize/api/internal/server/config"
	"github.com/oxylize/api/internal/server/httpapi"
	"github.com/oxylize/api/internal/server/repositories/repomanager"
	"github.com/oxylize/api/internal/server/services"
	"github.com/oxylize/api/internal/server/ws"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	httpServer *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewDefault()

	db, err := openDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	userService := services.NewUserService(db, rm, cfg)
	postService := services.NewPostService(db, rm)
	reviewService := services.NewReviewService(db, rm)
	chatService := services.NewChatService(db, rm)

	registry := ws.NewRegistry()
	processor := ws.NewProcessor(chatService, registry, logger)
	bridge := ws.NewBridge(cfg.DatabaseDSN, chatService, registry, logger)
	wsHandler := ws.NewHandler(userService, processor, bridge, registry, cfg.CORSAllowedOrigins, logger)

	httpServer := httpapi.New(cfg, userService, postService, reviewService, wsHandler, logger)

	return &App{config: cfg, logger: logger, db: db, httpServer: httpServer}, nil
}

// openDB opens the pool and waits for the database to come up, retrying
// the ping with exponential backoff. Containers routinely start the app
// before postgres is ready to accept connections.
func openDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	backoff := retry.WithMaxDuration(time.Minute, retry.NewExponential(time.Second))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		return retry.RetryableError(db.PingContext(ctx))
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app", "addr", app.config.EndpointAddrHTTP)

	app.initSignalHandler(cancelFunc)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- app.httpServer.ListenAndServe(ctx)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			app.logger.Error(ctx, "http server failed", "error", err)
		}
	case <-ctx.Done():
		app.logger.Info(ctx, "shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "shutdown error", "error", err)
		}
		<-serveErr
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}

	app.logger.Info(ctx, "app stopped")
}
