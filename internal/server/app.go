// Package server initializes and runs the backend application: it opens
// the database, applies migrations, wires the services, and runs the
// HTTP API and the revocation janitor until shutdown.
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

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sethvargo/go-retry"

	"github.com/financevault/backend/internal/logging"
	"github.com/financevault/backend/internal/server/config"
	"github.com/financevault/backend/internal/server/crypto"
	"github.com/financevault/backend/internal/server/httpapi"
	"github.com/financevault/backend/internal/server/repositories/repomanager"
	"github.com/financevault/backend/internal/server/services"
)

// maxConcurrentHashes caps the bcrypt worker pool so a burst of
// register/login requests cannot saturate every CPU.
const maxConcurrentHashes = 4

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	authService    *services.AuthService
	expenseService *services.ExpenseService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := pingWithRetry(ctx, db); err != nil {
		return nil, fmt.Errorf("db connection error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	hasher := crypto.NewHasher(maxConcurrentHashes)
	authService := services.NewAuthService(db, rm, hasher, cfg)
	expenseService := services.NewExpenseService(db, rm)

	return &App{
		config:         cfg,
		logger:         logger,
		db:             db,
		authService:    authService,
		expenseService: expenseService,
	}, nil
}

// pingWithRetry waits for the database to accept connections, which on
// container startup can lag the application by a few seconds.
func pingWithRetry(ctx context.Context, db *sql.DB) error {
	backoff := retry.WithMaxRetries(5, retry.NewExponential(1*time.Second))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewServer(app.config.EndpointAddr, app.logger, app.authService, app.expenseService, app.db.PingContext)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// startTokenJanitor periodically sweeps revocation records whose expiry
// has passed.
func (app *App) startTokenJanitor(ctx context.Context) {

	ticker := time.NewTicker(app.config.TokenPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.authService.PurgeExpiredTokens(ctx)
			if err != nil {
				app.logger.Error(ctx, "Token purge failed", "error", err.Error())
				continue
			}
			if n > 0 {
				app.logger.Info(ctx, "Purged expired revocation records", "count", n)
			}
		}
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
		app.startTokenJanitor(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "Closing db", "error", err.Error())
	}

	app.logger.Info(ctx, "App stopped")
}
