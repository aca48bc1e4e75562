// Package server wires the bookmarker application together: storage, the
// password hasher and token issuer, services, the HTTP API and the gRPC
// health endpoint. It also handles graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/bookmarker/internal/cryptox"
	"github.com/dmitrijs2005/bookmarker/internal/dbx"
	"github.com/dmitrijs2005/bookmarker/internal/logging"
	"github.com/dmitrijs2005/bookmarker/internal/server/auth"
	"github.com/dmitrijs2005/bookmarker/internal/server/config"
	"github.com/dmitrijs2005/bookmarker/internal/server/httpapi"
	"github.com/dmitrijs2005/bookmarker/internal/server/repositories/memory"
	"github.com/dmitrijs2005/bookmarker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bookmarker/internal/server/services"

	gs "github.com/dmitrijs2005/bookmarker/internal/server/grpc"
)

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	dbtx        dbx.DBTX
	tx          dbx.Transactor
	repomanager repomanager.RepositoryManager
	hasher      *cryptox.PasswordHasher
	tokens      *auth.TokenIssuer
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)
	gin.SetMode(c.GinMode)

	app := &App{
		config: c,
		logger: logger,
		hasher: cryptox.NewPasswordHasher(cryptox.DefaultParams),
		tokens: auth.NewTokenIssuer(c.SecretKey, c.AccessTokenValidityDuration),
	}

	switch c.Storage {
	case config.StorageMemory:
		store := memory.NewStore()
		app.repomanager = store
		app.tx = store
	default:
		db, err := sqlOpen("pgx", c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		app.db = db
		app.dbtx = db
		app.tx = dbx.NewSQLTransactor(db, nil)
		app.repomanager = repomanager.NewPostgresRepositoryManager()
	}

	return app, nil
}

// Router builds the HTTP handler with every service wired in.
func (app *App) Router() *gin.Engine {
	h := httpapi.NewHandler(
		services.NewAuthService(app.dbtx, app.repomanager, app.hasher, app.tokens),
		services.NewUserService(app.dbtx, app.repomanager, app.hasher),
		services.NewBookmarkService(app.dbtx, app.tx, app.repomanager),
		services.NewExportService(app.dbtx, app.repomanager, app.config),
		app.logger,
	)

	return httpapi.NewRouter(httpapi.RouterConfig{
		AllowedOrigins: app.config.CORSAllowedOrigins,
		Logger:         app.logger,
	}, h, app.tokens)
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case s := <-sigs:
			app.logger.Info(ctx, "Received signal", "signal", s.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run migrates the store, starts both listeners and blocks until ctx is
// cancelled, a signal arrives, or a listener fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.Storage)

	app.initSignalHandler(ctx, cancelFunc)

	if app.db != nil {
		defer app.db.Close()

		if err := app.db.PingContext(ctx); err != nil {
			return fmt.Errorf("db ping error: %w", err)
		}
	}

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}

	health := gs.NewHealthServer(app.config.EndpointAddrGRPC, app.logger)
	httpServer := httpapi.NewServer(app.config.EndpointAddrHTTP, app.Router(), app.logger)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	run := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				app.logger.Error(ctx, "server failed", "server", name, "error", err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				mu.Unlock()
				cancelFunc()
			}
		}()
	}

	run("grpc", health.Run)
	run("http", httpServer.Run)
	health.SetServing(true)

	wg.Wait()
	app.logger.Info(context.Background(), "App stopped")

	return errors.Join(errs...)
}
