// Package server wires configuration, storage, the user service and the
// HTTP API together and runs them until a termination signal arrives.
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

	"github.com/dmitrijs2005/chatauth/internal/logging"
	"github.com/dmitrijs2005/chatauth/internal/server/auth"
	"github.com/dmitrijs2005/chatauth/internal/server/config"
	"github.com/dmitrijs2005/chatauth/internal/server/images"
	"github.com/dmitrijs2005/chatauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/chatauth/internal/server/rest"
	"github.com/dmitrijs2005/chatauth/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	userService *services.UserService
	httpServer  *rest.HTTPServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	store, uploadsDir, err := newImageStore(ctx, c)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("image store init error: %w", err)
	}

	hasher, err := auth.NewBcryptHasher(0)
	if err != nil {
		db.Close()
		return nil, err
	}

	us := services.NewUserService(db, rm, store, hasher, logger, c)

	if c.SeedGuest {
		if err := us.EnsureGuest(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("seed guest error: %w", err)
		}
	}

	srv := rest.NewHTTPServer(rest.Options{
		Address:      c.EndpointAddrHTTP,
		SecretKey:    c.SecretKey,
		MaxImageSize: c.MaxImageSize,
		UploadsDir:   uploadsDir,
	}, logger, us)

	return &App{config: c, logger: logger, db: db, userService: us, httpServer: srv}, nil
}

// newImageStore picks the picture backend. The returned directory is non-empty
// only for the local backend and is served under /uploads/.
func newImageStore(ctx context.Context, c *config.Config) (images.Store, string, error) {
	switch c.ImageBackend {
	case config.ImageBackendLocal, "":
		s, err := images.NewLocalStore(c.UploadsDir, images.DefaultURLPrefix)
		if err != nil {
			return nil, "", err
		}
		return s, s.Dir(), nil
	case config.ImageBackendS3:
		s, err := images.NewS3Store(ctx, images.S3Options{
			Region:       c.S3Region,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			Bucket:       c.S3Bucket,
			BaseEndpoint: c.S3BaseEndpoint,
		})
		if err != nil {
			return nil, "", err
		}
		return s, "", nil
	default:
		return nil, "", fmt.Errorf("unknown image backend %q", c.ImageBackend)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
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

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "close db", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")
}
