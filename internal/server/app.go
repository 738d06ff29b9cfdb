// Package server initializes and runs the filevault application server:
// it wires the repositories, the storage backend and the HTTP surface,
// and handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/auth"
	"github.com/dmitrijs2005/filevault/internal/server/config"
	"github.com/dmitrijs2005/filevault/internal/server/httpapi"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filevault/internal/server/services"
	"github.com/dmitrijs2005/filevault/internal/server/storage"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	userService *services.UserService
	fileService *services.FileService
	tokens      *auth.TokenService
}

func NewApp(c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	rm, err := repomanager.NewPostgresRepositoryManager(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	blobs, err := newBlobStore(c)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	tokens := auth.NewTokenService([]byte(c.SecretKey), c.TokenIssuer, c.TokenAudience, c.TokenValidityDuration)

	us := services.NewUserService(rm.Users(), tokens)
	fs := services.NewFileService(rm.Files(), blobs, logger)

	return &App{config: c, logger: logger, userService: us, fileService: fs, tokens: tokens}, nil
}

func newBlobStore(c *config.Config) (storage.BlobStore, error) {
	switch c.StorageBackend {
	case config.StorageS3:
		return storage.NewS3Store(context.Background(), storage.S3Options{
			User:         c.S3RootUser,
			Password:     c.S3RootPassword,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
		})
	case config.StorageDisk:
		return storage.NewDiskStore(c.UploadDir)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", c.StorageBackend)
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

	s := httpapi.NewServer(app.config.EndpointAddr, app.logger, app.userService, app.fileService, app.tokens)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
