// Package httpapi exposes the HTTP/JSON surface of filevault: registration,
// login and the authenticated file operations.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/auth"
	"github.com/dmitrijs2005/filevault/internal/server/services"
)

type Server struct {
	address string
	logger  logging.Logger
	users   *services.UserService
	files   *services.FileService
	tokens  *auth.TokenService
}

func NewServer(address string, l logging.Logger, us *services.UserService, fs *services.FileService, ts *auth.TokenService) *Server {
	return &Server{
		address: address,
		logger:  l.With("module", "http_server"),
		users:   us,
		files:   fs,
		tokens:  ts,
	}
}

// Handler builds the route table. Exposed separately so tests can drive the
// full surface through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	mux.Handle("POST /api/files/upload", s.authMiddleware(http.HandlerFunc(s.handleUpload)))
	mux.Handle("GET /api/files", s.authMiddleware(http.HandlerFunc(s.handleList)))
	mux.Handle("DELETE /api/files/{id}", s.authMiddleware(http.HandlerFunc(s.handleDelete)))

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeOK(w, http.StatusOK, "ok", nil)
	})

	return corsMiddleware(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
