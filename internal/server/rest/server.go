// Package rest exposes the user API over HTTP/JSON with a chi router.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/chatauth/internal/logging"
	"github.com/dmitrijs2005/chatauth/internal/server/images"
	"github.com/dmitrijs2005/chatauth/internal/server/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Users is the part of services.UserService the HTTP layer needs.
type Users interface {
	Register(ctx context.Context, r models.Registration) (*models.AuthResult, error)
	Authenticate(ctx context.Context, email, password string) (*models.AuthResult, error)
	GetProfile(ctx context.Context, userID string) (*models.UserInfo, error)
	ListUsers(ctx context.Context, callerID, search string) ([]models.UserInfo, error)
	UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.UserInfo, error)
}

// Options configures an HTTPServer.
//
//   - Address: listen address, e.g. ":5000".
//   - SecretKey: HMAC key the auth gate verifies tokens with.
//   - MaxImageSize: largest accepted picture; request bodies are capped a bit above it.
//   - UploadsDir: when set, files below it are served under /uploads/.
type Options struct {
	Address      string
	SecretKey    string
	MaxImageSize int64
	UploadsDir   string
}

const (
	shutdownTimeout = 5 * time.Second
	formOverhead    = 1 << 20
)

type HTTPServer struct {
	address      string
	users        Users
	logger       logging.Logger
	jwtSecret    []byte
	maxImageSize int64
	uploadsDir   string
	router       chi.Router
}

func NewHTTPServer(o Options, l logging.Logger, us Users) *HTTPServer {
	s := &HTTPServer{
		address:      o.Address,
		users:        us,
		logger:       l.With("module", "http_server"),
		jwtSecret:    []byte(o.SecretKey),
		maxImageSize: o.MaxImageSize,
		uploadsDir:   o.UploadsDir,
	}
	s.router = s.routes()
	return s
}

func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

func (s *HTTPServer) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/user", func(r chi.Router) {
		r.Post("/", s.handleRegister)
		r.Post("/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.authGate)
			r.Get("/", s.handleListUsers)
			r.Get("/profile", s.handleGetProfile)
			r.Put("/profile", s.handleUpdateProfile)
		})
	})

	if s.uploadsDir != "" {
		fs := http.StripPrefix(images.DefaultURLPrefix, http.FileServer(http.Dir(s.uploadsDir)))
		r.Handle(images.DefaultURLPrefix+"*", fs)
	}

	return r
}

func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *HTTPServer) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
