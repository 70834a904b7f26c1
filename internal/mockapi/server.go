package mockapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/jobboard/internal/logging"
	"github.com/dmitrijs2005/jobboard/internal/mockapi/auth"
	"github.com/dmitrijs2005/jobboard/internal/mockapi/config"
	"github.com/gorilla/mux"
)

// Server serves the mock API from a Store.
type Server struct {
	store      *Store
	issuer     *auth.Issuer
	refreshTTL time.Duration
	prefix     string
	logger     logging.Logger

	// skew is added to the wall clock, in nanoseconds.
	skew atomic.Int64
}

func NewServer(cfg *config.Config, store *Store, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Server{
		store:      store,
		refreshTTL: cfg.RefreshTokenValidityDuration,
		prefix:     cfg.PathPrefix,
		logger:     logger.With("module", "mockapi"),
	}
	s.issuer = auth.NewIssuer([]byte(cfg.SecretKey), cfg.AccessTokenValidityDuration)
	s.issuer.Now = s.now
	return s
}

func (s *Server) now() time.Time {
	return time.Now().Add(time.Duration(s.skew.Load()))
}

// Advance moves the server clock forward, expiring tokens without waiting.
func (s *Server) Advance(d time.Duration) {
	s.skew.Add(int64(d))
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	root := mux.NewRouter()
	r := root
	if s.prefix != "" && s.prefix != "/" {
		r = root.PathPrefix(s.prefix).Subrouter()
	}
	r.Use(s.logRequests)

	r.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/auth/refresh", s.handleRefresh).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout", s.requireAuth(s.handleLogout)).Methods(http.MethodPost)
	r.HandleFunc("/auth/me", s.requireAuth(s.handleMe)).Methods(http.MethodGet)

	r.HandleFunc("/users/me", s.requireAuth(s.handleMe)).Methods(http.MethodGet)
	r.HandleFunc("/users/me", s.requireAuth(s.handleUpdateProfile)).Methods(http.MethodPatch)

	r.HandleFunc("/vacancies", s.optionalAuth(s.handleListVacancies)).Methods(http.MethodGet)
	r.HandleFunc("/vacancies/{id}", s.optionalAuth(s.handleGetVacancy)).Methods(http.MethodGet)
	r.HandleFunc("/vacancies/{id}/apply", s.requireAuth(s.handleApply)).Methods(http.MethodPost)

	r.HandleFunc("/applications", s.requireAuth(s.handleListApplications)).Methods(http.MethodGet)
	r.HandleFunc("/applications/{id}", s.requireAuth(s.handleWithdraw)).Methods(http.MethodDelete)

	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, CodeNotFound)
	})
	root.NotFoundHandler = notFound
	r.NotFoundHandler = notFound

	return root
}

// Run listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          logging.ErrorLog(s.logger),
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", addr, "prefix", s.prefix)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug(r.Context(), "request",
			"method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
	})
}
