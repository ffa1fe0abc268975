package trie_api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nats-io/nuid"
	"github.com/rs/zerolog"
	"github.com/rskv-p/minitrie/pkg/x_log"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	// Users enables /auth/login and guards mutating routes with JWTs.
	Users     Authenticator
	JWTSecret []byte
	TokenTTL  time.Duration
	// AdminRole is required on mutating routes. Defaults to "admin".
	AdminRole string
	Logger    *zerolog.Logger
}

// NewRouter builds the HTTP API over d.
func NewRouter(d Dictionary, opts RouterOptions) (http.Handler, error) {
	if opts.Users != nil && len(opts.JWTSecret) == 0 {
		return nil, errNoSecret
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 12 * time.Hour
	}
	if opts.AdminRole == "" {
		opts.AdminRole = "admin"
	}
	log := opts.Logger
	if log == nil {
		l := x_log.New("trie_api")
		log = &l
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/api/search", handleSearch(d))
	r.Get("/api/stats", handleStats(d))
	r.Get("/ws/search", handleWS(d))

	if opts.Users != nil {
		r.Post("/auth/login", handleLogin(opts.Users, opts.JWTSecret, opts.TokenTTL))
	}

	r.Group(func(r chi.Router) {
		if opts.Users != nil {
			r.Use(requireRole(opts.JWTSecret, opts.AdminRole))
		}
		r.Post("/api/words", handleInsert(d))
		r.Post("/api/save", handleSave(d))
		r.Post("/api/load", handleLoad(d))
	})
	return r, nil
}

// requestLogger tags each request with a nuid id and logs its outcome.
func requestLogger(base *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-Id")
			if id == "" {
				id = nuid.Next()
			}
			w.Header().Set("X-Request-Id", id)

			l := base.With().Str("request_id", id).Logger()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r.WithContext(x_log.WithLogger(r.Context(), &l)))

			l.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("elapsed", time.Since(start)).
				Msg("http request")
		})
	}
}
