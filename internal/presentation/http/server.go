package http

import (
	stdhttp "net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"jobboard/app/internal/domain/accounts"
	"jobboard/app/internal/domain/jobs"
	"jobboard/app/internal/domain/posts"
)

// Options configures the HTTP server wiring.
type Options struct {
	Jobs             jobs.Service
	Posts            posts.Service
	Accounts         accounts.Service
	Database         *gorm.DB
	SuggesterEnabled bool
	MaxResumeBytes   int64
	CookieSecure     bool
	Logger           *logrus.Logger
	SentryHub        *sentry.Hub
	RateLimiter      RateLimiterSettings
}

// RateLimiterSettings configures the HTTP rate limiter behaviour.
type RateLimiterSettings struct {
	RequestsPerSecond float64
	Burst             int
	ClientTTL         time.Duration
}

// Server wires the HTTP transport layer via Huma and templ components.
type Server struct {
	api              huma.API
	mux              *stdhttp.ServeMux
	jobs             jobs.Service
	posts            posts.Service
	accounts         accounts.Service
	db               *gorm.DB
	suggesterEnabled bool
	maxResumeBytes   int64
	cookieSecure     bool
	logger           *logrus.Logger
	sentry           *sentry.Hub
	rateLimiter      *RateLimiter
}

// NewServer constructs the HTTP server.
func NewServer(opts Options) (*Server, error) {
	if opts.Jobs == nil {
		return nil, eris.New("jobs service is required")
	}
	if opts.Posts == nil {
		return nil, eris.New("posts service is required")
	}
	if opts.Accounts == nil {
		return nil, eris.New("accounts service is required")
	}
	if opts.Database == nil {
		return nil, eris.New("database is required")
	}

	mux := stdhttp.NewServeMux()
	config := huma.DefaultConfig("Job Board", "1.0.0")

	api := humago.New(mux, config)

	maxResumeBytes := opts.MaxResumeBytes
	if maxResumeBytes <= 0 {
		maxResumeBytes = jobs.DefaultMaxResumeBytes
	}

	srv := &Server{
		api:              api,
		mux:              mux,
		jobs:             opts.Jobs,
		posts:            opts.Posts,
		accounts:         opts.Accounts,
		db:               opts.Database,
		suggesterEnabled: opts.SuggesterEnabled,
		maxResumeBytes:   maxResumeBytes,
		cookieSecure:     opts.CookieSecure,
		logger:           opts.Logger,
		sentry:           opts.SentryHub,
	}

	settings := opts.RateLimiter
	if settings.Burst <= 0 {
		return nil, eris.New("rate limiter burst must be greater than zero")
	}
	if settings.RequestsPerSecond <= 0 {
		return nil, eris.New("rate limiter requests per second must be greater than zero")
	}
	if settings.ClientTTL <= 0 {
		return nil, eris.New("rate limiter client TTL must be greater than zero")
	}

	srv.rateLimiter = NewRateLimiter(settings.Burst, settings.RequestsPerSecond, settings.ClientTTL)

	srv.registerMiddlewares()
	srv.registerRoutes()

	return srv, nil
}

// Handler exposes the underlying HTTP handler for wiring into the application.
func (s *Server) Handler() stdhttp.Handler {
	return s.mux
}

// API exposes the underlying Huma API instance.
func (s *Server) API() huma.API {
	return s.api
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

func (s *Server) registerMiddlewares() {
	s.api.UseMiddleware(
		s.sentryMiddleware(),
		s.recoveryMiddleware(),
		s.requestIDMiddleware(),
		s.rateLimitMiddleware(),
		s.sessionMiddleware(),
		s.loggingMiddleware(),
	)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /{$}", rootHandler)
	s.mux.HandleFunc("/", s.notFoundHandler)

	s.registerStaticRoutes()

	s.registerJobRoutes()
	s.registerPostRoutes()
	s.registerAuthRoutes()
	s.registerHealthRoute()
}

func (s *Server) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	s.mux.ServeHTTP(w, r)
}

func rootHandler(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	stdhttp.Redirect(w, r, "/jobs", stdhttp.StatusFound)
}

func (s *Server) notFoundHandler(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	resp, _ := s.renderErrorResponse(r.Context(), stdhttp.StatusNotFound, "We couldn't find that page.")
	w.Header().Set("Content-Type", resp.ContentType)
	w.WriteHeader(resp.Status)
	_, _ = w.Write(resp.Body)
}
