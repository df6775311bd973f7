package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"physiobudget/internal/budget"
	applog "physiobudget/internal/log"
	"physiobudget/internal/middleware/ratelimit"
	"physiobudget/internal/middleware/security"
	"physiobudget/internal/middleware/trace"
	appweb "physiobudget/web"
)

// Options tunes the server middleware.
type Options struct {
	RateLimitPerMinute int
}

// Server serves the budget form and its partials.
type Server struct {
	http.Server
	templates   *template.Template
	book        budget.Book
	publisher   budget.ReportPublisher
	logger      *applog.Logger
	rateLimiter *ratelimit.Limiter
	trace       *trace.Middleware
	startedAt   time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
// publisher may be nil, in which case spreadsheet publishing answers 404.
func NewServer(addr string, book budget.Book, publisher budget.ReportPublisher, logger *applog.Logger, opts Options) *Server {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	limiterCfg := ratelimit.DefaultConfig()
	if opts.RateLimitPerMinute > 0 {
		limiterCfg.RequestsPerMinute = opts.RateLimitPerMinute
	}

	ips := security.NewClientIPResolver()
	s := &Server{
		book:        book,
		publisher:   publisher,
		logger:      logger.WithComponent(applog.ComponentHTTP),
		rateLimiter: ratelimit.NewLimiter(limiterCfg),
		trace:       trace.NewMiddleware(logger, ips.ClientIP),
		startedAt:   time.Now(),
	}

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Warn("Failed parsing templates", applog.FieldError, err)
	}
	s.templates = t

	mux := http.NewServeMux()
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /ui/summary", s.handleSummary)
	mux.HandleFunc("POST /practitioners/{p}/name", s.handleRename)
	mux.HandleFunc("POST /practitioners/{p}/sessions/{d}", s.handleUpdateSession)
	mux.HandleFunc("POST /practitioners/{p}/sessions/{d}/duration", s.handleSetDuration)
	mux.HandleFunc("POST /overheads", s.handleSetOverhead)
	mux.HandleFunc("GET /export.csv", s.handleExportCSV)
	mux.HandleFunc("POST /export/sheets", s.handlePublishSheets)

	limited := s.rateLimiter.Middleware(ips.ClientIP, s.onRateLimited, http.MethodPost)(mux)
	secured := security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(limited)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.trace.Middleware(secured),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WithComponent(applog.ComponentRateLimit).
		WarnContext(r.Context(), "Rate limit exceeded", applog.FieldPath, r.URL.Path)
	TooManyRequestsError().Write(w)
}

// Shutdown stops background routines and gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
