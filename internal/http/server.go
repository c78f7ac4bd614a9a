package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"worklog/internal/log"
	"worklog/internal/middleware/ratelimit"
	"worklog/internal/middleware/security"
	"worklog/internal/middleware/trace"
	"worklog/internal/services"
	"worklog/internal/session"
	appweb "worklog/web"
)

// Options tune the server. Zero values fall back to defaults.
type Options struct {
	Logger             *log.Logger
	RateLimitPerMinute int
}

// Server serves the work log page and its HTMX partials.
type Server struct {
	http.Server
	templates *template.Template
	worklog   *services.WorklogService
	sessions  *session.Manager

	logger *log.Logger
	events *log.StructuredLogger

	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware
	appMetrics       appMetrics

	shutdownOnce sync.Once
}

type appMetrics struct {
	uptime       time.Time
	weeksSaved   int64
	saveFailures int64
	cellEdits    int64
	rowsAdded    int64
	rowsDeleted  int64
}

// NewServer configures routes, middleware and templates, returning a
// ready-to-run server.
func NewServer(addr string, worklog *services.WorklogService, sessions *session.Manager, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		worklog:          worklog,
		sessions:         sessions,
		logger:           logger,
		events:           log.NewStructuredLogger(logger),
		rateLimiter:      ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		securityDetector: security.NewDetector(),
		appMetrics:       appMetrics{uptime: time.Now()},
	}
	s.traceMiddleware = trace.NewMiddleware(s.securityDetector.ExtractClientIP, s.events)

	t, err := template.New("").Funcs(templateFuncs()).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Error("Failed parsing templates", log.FieldError, err)
	} else {
		s.templates = t
	}

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	// Grid mutations
	mux.HandleFunc("POST /entries", s.handleAddEntry)
	mux.HandleFunc("POST /rows", s.handleInsertRow)
	mux.HandleFunc("POST /rows/{id}", s.handleUpdateCell)
	mux.HandleFunc("DELETE /rows/{id}", s.handleDeleteRow)
	mux.HandleFunc("POST /rows/{id}/delete", s.handleDeleteRow)
	mux.HandleFunc("POST /save", s.handleSave)

	// UI partials
	mux.HandleFunc("GET /ui/grid", s.handleGrid)
	mux.HandleFunc("GET /ui/charts", s.handleCharts)
	mux.HandleFunc("GET /ui/existing", s.handleExisting)

	var handler http.Handler = mux
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, s.handleRateLimited)(handler)
	handler = s.securityDetector.Middleware(handler)
	handler = s.traceMiddleware.Middleware(handler)
	handler = log.Middleware(logger)(handler)
	s.Handler = handler

	return s
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WithComponent(log.ComponentRateLimit).WarnContext(r.Context(),
		"Rate limit exceeded",
		log.FieldClientIP, s.securityDetector.ExtractClientIP(r),
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "Too many changes, please slow down.").
		Header("Retry-After", "60").
		TriggerErrorNotification("Too many changes, please slow down.").
		Write(w)
}

// Shutdown stops background routines and then the HTTP server. It is safe to
// call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
