package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	applog "geosales/internal/log"
	"geosales/internal/middleware/ratelimit"
	"geosales/internal/middleware/security"
	"geosales/internal/middleware/trace"
	"geosales/internal/render"
	"geosales/internal/report"
	appweb "geosales/web"
)

// Pinger reports whether the order store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options tunes the server's middleware.
type Options struct {
	RateLimit      ratelimit.Config
	StaticMaxAge   int
	ReadyTimeout   time.Duration
	TrustedProxies []string
	Logger         *applog.Logger
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		RateLimit:    ratelimit.DefaultConfig(),
		StaticMaxAge: 3600,
		ReadyTimeout: 2 * time.Second,
	}
}

type Server struct {
	http.Server
	templates *template.Template
	reports   *report.Service
	renderer  *render.Renderer
	store     Pinger
	limiter   *ratelimit.Limiter
	detector  *security.Detector
	tracer    *trace.Middleware
	logger    *applog.Logger

	readyTimeout time.Duration
	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, reports *report.Service, renderer *render.Renderer, store Pinger, opts Options) (*Server, error) {
	def := DefaultOptions()
	if opts.ReadyTimeout <= 0 {
		opts.ReadyTimeout = def.ReadyTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = applog.FromContext(context.Background())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	detector := security.NewDetector()
	for _, cidr := range opts.TrustedProxies {
		if err := detector.AddTrustedProxy(cidr); err != nil {
			return nil, err
		}
	}

	s := &Server{
		templates:    t,
		reports:      reports,
		renderer:     renderer,
		store:        store,
		limiter:      ratelimit.NewLimiter(opts.RateLimit),
		detector:     detector,
		tracer:       trace.NewMiddleware(detector.ExtractClientIP, logger),
		logger:       logger,
		readyTimeout: opts.ReadyTimeout,
	}

	mux := http.NewServeMux()

	// Static assets (served from embedded FS)
	sub, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}
	static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
	mux.Handle("/static/", security.StaticAssetMiddleware(opts.StaticMaxAge)(static))

	limited := s.limiter.Middleware(detector.ExtractClientIP, s.handleRateLimited)
	mux.Handle(reportPath, limited(security.NoStore(s.readOnly(s.handleReport))))
	mux.Handle(apiReportPath, limited(security.NoStore(s.readOnly(s.handleAPIReport))))
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.tracer.Middleware(headers.Middleware(s.withDetection(mux))),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// Metrics returns request, rate limit and detection counters.
func (s *Server) Metrics() (trace.Metrics, ratelimit.Metrics, security.DetectionMetrics) {
	return s.tracer.GetMetrics(), s.limiter.GetMetrics(), s.detector.GetMetrics()
}

// withDetection logs suspicious requests. They are still served.
func (s *Server) withDetection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			applog.FromContext(r.Context()).WithComponent(applog.ComponentSecurity).WarnContext(r.Context(),
				"Suspicious request",
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path,
				applog.FieldClientIP, s.detector.ExtractClientIP(r),
				applog.FieldUserAgent, r.Header.Get("User-Agent"))
		}
		next.ServeHTTP(w, r)
	})
}

// readOnly rejects every method but GET and HEAD.
func (s *Server) readOnly(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isReadMethod(r.Method) {
			MethodNotAllowedError(readMethods).Write(w)
			return
		}
		next(w, r)
	})
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WithComponent(applog.ComponentRateLimit).WarnContext(r.Context(),
		"Rate limit exceeded",
		applog.FieldClientIP, s.detector.ExtractClientIP(r),
		applog.FieldPath, r.URL.Path)
	if r.URL.Path == apiReportPath {
		JSONError(http.StatusTooManyRequests, "Rate limit exceeded").Write(w)
		return
	}
	TooManyRequestsError("Rate limit exceeded. Please try again later.").Write(w)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), s.readyTimeout)
		defer cancel()
		if err := s.store.Ping(ctx); err != nil {
			applog.FromContext(r.Context()).WithComponent(applog.ComponentStorage).WarnContext(r.Context(),
				"Readiness check failed", applog.FieldError, err.Error())
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		NotFoundError("Page not found").Write(w)
		return
	}
	if !isReadMethod(r.Method) {
		MethodNotAllowedError(readMethods).Write(w)
		return
	}
	http.Redirect(w, r, reportPath, http.StatusFound)
}
