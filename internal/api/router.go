package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterConfig contains every dependency NewRouter needs. It carries no
// behavior of its own so the router stays constructible in tests without
// opening a listener or starting a goroutine.
type RouterConfig struct {
	// State serves the debug/health endpoints (required).
	State StateProvider

	// Hub serves /ws upgrades (required in production; may be nil in tests
	// that only exercise the HTTP surface).
	Hub *WebSocketHub

	// RateLimiter is an optional pre-configured limiter; if nil one is
	// built from RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig configures a freshly built RateLimiter; ignored if
	// RateLimiter is set.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins overrides the allowed origins; nil uses the package
	// default (localhost only).
	CORSOrigins []string

	// DisableLogging turns off the request logger middleware, useful for
	// benchmark and load-test runs.
	DisableLogging bool
}

// NewRouter builds the HTTP router. It is pure: no goroutines started, no
// listeners opened, safe to hand to httptest.NewServer.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		limitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			limitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(limitCfg)
	}
	r.Use(rateLimiter.Middleware)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = AllowedOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	h := &routerHandlers{state: cfg.State}

	r.Get("/healthz", h.handleHealthz)
	r.Route("/api", func(r chi.Router) {
		r.Get("/debug/state", h.handleDebugState)
	})

	if cfg.Hub != nil {
		r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
			cfg.Hub.HandleWebSocket(w, req)
		})
	}

	return r
}
