package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Handlers struct {
	Forms     *FormHandler
	Responses *ResponseHandler
	Auth      *AuthHandler
	Users     *UserHandler
	// RequireAuth guards owner-only routes.
	RequireAuth func(http.Handler) http.Handler
}

type RouterOptions struct {
	AllowedOrigins []string
	RateLimit      int
	RateWindow     time.Duration
	Metrics        *Metrics
	Logger         *zap.Logger
}

func NewHandler(h Handlers, opts RouterOptions) http.Handler {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = NewMetrics()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(CORS(opts.AllowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("welcome"))
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.Refresh)
			r.Post("/logout", h.Auth.Logout)
		})

		r.With(h.RequireAuth).Get("/users/me", h.Users.GetMe)

		r.Route("/forms", func(r chi.Router) {
			r.Get("/public/{id}", h.Forms.GetPublicForm)

			r.Group(func(r chi.Router) {
				r.Use(h.RequireAuth)
				r.Post("/", h.Forms.CreateForm)
				r.Get("/analytics/{id}", h.Forms.GetAnalytics)
				r.Get("/{id}", h.Forms.GetForm)
				r.Put("/{id}", h.Forms.UpdateForm)
				r.Get("/{id}/responses", h.Responses.ListResponses)
				r.Get("/{id}/responses.csv", h.Responses.ExportCSV)
			})
		})

		submit := http.HandlerFunc(h.Responses.SubmitResponse)
		if opts.RateLimit > 0 && opts.RateWindow > 0 {
			r.Method(http.MethodPost, "/responses", NewRateLimiter(opts.RateLimit, opts.RateWindow).Middleware(submit))
		} else {
			r.Method(http.MethodPost, "/responses", submit)
		}
	})

	return r
}
