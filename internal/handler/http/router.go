package http

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/httprate"
	"github.com/go-chi/jwtauth/v5"
)

// RouterOptions carries the deployment-specific knobs of the HTTP surface.
type RouterOptions struct {
	AppName             string
	Env                 string
	AllowedOrigins      []string
	AttendancePerMinute int
	LogLevel            slog.Level
}

// Handlers groups the feature handlers mounted under /api/v1.
type Handlers struct {
	Attendance AttendanceHandler
	Leave      LeaveHandler
	Employee   EmployeeHandler
	Settings   SettingsHandler
}

func NewRouter(JWTService jwt.Service, m *metrics.Metrics, opts RouterOptions, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", opts.AppName),
		slog.String("version", "v1.0.0"),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(m.Middleware)
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestSize(maxRequestBodyBytes))
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/attendance", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireEmployee)
					r.Group(func(r chi.Router) {
						r.Use(attendanceRateLimit(opts.AttendancePerMinute))
						r.Post("/check-in", h.Attendance.CheckIn)
						r.Post("/check-out", h.Attendance.CheckOut)
					})
					r.Get("/today", h.Attendance.Today)
					r.Get("/my", h.Attendance.GetMyAttendance)
				})

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Get("/", h.Attendance.List)
					r.Get("/summary", h.Attendance.Summary)
				})
			})

			r.Route("/leave", func(r chi.Router) {
				r.Route("/types", func(r chi.Router) {
					r.Get("/", h.Leave.ListTypes)
					r.Get("/{id}", h.Leave.GetType)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireAdmin)
						r.Post("/", h.Leave.CreateType)
						r.Put("/{id}", h.Leave.UpdateType)
					})
				})

				r.With(middleware.RequireEmployee).Get("/balances/my", h.Leave.MyBalances)

				r.Route("/requests", func(r chi.Router) {
					r.Get("/{id}", h.Leave.Get)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireEmployee)
						r.Post("/", h.Leave.Submit)
						r.Get("/my", h.Leave.MyRequests)
						r.Post("/{id}/cancel", h.Leave.Cancel)
					})

					// Admin only
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireAdmin)
						r.Get("/", h.Leave.List)
						r.Post("/{id}/approve", h.Leave.Approve)
						r.Post("/{id}/reject", h.Leave.Reject)
					})
				})
			})

			r.Route("/employees", func(r chi.Router) {
				r.Get("/me", h.Employee.Me)
				r.With(middleware.RequireEmployee).Post("/me/face", h.Employee.EnrollMyFace)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Get("/", h.Employee.List)
					r.Post("/", h.Employee.Create)
					r.Get("/{id}", h.Employee.Get)
					r.Put("/{id}", h.Employee.Update)
					r.Post("/{id}/deactivate", h.Employee.Deactivate)
					r.Post("/{id}/face", h.Employee.EnrollFace)
				})
			})

			r.Route("/settings/office", func(r chi.Router) {
				r.Get("/", h.Settings.Get)
				r.With(middleware.RequireAdmin).Put("/", h.Settings.Upsert)
			})
		})
	})
	return r
}

// attendanceRateLimit throttles punches per authenticated user, falling back
// to the client IP.
func attendanceRateLimit(perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			if p, ok := middleware.Principal(r.Context()); ok {
				return "user:" + p.UserID, nil
			}
			return httprate.KeyByIP(r)
		}),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			response.TooManyRequests(w, "Too many attendance attempts, try again shortly")
		}),
	)
}
