package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/payroll-engine-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	jwtService jwt.Service,
	payRunHandler PayRunHandler,
	loanHandler LoanHandler,
	advanceHandler AdvanceHandler,
	rateHandler RateHandler,
	employeeHandler EmployeeHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-engine"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/payruns", func(r chi.Router) {
				r.Post("/", payRunHandler.Generate)
				r.Get("/", payRunHandler.List)
				r.Get("/period", payRunHandler.GetByPeriod)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", payRunHandler.Get)
					r.Get("/register", payRunHandler.Register)
					r.Post("/approve", payRunHandler.Approve)
					r.Post("/process", payRunHandler.Process)
					r.Post("/cancel", payRunHandler.Cancel)
				})
			})

			r.Route("/loans", func(r chi.Router) {
				r.Post("/", loanHandler.Create)
				r.Get("/{id}", loanHandler.Get)
				r.Post("/{id}/cancel", loanHandler.Cancel)
			})

			r.Route("/advances", func(r chi.Router) {
				r.Post("/", advanceHandler.Create)
				r.Get("/{id}", advanceHandler.Get)
			})

			r.Route("/employees/{employeeID}", func(r chi.Router) {
				r.Get("/loans", loanHandler.ListByEmployee)
				r.Get("/advances", advanceHandler.ListByEmployee)
				r.Put("/salary-structure", employeeHandler.SetSalaryStructure)
			})

			r.Route("/rates", func(r chi.Router) {
				r.Post("/", rateHandler.Create)
				r.Get("/", rateHandler.List)
				r.Get("/effective", rateHandler.GetEffective)
			})
		})
	})

	return r
}
