/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the review frontend

ROUTE GROUPS:
  /api/branches/{branchID}/employees/{employeeID}/*   per-key operations
  /api/rows/*                                         row-level edits
  /api/employees/*                                    reference data + overtime
  /api/branches                                       reference data

SECURITY NOTE:
  No authentication middleware. The engine sits behind the back office's
  own gateway.

SEE ALSO:
  - handlers.go: handler implementations
  - cmd/server/main.go: server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Per employee/branch operations
		r.Route("/branches", func(r chi.Router) {
			r.Get("/", h.ListBranches)
			r.Post("/", h.CreateBranch)

			r.Get("/{branchID}/review", h.ListReviewStatuses)

			r.Route("/{branchID}/employees/{employeeID}", func(r chi.Router) {
				r.Put("/schedule", h.SaveScheduleCell)
				r.Get("/schedule", h.ListSchedule)

				r.Post("/reconcile", h.RunReconciliation)
				r.Post("/reconcile/workbook", h.RunReconciliationWorkbook)

				r.Get("/rows", h.ListRows)
				r.Post("/rows", h.AddManualRow)

				r.Get("/review", h.GetReviewStatus)
				r.Put("/review", h.TransitionReview)
			})
		})

		// Row-level edits
		r.Route("/rows", func(r chi.Router) {
			r.Patch("/{id}", h.EditRow)
			r.Post("/{id}/copy-schedule", h.CopyScheduleTime)
			r.Delete("/{id}", h.DeleteRow)
		})

		// Employee reference data and overtime
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)

			r.Post("/{employeeID}/overtime", h.AccumulateOvertime)
			r.Put("/{employeeID}/overtime/seed", h.SupplyOvertimeSeed)
			r.Get("/{employeeID}/overtime", h.ListOvertime)
		})
	})

	return r
}
