package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"workorders/internal/action"
	"workorders/internal/api"
	"workorders/internal/auth"
	"workorders/internal/document"
	"workorders/internal/finding"
	"workorders/internal/notification"
	"workorders/internal/report"
	"workorders/internal/sparepart"
	"workorders/internal/technician"
	"workorders/internal/user"
	"workorders/internal/workorder"
	"workorders/pkg/config"
	"workorders/pkg/db"
)

type Dependencies struct {
	Cfg       config.Config
	DB        db.Pool
	Documents *document.Store
}

func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	usersRepo := user.NewRepository(deps.DB)
	authHandlers := auth.Handlers{Cfg: deps.Cfg, Users: usersRepo}

	ordersRepo := workorder.NewRepository(deps.DB)
	findingsRepo := finding.NewRepository(deps.DB)
	actionsRepo := action.NewRepository(deps.DB)
	sparePartsRepo := sparepart.NewRepository(deps.DB)
	techniciansRepo := technician.NewRepository(deps.DB)
	notificationsRepo := notification.NewRepository(deps.DB)

	orderHandlers := workorder.Handlers{
		DB:         deps.DB,
		Orders:     ordersRepo,
		Lifecycle:  workorder.NewManager(deps.DB),
		Findings:   findingsRepo,
		Actions:    actionsRepo,
		SpareParts: sparePartsRepo,
	}
	findingHandlers := finding.Handlers{DB: deps.DB, Repo: findingsRepo}
	actionHandlers := action.Handlers{DB: deps.DB, Repo: actionsRepo}
	sparePartHandlers := sparepart.Handlers{DB: deps.DB, Repo: sparePartsRepo}
	technicianHandlers := technician.Handlers{Repo: techniciansRepo}
	notificationHandlers := notification.Handlers{Repo: notificationsRepo}
	documentHandlers := document.Handlers{DB: deps.DB, Store: deps.Documents}
	reportHandlers := report.Handlers{Gen: report.NewGenerator(deps.DB)}

	r.Route("/v1", func(r chi.Router) {
		r.Use(api.CORSMiddleware(api.CORSOptions{
			AllowedOrigins: deps.Cfg.DashboardAllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
			MaxAgeSeconds:  600,
		}))

		r.Post("/auth/register", authHandlers.Register)
		r.Post("/auth/login", authHandlers.Login)

		// Everything below requires a caller identity.
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(deps.Cfg, usersRepo))

			r.Get("/auth/me", authHandlers.Me)

			r.Route("/work-orders", func(r chi.Router) {
				r.Get("/", orderHandlers.List)
				r.Post("/", orderHandlers.Create)
				r.Get("/stats", orderHandlers.Stats)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", orderHandlers.Get)
					r.Patch("/", orderHandlers.Update)

					r.Post("/approve", orderHandlers.Transition(workorder.EventApprove))
					r.Post("/reject", orderHandlers.Transition(workorder.EventReject))
					r.Post("/resubmit", orderHandlers.Transition(workorder.EventResubmit))
					r.Post("/request-completion", orderHandlers.Transition(workorder.EventRequestCompletion))
					r.Post("/approve-completion", orderHandlers.Transition(workorder.EventApproveCompletion))
					r.Post("/reject-completion", orderHandlers.Transition(workorder.EventRejectCompletion))

					r.Get("/findings", findingHandlers.List)
					r.Post("/findings", findingHandlers.Create)
					r.Delete("/findings/{findingID}", findingHandlers.Delete)

					r.Get("/actions", actionHandlers.List)
					r.Post("/actions", actionHandlers.Create)
					r.Delete("/actions/{actionID}", actionHandlers.Delete)

					r.Get("/spare-parts", sparePartHandlers.List)
					r.Post("/spare-parts", sparePartHandlers.Create)
					r.Delete("/spare-parts/{partID}", sparePartHandlers.Delete)

					r.Post("/document", documentHandlers.Upload)
					r.Get("/document", documentHandlers.Download)
					r.Delete("/document", documentHandlers.Delete)
				})
			})

			r.Route("/actions/{actionID}/technicians", func(r chi.Router) {
				r.Get("/", technicianHandlers.ListByAction)
				r.Post("/", technicianHandlers.Assign)
				r.Delete("/{technicianID}", technicianHandlers.Unassign)
			})

			r.Get("/technicians", technicianHandlers.List)
			r.With(auth.RequireRole(user.RoleAdmin)).Post("/technicians", technicianHandlers.Create)

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandlers.List)
				r.Get("/unread-count", notificationHandlers.UnreadCount)
				r.Post("/{id}/read", notificationHandlers.MarkRead)
				r.Post("/read-all", notificationHandlers.MarkAllRead)
			})

			// Admin reporting surface.
			r.Route("/reports", func(r chi.Router) {
				r.Use(auth.RequireRole(user.RoleAdmin))
				r.Get("/progress", reportHandlers.Progress)
				r.Get("/technicians", reportHandlers.Technicians)
			})
		})
	})

	return r
}
