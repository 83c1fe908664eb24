package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/grupomivyca/mivyca-backend/internal/access"
	"github.com/grupomivyca/mivyca-backend/internal/auth"
	"github.com/grupomivyca/mivyca-backend/internal/company"
	"github.com/grupomivyca/mivyca-backend/internal/fleet"
	"github.com/grupomivyca/mivyca-backend/internal/inventory"
	"github.com/grupomivyca/mivyca-backend/internal/orders"
	"github.com/grupomivyca/mivyca-backend/internal/transport"
	"github.com/grupomivyca/mivyca-backend/internal/transport/middleware"
	"github.com/grupomivyca/mivyca-backend/internal/transport/swagger"
	"github.com/grupomivyca/mivyca-backend/internal/user"
)

// Handlers bundles every module handler the router mounts.
type Handlers struct {
	Auth      *auth.Handler
	User      *user.Handler
	Company   *company.Handler
	Access    *access.Handler
	Inventory *inventory.Handler
	Fleet     *fleet.Handler
	Orders    *orders.Handler
}

// RouterConfig carries the transport settings the router needs.
type RouterConfig struct {
	AllowedOrigins string
	MetricsEnabled bool
	MetricsPath    string
}

// RegisterAllRoutes mounts the full API surface. Tenant-scoped modules live
// under /companies/{companyId}/... so the company guard can match the path
// segment against the token claim.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, cfg RouterConfig, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)
	base := transport.NewBaseHandler(logger)

	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.TraceID)
	router.Use(middleware.Recover(logger))
	router.Use(middleware.RequestLogger(logger))
	if cfg.MetricsEnabled {
		router.Use(middleware.MetricsMiddleware)
	}

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	if cfg.MetricsEnabled {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.Handle(path, promhttp.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.ready)
		r.Get("/ping", healthHandler.live)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/register", h.Auth.Register)
			sr.Post("/refresh", h.Auth.RefreshToken)
		})

		// The login page needs the company catalog before any token exists.
		r.Get("/companies", h.Company.ListCompanies)
		r.Get("/companies/slug/{slug}", h.Company.GetCompanyBySlug)

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)
			pr.Use(auth.CompanyGuard(base))

			pr.Get("/auth/profile", h.Auth.Profile)

			pr.Route("/users", func(ur chi.Router) {
				ur.Post("/", h.User.CreateUser)
				ur.Get("/", h.User.ListUsers)
				ur.Get("/{id}", h.User.GetUser)
				ur.Patch("/{id}", h.User.UpdateUser)
				ur.Delete("/{id}", h.User.DeleteUser)

				ur.Post("/{id}/company-access", h.Access.Grant)
				ur.Get("/{id}/companies", h.Access.ListForUser)
				ur.Get("/{id}/company/{companyId}/role", h.Access.RoleInCompany)
				ur.Patch("/{id}/company/{companyId}/role", h.Access.ChangeRole)
				ur.Delete("/{id}/company/{companyId}/access", h.Access.Revoke)
				ur.Get("/{id}/has-access/{companyId}", h.Access.CheckAccess)
			})

			pr.Route("/companies", func(cr chi.Router) {
				cr.Post("/", h.Company.CreateCompany)

				cr.Route("/{companyId}", func(tr chi.Router) {
					tr.Get("/", h.Company.GetCompany)
					tr.Patch("/", h.Company.UpdateCompany)
					tr.Delete("/", h.Company.DeleteCompany)
					tr.Get("/stats", h.Company.CompanyStats)
					tr.Get("/access", h.Access.ListForCompany)
					tr.Get("/users", h.User.ListUsersByCompany)

					tr.Route("/inventory", func(ir chi.Router) {
						ir.Post("/", h.Inventory.CreateProduct)
						ir.Get("/", h.Inventory.ListProducts)
						ir.Get("/stats", h.Inventory.InventoryStats)
						ir.Get("/low-stock", h.Inventory.LowStockProducts)
						ir.Get("/{id}", h.Inventory.GetProduct)
						ir.Patch("/{id}", h.Inventory.UpdateProduct)
						ir.Patch("/{id}/stock", h.Inventory.UpdateStock)
						ir.Delete("/{id}", h.Inventory.DeleteProduct)
					})

					tr.Route("/vehicles", func(vr chi.Router) {
						vr.Post("/", h.Fleet.CreateVehicle)
						vr.Get("/", h.Fleet.ListVehicles)
						vr.Get("/stats", h.Fleet.FleetStats)
						vr.Get("/{id}", h.Fleet.GetVehicle)
						vr.Patch("/{id}", h.Fleet.UpdateVehicle)
						vr.Delete("/{id}", h.Fleet.DeleteVehicle)
					})

					tr.Route("/orders", func(or chi.Router) {
						or.Post("/", h.Orders.CreateOrder)
						or.Get("/", h.Orders.ListOrders)
						or.Get("/stats", h.Orders.OrderStats)
						or.Get("/{id}", h.Orders.GetOrder)
						or.Patch("/{id}", h.Orders.UpdateOrder)
						or.Patch("/{id}/status", h.Orders.UpdateStatus)
						or.Delete("/{id}", h.Orders.DeleteOrder)
					})
				})
			})
		})
	})
}
