package router

import (
	"net/http"

	"github.com/RoyceAzure/lab/cafe_erp/internal/api"
	m "github.com/RoyceAzure/lab/cafe_erp/internal/api/middleware"
	"github.com/RoyceAzure/lab/cafe_erp/internal/api/response"
	"github.com/RoyceAzure/lab/cafe_erp/internal/pkg/ratelimit"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Limiters 為 nil 時不限流
type Limiters struct {
	API    ratelimit.Limiter
	Advice ratelimit.Limiter
}

func SetupRouter(server *api.Server, limiters Limiters, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// 全局中間件
	r.Use(m.RequestIdMiddleware)
	r.Use(middleware.RealIP)
	r.Use(m.LoggerMiddleware(logger))
	r.Use(m.RecoverMiddleware(logger))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.ErrorJSON(w, http.StatusNotFound, response.CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.ErrorJSON(w, http.StatusMethodNotAllowed, response.CodeBadRequest, "method not allowed")
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		response.SuccessJSON(w, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		if limiters.API != nil {
			r.Use(m.RateLimitMiddleware(limiters.API, logger))
		}

		r.Route("/products", func(r chi.Router) {
			r.Get("/", server.ProductHandler.List)
			r.Post("/", server.ProductHandler.Save)
			r.Get("/low-stock", server.ProductHandler.LowStock)
			r.Get("/{id}", server.ProductHandler.Get)
			r.Get("/{id}/stock", server.ProductHandler.Stock)
			r.Delete("/{id}", server.ProductHandler.Delete)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", server.OrderHandler.List)
			r.Post("/", server.OrderHandler.Complete)
			r.Get("/{id}", server.OrderHandler.Get)
			r.Put("/{id}/cancel", server.OrderHandler.Cancel)
			r.Get("/{id}/receipt", server.OrderHandler.Receipt)
		})

		r.Route("/carts/{terminal}", func(r chi.Router) {
			r.Get("/", server.CartHandler.Get)
			r.Delete("/", server.CartHandler.Clear)
			r.Post("/items", server.CartHandler.AddItem)
			r.Patch("/items/{productID}", server.CartHandler.UpdateQuantity)
			r.Delete("/items/{productID}", server.CartHandler.RemoveItem)
			r.Post("/checkout", server.CartHandler.Checkout)
		})

		r.Route("/staff", func(r chi.Router) {
			r.Get("/", server.StaffHandler.List)
			r.Post("/", server.StaffHandler.Save)
			r.Get("/active", server.StaffHandler.Active)
			r.Put("/{id}/toggle", server.StaffHandler.ToggleClock)
		})

		r.Get("/config", server.ConfigHandler.Get)
		r.Put("/config", server.ConfigHandler.Save)

		r.Get("/reports/sales", server.ReportHandler.Sales)
		r.Get("/reports/dashboard", server.ReportHandler.Dashboard)

		r.Route("/advice", func(r chi.Router) {
			if limiters.Advice != nil {
				r.Use(m.RateLimitMiddleware(limiters.Advice, logger))
			}
			r.Get("/insights", server.AdviceHandler.Insights)
			r.Get("/menu", server.AdviceHandler.MenuSuggestions)
		})
	})

	return r
}

// Routes 列出所有路由, 啟動時印出
func Routes(r chi.Routes) []string {
	var routes []string
	_ = chi.Walk(r, func(method string, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
		routes = append(routes, method+" "+route)
		return nil
	})
	return routes
}
