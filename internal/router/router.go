// Package router wires handlers, guards and middleware into one http.Handler.
package router

import (
	"net/http"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"sport-shop/internal/auth"
	"sport-shop/internal/handler"
	"sport-shop/internal/middleware"
	"sport-shop/internal/model"
	"sport-shop/internal/telemetry"
)

// Handlers groups every HTTP handler served by the API.
type Handlers struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Product  *handler.ProductHandler
	Customer *handler.CustomerHandler
	Order    *handler.OrderHandler
	Delivery *handler.DeliveryHandler
	Payment  *handler.PaymentHandler
}

// Options configures cross-cutting behaviour.
type Options struct {
	Tokens             *auth.TokenManager
	Metrics            *telemetry.Metrics
	CORSAllowedOrigins []string

	// Tracing wraps the server in otelhttp and tags spans with the route.
	Tracing     bool
	ServiceName string
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	handle := func(pattern string, fn http.HandlerFunc, guards ...func(http.Handler) http.Handler) {
		var next http.Handler = fn
		if opts.Tracing {
			next = telemetry.WithHTTPRoute(next)
		}
		mux.Handle(pattern, middleware.Chain(next, guards...))
	}

	user := middleware.RequireRole(model.RoleUser, model.RoleAdmin)
	admin := middleware.RequireRole(model.RoleAdmin)

	handle("GET /health", h.Health.Health)
	if opts.Metrics != nil {
		mux.Handle("GET /metrics", opts.Metrics.Handler())
	}

	handle("POST /auth/register", h.Auth.Register)
	handle("POST /auth/login", h.Auth.Login)
	handle("GET /auth/check", h.Auth.Check)

	handle("GET /products", h.Product.GetAll)
	handle("GET /products/{id}", h.Product.GetByID)
	handle("POST /products", h.Product.Create, admin)
	handle("PUT /products/{id}", h.Product.Update, admin)
	handle("DELETE /products/{id}", h.Product.Delete, admin)

	handle("GET /customers", h.Customer.GetAll)
	handle("GET /customers/check", h.Customer.Check, user)
	handle("GET /customers/{id}", h.Customer.GetByID, user)
	handle("POST /customers", h.Customer.Create, user)
	handle("PUT /customers/{id}", h.Customer.Update, user)
	handle("DELETE /customers/{id}", h.Customer.Delete, admin)

	handle("GET /orders", h.Order.GetAll, user)
	handle("GET /orders/my", h.Order.GetMine, user)
	handle("GET /orders/{id}", h.Order.GetByID, user)
	handle("POST /orders", h.Order.Create, user)
	handle("PUT /orders/{id}", h.Order.UpdateStatus, admin)
	handle("DELETE /orders/{id}", h.Order.Delete, admin)

	handle("GET /delivery/methods", h.Delivery.Methods, user)
	handle("GET /delivery/methods/ids", h.Delivery.MethodIDs, user)
	handle("GET /delivery/cost", h.Delivery.Cost, user)
	handle("GET /delivery/cost/by-id", h.Delivery.CostByID, user)
	handle("GET /delivery/time", h.Delivery.Time, user)
	handle("GET /delivery/time/by-id", h.Delivery.TimeByID, user)
	handle("GET /delivery/available", h.Delivery.Available, user)
	handle("GET /delivery/available/by-id", h.Delivery.AvailableByID, user)

	handle("GET /payments/methods", h.Payment.Methods, user)
	handle("GET /payments/methods/ids", h.Payment.MethodIDs, user)
	handle("POST /payments/process", h.Payment.Process, user)
	handle("POST /payments/process/by-id", h.Payment.ProcessByID, user)

	// Apply middleware, outermost first. Metrics must sit directly on the mux.
	chain := []func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Logging(logger),
		middleware.CORS(opts.CORSAllowedOrigins),
		middleware.Authenticate(opts.Tokens, logger),
	}
	if opts.Metrics != nil {
		chain = append(chain, middleware.Metrics(opts.Metrics.HTTPRequests, opts.Metrics.HTTPDuration))
	}

	srv := middleware.Chain(mux, chain...)

	if opts.Tracing {
		srv = otelhttp.NewHandler(srv, opts.ServiceName,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	}

	return srv
}
