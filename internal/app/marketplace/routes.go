// Package marketplace registra las rutas de la aplicación.
package marketplace

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/laseropolis/marketplace-api/internal/http/handlers/auth/login"
	"github.com/laseropolis/marketplace-api/internal/http/handlers/auth/register"
	cartadd "github.com/laseropolis/marketplace-api/internal/http/handlers/cart/add"
	cartlist "github.com/laseropolis/marketplace-api/internal/http/handlers/cart/list"
	cartremove "github.com/laseropolis/marketplace-api/internal/http/handlers/cart/remove"
	catalogcreate "github.com/laseropolis/marketplace-api/internal/http/handlers/catalog/create"
	catalogdownload "github.com/laseropolis/marketplace-api/internal/http/handlers/catalog/download"
	cataloglist "github.com/laseropolis/marketplace-api/internal/http/handlers/catalog/list"
	catalogread "github.com/laseropolis/marketplace-api/internal/http/handlers/catalog/read"
	checkoutpaypal "github.com/laseropolis/marketplace-api/internal/http/handlers/checkout/paypal"
	checkoutpreference "github.com/laseropolis/marketplace-api/internal/http/handlers/checkout/preference"
	creditslist "github.com/laseropolis/marketplace-api/internal/http/handlers/credits/list"
	"github.com/laseropolis/marketplace-api/internal/http/handlers/health"
	membershipplans "github.com/laseropolis/marketplace-api/internal/http/handlers/membership/plans"
	"github.com/laseropolis/marketplace-api/internal/http/middlewarectx"
	"github.com/laseropolis/marketplace-api/internal/paymentprovider/mercadopago"
	authservice "github.com/laseropolis/marketplace-api/internal/services/auth"
	cartservice "github.com/laseropolis/marketplace-api/internal/services/cart"
	catalogservice "github.com/laseropolis/marketplace-api/internal/services/catalog"
	checkoutservice "github.com/laseropolis/marketplace-api/internal/services/checkout"
	referralservice "github.com/laseropolis/marketplace-api/internal/services/referral"
)

// RegisterRoutes registra todas las rutas de la aplicación.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	authService *authservice.AuthService,
	catalogService *catalogservice.Service,
	cartService *cartservice.Service,
	checkoutService *checkoutservice.Service,
	referralService *referralservice.Service,
	mercadopagoClient *mercadopago.Client,
) {
	// Middleware globales
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Rutas abiertas
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)

		// Grupo con autenticación JWT
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/archivos", cataloglist.New(logger, catalogService).ServeHTTP)
			r.Get("/archivos/{id}", catalogread.New(logger, catalogService).ServeHTTP)
			r.Get("/archivos/{id}/descargar", catalogdownload.New(logger, catalogService).ServeHTTP)
			r.Get("/membresias", membershipplans.New(logger, catalogService).ServeHTTP)
			r.Post("/carrito", cartadd.New(logger, catalogService, cartService).ServeHTTP)
			r.Get("/carrito", cartlist.New(logger, cartService).ServeHTTP)
			r.Delete("/carrito/{id}", cartremove.New(logger, cartService).ServeHTTP)
			r.Post("/checkout/paypal", checkoutpaypal.New(logger, checkoutService).ServeHTTP)
			r.Post("/checkout/preference", checkoutpreference.New(logger, mercadopagoClient).ServeHTTP)
			r.Get("/creditos", creditslist.New(logger, referralService).ServeHTTP)

			// Subgrupo reservado a administradores
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminOnlyMiddleware(logger))
				r.Post("/archivos", catalogcreate.New(logger, catalogService).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Documentación Swagger
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
