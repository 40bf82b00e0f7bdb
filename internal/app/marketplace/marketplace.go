// Package marketplace arma la aplicación HTTP principal: almacenamiento,
// migraciones, caché, publicador de eventos, servicios de dominio y el
// servidor con apagado ordenado.
package marketplace

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/laseropolis/marketplace-api/internal/cache"
	"github.com/laseropolis/marketplace-api/internal/config"
	"github.com/laseropolis/marketplace-api/internal/lib/jwt"
	"github.com/laseropolis/marketplace-api/internal/migrations"
	"github.com/laseropolis/marketplace-api/internal/paymentprovider/mercadopago"
	"github.com/laseropolis/marketplace-api/internal/paymentprovider/paypal"
	"github.com/laseropolis/marketplace-api/internal/rabbitmq"
	authservice "github.com/laseropolis/marketplace-api/internal/services/auth"
	cartservice "github.com/laseropolis/marketplace-api/internal/services/cart"
	catalogservice "github.com/laseropolis/marketplace-api/internal/services/catalog"
	checkoutservice "github.com/laseropolis/marketplace-api/internal/services/checkout"
	entitlementservice "github.com/laseropolis/marketplace-api/internal/services/entitlement"
	referralservice "github.com/laseropolis/marketplace-api/internal/services/referral"
	"github.com/laseropolis/marketplace-api/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	var publisher *rabbitmq.Publisher
	conn, err := rabbitmq.Connect(cfg.RabbitMQConnection, 5, 3*time.Second)
	if err != nil {
		// El pipeline de recibos es best-effort: sin broker, el checkout
		// sigue funcionando y solo se pierde el correo.
		logger.Warn("rabbitmq unavailable, payment events disabled", slog.Any("error", err))
	} else {
		ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetPaymentQueues())
		if err != nil {
			return nil, err
		}
		publisher = &rabbitmq.Publisher{Ch: ch}
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	paypalClient := paypal.NewClient(cfg.PayPal.ClientID, cfg.PayPal.Secret, cfg.PayPal.APIURL, cfg.PayPal.Currency)
	mercadopagoClient := mercadopago.NewClient()

	referralSvc := referralservice.New(db, cfg.RewardCredits, logger)
	authSvc := authservice.NewAuthService(db, referralSvc, jwtMaker, logger)
	entitlementSvc := entitlementservice.New(db, logger)
	catalogSvc := catalogservice.New(db, cacheRedis, entitlementSvc, cfg.PublicStorageURL, logger)
	cartSvc := cartservice.New(db, logger)

	var events checkoutservice.EventPublisher
	if publisher != nil {
		events = publisher
	}
	checkoutSvc := checkoutservice.New(db, paypalClient, events, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authSvc, catalogSvc, cartSvc, checkoutSvc, referralSvc, mercadopagoClient)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.db.DB.Close()
		return err
	}
}
