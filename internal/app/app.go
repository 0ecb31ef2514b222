package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nxtrix/account-service/internal/config"
	"github.com/nxtrix/account-service/internal/handler"
	"github.com/nxtrix/account-service/internal/payment"
	"github.com/nxtrix/account-service/internal/repository"
	"github.com/nxtrix/account-service/internal/service"
	"github.com/nxtrix/account-service/internal/utils"
	"github.com/nxtrix/account-service/pkg/observability"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	infra  Infrastructure
	config *config.Config
	router *gin.Engine
	server *http.Server
}

func NewApp(infra Infrastructure, cfg *config.Config) *App {
	repos := repository.NewRepositories(infra.Postgres())

	tokenManager := utils.NewSessionTokenManager(
		cfg.Session.Secret,
		cfg.Session.TTL.Duration,
	)

	revocationCache := service.NewSessionRevocationCache(infra.Redis())
	rateLimiter := service.NewRateLimiter(infra.Redis())
	healthChecker := NewHealthChecker(infra)

	authService := service.NewAuthService(
		repos.User,
		repos.Session,
		tokenManager,
		revocationCache,
		infra.Logger(),
		cfg.Security.BCryptCost,
		cfg.Billing.TrialLength.Duration,
	)

	subscriptionService := service.NewSubscriptionService(
		repos.Subscription,
		newPaymentProcessor(cfg.Payment),
		cfg.Billing.TrialLength.Duration,
	)

	accessService := service.NewAccessService(authService, subscriptionService)

	authHandler := handler.NewAuthHandler(authService)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService, accessService)

	router := gin.Default()
	router.Use(otelgin.Middleware("account-service"))
	router.Use(handler.LoggerMiddleware(infra.Logger()))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))

	setupRoutes(router, cfg, authHandler, subscriptionHandler, authService, accessService, rateLimiter, healthChecker, infra.MetricsHandler())

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	return &App{
		infra:  infra,
		config: cfg,
		router: router,
		server: srv,
	}
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func newPaymentProcessor(cfg config.PaymentConfig) payment.Processor {
	if cfg.Mode == "live" {
		return payment.NewClient(cfg.ShopID, cfg.SecretKey, cfg.APIURL)
	}
	return payment.NewSandbox()
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	subscriptionHandler *handler.SubscriptionHandler,
	authService service.AuthService,
	accessService service.AccessService,
	rateLimiter *service.RateLimiter,
	healthChecker *HealthChecker,
	metricsHandler http.Handler,
) {
	router.GET("/metrics", observability.PrometheusHandler(metricsHandler))
	router.GET("/health", healthChecker.Handler)

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register",
				handler.RateLimitMiddleware(rateLimiter, cfg.Security.RateLimitRequests, cfg.Security.RateLimitWindow.Duration, handler.IPBasedKey),
				authHandler.Register,
			)
			auth.POST("/login",
				handler.RateLimitMiddleware(rateLimiter, cfg.Security.RateLimitRequests, cfg.Security.RateLimitWindow.Duration, handler.IPBasedKey),
				authHandler.Login,
			)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", handler.AuthMiddleware(authService), authHandler.GetMe)
		}

		// Subscription state stays reachable with an expired trial so the
		// upgrade flow can run; only the session is required.
		authenticated := api.Group("", handler.AuthMiddleware(authService))
		{
			authenticated.GET("/access", subscriptionHandler.CheckAccess)
			authenticated.GET("/subscription", subscriptionHandler.GetSubscription)
			authenticated.POST("/subscription/upgrade", subscriptionHandler.Upgrade)
			authenticated.POST("/subscription/cancel", subscriptionHandler.Cancel)
		}

		// Every protected feature sits behind the access gate.
		gated := api.Group("", handler.AccessGateMiddleware(accessService))
		{
			gated.GET("/features", subscriptionHandler.Features)
		}
	}
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		a.infra.Logger().Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.infra.Logger().Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		a.infra.Logger().Error("Application failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		a.infra.Logger().Info("Application stopped by context")
	}

	if err := a.Shutdown(); err != nil {
		a.infra.Logger().Error("Shutdown error", zap.Error(err))
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}

func (a *App) Shutdown() error {
	a.infra.Logger().Info("Application shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	errs := make(chan error, 2)

	go func() {
		errs <- a.server.Shutdown(ctx)
	}()

	go func() {
		errs <- a.infra.Shutdown(ctx)
	}()

	err := errors.Join(<-errs, <-errs)
	if err != nil {
		a.infra.Logger().Error("Shutdown failed", zap.Error(err))
		return err
	}

	a.infra.Logger().Info("Application exited successfully")
	return nil
}
