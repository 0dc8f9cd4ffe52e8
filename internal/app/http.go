package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/Chat-Global/accounts-service/internal/auth"
	"github.com/Chat-Global/accounts-service/internal/auth/handler"
	"github.com/Chat-Global/accounts-service/internal/captcha"
	"github.com/Chat-Global/accounts-service/internal/config"
	"github.com/Chat-Global/accounts-service/internal/identity"
	"github.com/Chat-Global/accounts-service/internal/identity/federated"
	"github.com/Chat-Global/accounts-service/internal/identity/federated/oidc"
	"github.com/Chat-Global/accounts-service/internal/identity/local"
	"github.com/Chat-Global/accounts-service/internal/middleware"
	"github.com/Chat-Global/accounts-service/internal/snowflake"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	backend, err := setupBackend(ctx, cfg, infra)
	if err != nil {
		return nil, nil, err
	}

	verifier := captcha.NewHTTPVerifier(
		cfg.CaptchaSecret,
		cfg.CaptchaVerifyURL,
		cfg.CaptchaTimeout,
	)

	coordinator := auth.NewCoordinator(verifier, backend, cfg.RedirectPath)

	authHandler := handler.NewHandler(coordinator)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())

	authHandler.RegisterRoutes(router)

	router.GET("/", func(c *gin.Context) {
		c.String(200, "200: OK")
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		return infra.close(context.Background())
	}, nil
}

func setupBackend(ctx context.Context, cfg config.Config, infra *Infra) (identity.Backend, error) {
	switch cfg.Backend {
	case config.BackendLocal:
		var store local.UserStore
		switch cfg.LocalDriver {
		case config.DriverPostgres:
			store = local.NewPostgresStore(infra.SQL)
		case config.DriverMongo:
			mongoStore := local.NewMongoStore(infra.Mongo.Database(cfg.MongoDatabase))
			if err := mongoStore.EnsureIndexes(ctx); err != nil {
				return nil, err
			}
			store = mongoStore
		default:
			return nil, fmt.Errorf("unknown local store driver %q", cfg.LocalDriver)
		}
		return local.NewBackend(store, snowflake.NewGenerator(cfg.MachineID)), nil

	case config.BackendFederated:
		provider, err := oidc.New(
			ctx,
			cfg.ProviderIssuer,
			cfg.ProviderClientID,
			cfg.ProviderClientSecret,
			cfg.ProviderAdminBaseURL,
		)
		if err != nil {
			return nil, err
		}

		var tokens federated.TokenStore
		if infra.Redis != nil {
			tokens = federated.NewRedisStore(infra.Redis.Client)
		} else {
			tokens = federated.NewMemoryStore()
		}
		return federated.NewBackend(provider, tokens, cfg.SessionTTL), nil

	default:
		return nil, fmt.Errorf("unknown identity backend %q", cfg.Backend)
	}
}
