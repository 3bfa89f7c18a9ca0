package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	tokens "github.com/teejohn247/eth-project-backend-sub001/internal/auth"
	"github.com/teejohn247/eth-project-backend-sub001/internal/config"
	"github.com/teejohn247/eth-project-backend-sub001/internal/geodata"
	"github.com/teejohn247/eth-project-backend-sub001/internal/mailer"
	"github.com/teejohn247/eth-project-backend-sub001/internal/media"
	gateway "github.com/teejohn247/eth-project-backend-sub001/internal/payment"
	"github.com/teejohn247/eth-project-backend-sub001/internal/postgres"
	redisx "github.com/teejohn247/eth-project-backend-sub001/internal/redis"
	postgresrepo "github.com/teejohn247/eth-project-backend-sub001/internal/repository/postgres"
	redisrepo "github.com/teejohn247/eth-project-backend-sub001/internal/repository/redis"
	"github.com/teejohn247/eth-project-backend-sub001/internal/service"
	"github.com/teejohn247/eth-project-backend-sub001/internal/service/payment"
	httpgin "github.com/teejohn247/eth-project-backend-sub001/internal/transport/http/gin"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.Name,
		cfg.Postgres.SSLMode,
	)

	pgxPool, err := postgres.New(context.Background(), postgres.Config{DSN: dsn})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	rdb, err := redisx.New(context.Background(), redisx.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	// repositories
	store := postgresrepo.NewStore(pgxPool)
	cache := redisrepo.New(rdb)
	pubsub := redisx.NewContestantsPubSub(rdb)
	voteLimiter := redisrepo.NewSlidingWindowLimiter(rdb, "vote", 10, 1*time.Minute)
	otpStore := redisrepo.NewOTPStore(rdb, 10*time.Minute)
	idemStore := redisrepo.NewIdempotencyStore(rdb, 2*time.Hour)

	// external collaborators
	tokenManager := tokens.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL, cfg.JWT.Issuer)
	mail := mailer.New(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		FromName: cfg.SMTP.FromName,
	}, logger)
	gatewayClient := gateway.NewClient(gateway.Config{
		BaseURL:      cfg.Payment.BaseURL,
		MerchantCode: cfg.Payment.MerchantCode,
		Secret:       cfg.Payment.Secret,
		ReturnURL:    cfg.Payment.ReturnURL,
	})
	mediaClient := media.NewClient(media.Config{
		BaseURL: cfg.Media.BaseURL,
		APIKey:  cfg.Media.APIKey,
	})
	geoClient := geodata.NewClient(cfg.Geodata.BaseURL, 10*time.Second)

	// services
	services := service.NewServices(
		store,
		cache,
		pubsub,
		voteLimiter,
		otpStore,
		idemStore,
		mail,
		tokenManager,
		gatewayClient,
		mediaClient,
		geoClient,
		service.Config{
			Payment: payment.Config{
				WebhookSecret: cfg.Payment.WebhookSecret,
			},
		},
	)

	router := httpgin.NewRouter(services, tokenManager, logger, cfg.Production())

	return &App{
		cfg:    cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		},
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	return g.Wait()
}
