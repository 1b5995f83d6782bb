package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"philagro/backend/internal/config"
	domain "philagro/backend/internal/domain/auth"
	"philagro/backend/internal/httpserver"
	"philagro/backend/internal/infrastructure/memory"
	"philagro/backend/internal/infrastructure/postgres"
	"philagro/backend/internal/infrastructure/redisstore"
	"philagro/backend/internal/infrastructure/token"
	"philagro/backend/internal/logging"
	"philagro/backend/internal/metrics"
	authusecase "philagro/backend/internal/usecase/auth"
	pricelistusecase "philagro/backend/internal/usecase/pricelist"
	"philagro/backend/internal/usecase/session"
	userusecase "philagro/backend/internal/usecase/user"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const shutdownTimeout = 10 * time.Second

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "philagro",
		Short:         "Philagro backoffice API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply the database schema and exit",
			RunE:  runMigrate,
		},
		newHashPasswordCommand(),
	)
	return root
}

func newHashPasswordCommand() *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for seeding user profiles",
		Long: `Print a bcrypt hash of a password.

The password is read from the first argument, or from stdin when omitted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHashPassword(cmd, args, cost)
		},
	}
	cmd.Flags().IntVar(&cost, "cost", authusecase.DefaultBcryptCost, "bcrypt work factor")
	return cmd
}

// bootstrap loads configuration and builds the logger shared by every command.
func bootstrap() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

func openDatabase(ctx context.Context, cfg config.Config) (*postgres.Database, error) {
	db, err := postgres.New(ctx, cfg.DatabaseURL, postgres.PoolOptions{MaxConns: int32(cfg.DBMaxConns)})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

// openSessionBackend returns the key-value store holding browser sessions and
// a function releasing it.
func openSessionBackend(ctx context.Context, cfg config.Config) (domain.KeyValueStore, func(), error) {
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		kv, err := redisstore.New(ctx, cfg.RedisURL, "philagro:", cfg.SessionTTL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		return kv, func() { _ = kv.Close() }, nil
	default:
		return memory.NewKeyValueStore(memory.WithTTL(cfg.SessionTTL)), func() {}, nil
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("run database migrations: %w", err)
	}

	kv, closeKV, err := openSessionBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeKV()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	users := postgres.NewUserRepository(db.Pool)
	tokens := token.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL, cfg.JWTIssuer)
	authService, err := authusecase.NewService(users, tokens, logger.Named("auth"),
		authusecase.WithBcryptCost(cfg.BcryptCost),
		authusecase.WithMetrics(m),
	)
	if err != nil {
		return err
	}

	sessions := session.NewManager(kv)
	server := httpserver.NewServer(cfg, httpserver.Dependencies{
		Auth:     authService,
		Users:    userusecase.NewService(users, authService, userusecase.WithSessionRevoker(sessions)),
		Prices:   pricelistusecase.NewService(postgres.NewPriceRepository(db.Pool)),
		Sessions: sessions,
		Metrics:  m,
		Gatherer: registry,
		Health:   db.Ping,
	}, logger.Named("http"))

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening",
			zap.String("addr", server.Addr()),
			zap.String("environment", cfg.Environment),
			zap.String("session_backend", cfg.SessionBackend))
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	logger.Info("graceful shutdown completed")
	return nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	db, err := openDatabase(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(cmd.Context()); err != nil {
		return fmt.Errorf("run database migrations: %w", err)
	}
	logger.Info("database schema applied")
	return nil
}

func runHashPassword(cmd *cobra.Command, args []string, cost int) error {
	if cost < config.MinBcryptCost || cost > config.MaxBcryptCost {
		return fmt.Errorf("cost must be between %d and %d", config.MinBcryptCost, config.MaxBcryptCost)
	}

	var password string
	if len(args) == 1 {
		password = args[0]
	} else {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if password == "" {
		return errors.New("password is required")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(hashed))
	return nil
}
