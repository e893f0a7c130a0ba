// Package app wires configuration, stores, services and the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/peoplehub/hrms-api/internal/api"
	"github.com/peoplehub/hrms-api/internal/api/handler"
	"github.com/peoplehub/hrms-api/internal/core/ports"
	"github.com/peoplehub/hrms-api/internal/core/routeauth"
	"github.com/peoplehub/hrms-api/internal/core/service"
	"github.com/peoplehub/hrms-api/internal/infrastructure/config"
	"github.com/peoplehub/hrms-api/internal/infrastructure/db/memory"
	mongostore "github.com/peoplehub/hrms-api/internal/infrastructure/db/mongo"
	pgstore "github.com/peoplehub/hrms-api/internal/infrastructure/db/postgres"
	redisstore "github.com/peoplehub/hrms-api/internal/infrastructure/db/redis"
	"github.com/peoplehub/hrms-api/internal/infrastructure/queue"
	"github.com/peoplehub/hrms-api/internal/pkg/password"
	"github.com/peoplehub/hrms-api/internal/pkg/token"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	cfg    *config.Config
	log    zerolog.Logger
	server *echo.Echo
	audit  *queue.AuditDispatcher
	users  *service.UserService

	closers []func(context.Context) error
}

// stores groups the persistence adapters selected by STORE_DRIVER.
type stores struct {
	users     ports.UserRepository
	audit     ports.AuditRepository
	readiness map[string]handler.Pinger
	closers   []func(context.Context) error
}

// New builds the application. Callers must Run or Close it.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a := &App{cfg: cfg, log: log, closers: st.closers}

	fail := func(err error) (*App, error) {
		_ = a.closeStores(ctx)
		return nil, err
	}

	tokens, err := token.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenIssuer, cfg.Auth.TokenTTL)
	if err != nil {
		return fail(fmt.Errorf("create token issuer: %w", err))
	}
	policy, err := routeauth.ParsePolicy(cfg.Routes.DefaultPolicy)
	if err != nil {
		return fail(err)
	}
	table, err := routeauth.LoadFile(cfg.Routes.TableFile, policy)
	if err != nil {
		return fail(fmt.Errorf("load route table: %w", err))
	}

	var throttle ports.LoginThrottle
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return fail(err)
		}
		a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
		st.readiness["redis"] = handler.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		throttle = redisstore.NewLoginThrottle(rdb, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow)
	} else {
		log.Warn().Msg("REDIS_ADDR not set, login throttling disabled")
	}

	a.audit = queue.NewAuditDispatcher(cfg.Audit.Workers, st.audit, log)
	a.audit.Start(ctx)

	hasher := password.NewHasher(cfg.Auth.BcryptCost)
	authSvc := service.NewAuthService(st.users, hasher, tokens, log, service.AuthOptions{
		Throttle:            throttle,
		Audit:               a.audit,
		AllowRoleOnRegister: cfg.Auth.AllowRoleRegister,
	})
	a.users = service.NewUserService(st.users, hasher, a.audit, log)

	if cfg.Bootstrap.Email != "" {
		if _, err := a.users.EnsureAdmin(ctx, cfg.Bootstrap.Email, cfg.Bootstrap.Password, cfg.Bootstrap.Name); err != nil {
			_ = a.Close(ctx)
			return nil, err
		}
	}

	a.server = api.NewRouter(api.Deps{
		Log:          log,
		Auth:         authSvc,
		Users:        a.users,
		Tokens:       tokens,
		Routes:       table,
		Readiness:    st.readiness,
		ExposeErrors: !cfg.IsProduction(),
	})
	return a, nil
}

// Users exposes the administrative service for operator commands.
func (a *App) Users() *service.UserService { return a.users }

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	addr := ":" + a.cfg.Port

	go func() {
		a.log.Info().Str("addr", addr).Str("store", a.cfg.StoreDriver).Msg("http server starting")
		errCh <- a.server.Start(addr)
	}()

	select {
	case <-ctx.Done():
		a.log.Info().Msg("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			_ = a.Close(shutdownCtx)
			return fmt.Errorf("shutdown server: %w", err)
		}
		return a.Close(shutdownCtx)
	case err := <-errCh:
		_ = a.Close(context.Background())
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server exited: %w", err)
	}
}

// Close drains the audit queue and releases store connections.
func (a *App) Close(ctx context.Context) error {
	if a.audit != nil {
		a.audit.Close()
	}
	return a.closeStores(ctx)
}

func (a *App) closeStores(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		log.Warn().Msg("using in-memory store, data is lost on restart")
		users := memory.NewUserRepository()
		return &stores{
			users:     users,
			audit:     memory.NewAuditRepository(),
			readiness: map[string]handler.Pinger{"store": users},
		}, nil

	case config.DriverPostgres:
		db, err := pgstore.Connect(ctx, pgstore.Config{DSN: cfg.Postgres.DSN})
		if err != nil {
			return nil, err
		}
		users, err := pgstore.NewUserRepository(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create postgres user store: %w", err)
		}
		audit, err := pgstore.NewAuditRepository(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create postgres audit store: %w", err)
		}
		return &stores{
			users:     users,
			audit:     audit,
			readiness: map[string]handler.Pinger{"postgres": users},
			closers:   []func(context.Context) error{func(context.Context) error { return db.Close() }},
		}, nil

	default:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, AppName: "hrms-api"})
		if err != nil {
			return nil, err
		}
		users := mongostore.NewUserRepository(db)
		audit := mongostore.NewAuditRepository(db)
		if err := users.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		if err := audit.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &stores{
			users:     users,
			audit:     audit,
			readiness: map[string]handler.Pinger{"mongodb": users},
			closers:   []func(context.Context) error{client.Disconnect},
		}, nil
	}
}
