package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis"
	"github.com/humanbelnik/kinoswap/duo/internal/config"
	http_init "github.com/humanbelnik/kinoswap/duo/internal/delivery/http/init"
	http_access_middleware "github.com/humanbelnik/kinoswap/duo/internal/delivery/http/middleware/access"
	http_session "github.com/humanbelnik/kinoswap/duo/internal/delivery/http/session"
	http_swagger "github.com/humanbelnik/kinoswap/duo/internal/delivery/http/swagger"
	ws_session "github.com/humanbelnik/kinoswap/duo/internal/delivery/ws/session"
	infra_csv_movie "github.com/humanbelnik/kinoswap/duo/internal/infra/csv/movie"
	infra_memory_catalog "github.com/humanbelnik/kinoswap/duo/internal/infra/memory/catalog"
	infra_memory_session "github.com/humanbelnik/kinoswap/duo/internal/infra/memory/session"
	infra_pg_init "github.com/humanbelnik/kinoswap/duo/internal/infra/postgres/init"
	infra_postgres_movie "github.com/humanbelnik/kinoswap/duo/internal/infra/postgres/movie"
	infra_postgres_session "github.com/humanbelnik/kinoswap/duo/internal/infra/postgres/session"
	infra_redis_init "github.com/humanbelnik/kinoswap/duo/internal/infra/redis/init"
	infra_redis_matches "github.com/humanbelnik/kinoswap/duo/internal/infra/redis/matches"
	infra_redis_session "github.com/humanbelnik/kinoswap/duo/internal/infra/redis/session"
	service_scheduler "github.com/humanbelnik/kinoswap/duo/internal/service/scheduler"
	usecase_session "github.com/humanbelnik/kinoswap/duo/internal/usecase/session"
	"github.com/jmoiron/sqlx"
)

const purgeInterval = time.Hour

// Conns holds the shared connections. A nil field means the component
// that needs it is not configured.
type Conns struct {
	Redis    *redis.Client
	Postgres *sqlx.DB
}

// App is the assembled service, ready to serve.
type App struct {
	Pool      *http_init.ControllerPool
	Hub       *ws_session.Hub
	Catalog   *infra_memory_catalog.Catalog
	Sessions  *usecase_session.Usecase
	Scheduler *service_scheduler.Scheduler
}

func Go(cfg *config.Config) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var conns Conns
	if cfg.NeedsRedis() {
		conns.Redis = infra_redis_init.MustEstablishConn(cfg.Redis)
		defer conns.Redis.Close()
	}
	if cfg.NeedsPostgres() {
		conns.Postgres = infra_pg_init.MustEstablishConn(cfg.Postgres)
		defer conns.Postgres.Close()
	}

	app, err := Build(ctx, cfg, conns, slog.Default())
	if err != nil {
		log.Fatal(err)
	}

	app.Scheduler.Start()
	defer func() {
		if err := app.Scheduler.Shutdown(); err != nil {
			slog.Error("scheduler shutdown", slog.String("error", err.Error()))
		}
	}()

	app.Pool.RunAll(ctx, cfg.HTTP.Port)
}

// Build wires every component and loads the catalog once. Background
// workers stop with ctx; the scheduler is returned unstarted.
func Build(ctx context.Context, cfg *config.Config, conns Conns, logger *slog.Logger) (*App, error) {
	var loader infra_memory_catalog.Loader
	switch cfg.Catalog.Source {
	case config.SourceCSV:
		loader = infra_csv_movie.New(cfg.Catalog.CSVPath)
	default:
		if conns.Postgres == nil {
			return nil, fmt.Errorf("catalog source %s needs a postgres connection", cfg.Catalog.Source)
		}
		loader = infra_postgres_movie.New(conns.Postgres)
	}
	catalog := infra_memory_catalog.New(
		infra_memory_catalog.WithLoader(loader),
		infra_memory_catalog.WithLogger(logger),
	)
	if err := catalog.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	scheduler, err := service_scheduler.New(service_scheduler.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	if err := scheduler.AddCatalogRefresh(catalog, cfg.Catalog.RefreshInterval); err != nil {
		return nil, err
	}

	var store usecase_session.SessionStore
	switch cfg.Session.Store {
	case config.StoreRedis:
		if conns.Redis == nil {
			return nil, fmt.Errorf("session store redis needs a redis connection")
		}
		store = infra_redis_session.New(conns.Redis, cfg.Session.RedisPrefix, cfg.Session.TTL)
	case config.StorePostgres:
		if conns.Postgres == nil {
			return nil, fmt.Errorf("session store postgres needs a postgres connection")
		}
		pgStore := infra_postgres_session.New(conns.Postgres)
		store = pgStore
		if cfg.Session.TTL > 0 {
			if err := scheduler.AddSessionPurge(pgStore, cfg.Session.TTL, purgeInterval); err != nil {
				return nil, err
			}
		}
	default:
		memStore := infra_memory_session.New()
		store = memStore
		if cfg.Session.TTL > 0 {
			if err := scheduler.AddSessionPurge(memStore, cfg.Session.TTL, purgeInterval); err != nil {
				return nil, err
			}
		}
	}

	hub := ws_session.NewHub(ws_session.WithHubLogger(logger))
	go hub.Run(ctx)

	var broadcaster usecase_session.Broadcaster = hub
	if cfg.Broadcast.Mode == config.BroadcastRedis {
		if conns.Redis == nil {
			return nil, fmt.Errorf("broadcast mode redis needs a redis connection")
		}
		publisher := infra_redis_matches.NewPublisher(conns.Redis, cfg.Broadcast.RedisChannel,
			infra_redis_matches.WithLogger(logger),
		)
		go publisher.Run(ctx)

		subscriber := infra_redis_matches.NewSubscriber(conns.Redis, cfg.Broadcast.RedisChannel, hub, logger)
		go func() {
			if err := subscriber.Run(ctx, nil); err != nil {
				logger.Error("matches subscription stopped", slog.String("error", err.Error()))
			}
		}()

		broadcaster = publisher
	}

	sessionUC := usecase_session.New(store, catalog, broadcaster,
		usecase_session.WithLogger(logger),
		usecase_session.WithMaxRetries(cfg.Session.MaxRetries),
		usecase_session.WithShareBaseURL(cfg.HTTP.PublicURL),
	)

	controllerPool := http_init.NewControllerPool(
		http_access_middleware.ReadOnlyBadGatewayMiddleware(cfg.HTTP.Mode),
	)
	controllerPool.Add(http_session.New(sessionUC, http_session.WithLogger(logger)))
	controllerPool.Add(ws_session.NewController(sessionUC, hub, ws_session.WithLogger(logger)))
	controllerPool.Add(http_swagger.New())
	controllerPool.Register()

	return &App{
		Pool:      controllerPool,
		Hub:       hub,
		Catalog:   catalog,
		Sessions:  sessionUC,
		Scheduler: scheduler,
	}, nil
}
