package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/soundstage/soundstage-api/internal/api"
	"github.com/soundstage/soundstage-api/internal/api/metrics"
	"github.com/soundstage/soundstage-api/internal/core/ports"
	"github.com/soundstage/soundstage-api/internal/core/service"
	"github.com/soundstage/soundstage-api/internal/infrastructure/db/mongo"
	"github.com/soundstage/soundstage-api/internal/infrastructure/db/postgres"
	"github.com/soundstage/soundstage-api/internal/infrastructure/db/redis"
	"github.com/soundstage/soundstage-api/internal/infrastructure/http/handlers"
	"github.com/soundstage/soundstage-api/internal/infrastructure/security"
	"github.com/soundstage/soundstage-api/internal/pkg/config"
	"github.com/soundstage/soundstage-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// store bundles the repositories of whichever backend STORE_DRIVER selects.
type store struct {
	users    ports.UserRepository
	songs    ports.SongRepository
	comments ports.CommentRepository
	ping     handlers.PingFunc
	close    func(context.Context) error
}

// @title                       Soundstage API
// @version                     1.0
// @description                 Song sharing, likes, comments and ratings.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{Level: "info"})
		l.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "soundstage-api",
	})

	if cfg.UsesDefaultSecret() {
		log.Warn().Msg("JWT_SECRET is not set; tokens are signed with the public default secret")
	}

	st, err := openStore(ctx, cfg, logger.Component("store"))
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("store unavailable")
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := st.close(closeCtx); err != nil {
			log.Error().Err(err).Msg("closing store")
		}
	}()

	readiness := map[string]handlers.PingFunc{cfg.StoreDriver: st.ping}

	var (
		cache    ports.LeaderboardCache
		throttle ports.LoginThrottle
	)
	if cfg.Redis.Enabled {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("redis unavailable")
		}
		defer rdb.Close()

		cache = redis.NewLeaderboardCache(rdb, cfg.Redis.LeaderboardTTL)
		throttle = redis.NewLoginThrottle(rdb, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow)
		readiness["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	} else {
		log.Info().Msg("redis disabled; leaderboard cache and login throttling are off")
	}

	hasher := security.NewHasher(cfg.Auth.BcryptCost, cfg.Auth.HashConcurrency,
		security.WithHashObserver(func(d time.Duration) {
			metrics.PasswordHashDuration.Observe(d.Seconds())
		}),
	)
	tokens, err := security.NewManager(security.TokenConfig{
		Secret: cfg.Auth.JWTSecret,
		TTL:    cfg.Auth.JWTExpiry.Duration(),
		Issuer: cfg.Auth.JWTIssuer,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("token manager")
	}

	e := api.NewRouter(api.Dependencies{
		Log:        logger.Component("http"),
		CORSOrigin: cfg.CORSOrigin,
		Auth:       service.NewAuthService(st.users, hasher, tokens, throttle, logger.Component("auth")),
		Songs:      service.NewSongService(st.songs, cache, logger.Component("songs")),
		Comments:   service.NewCommentService(st.comments, st.songs, logger.Component("comments")),
		Tokens:     tokens,
		Readiness:  readiness,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("store", cfg.StoreDriver).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  "soundstage-api",
		})
		if err != nil {
			return nil, err
		}
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongo ready")
		return mongoStore(client, db), nil

	default:
		db, err := postgres.Connect(ctx, postgres.Config{
			URL:         cfg.Postgres.URL,
			MaxOpen:     cfg.Postgres.MaxOpen,
			MaxIdle:     cfg.Postgres.MaxIdle,
			MaxLifetime: cfg.Postgres.MaxLifetime,
		})
		if err != nil {
			return nil, err
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info().Msg("postgres ready")
		return postgresStore(db), nil
	}
}

func postgresStore(db *sqlx.DB) *store {
	return &store{
		users:    postgres.NewUserRepository(db),
		songs:    postgres.NewSongRepository(db),
		comments: postgres.NewCommentRepository(db),
		ping:     db.PingContext,
		close:    func(context.Context) error { return db.Close() },
	}
}

func mongoStore(client *mongodriver.Client, db *mongodriver.Database) *store {
	return &store{
		users:    mongo.NewUserRepository(db),
		songs:    mongo.NewSongRepository(db),
		comments: mongo.NewCommentRepository(db),
		ping:     func(ctx context.Context) error { return client.Ping(ctx, nil) },
		close:    client.Disconnect,
	}
}
