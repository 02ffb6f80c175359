// Command server runs the TTravel Hospitality site API.
package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"

	"github.com/ttravel/hospitality/internal/api"
	"github.com/ttravel/hospitality/internal/auth"
	"github.com/ttravel/hospitality/internal/config"
	"github.com/ttravel/hospitality/internal/gallery"
	"github.com/ttravel/hospitality/internal/notify"
	"github.com/ttravel/hospitality/internal/pkg/distlock"
	"github.com/ttravel/hospitality/internal/pkg/logger"
	"github.com/ttravel/hospitality/internal/repository/postgres"
	"github.com/ttravel/hospitality/internal/service/contact"
	"github.com/ttravel/hospitality/internal/storage"
)

func main() {
	if err := run(); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.SetLevel(logger.ParseLevel(cfg.Log.Level))
	logger.SetRedactPII(cfg.Log.ShouldRedactPII())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := connectRedis(ctx, cfg.Redis.URL)
	if rdb != nil {
		defer rdb.Close()
	}

	var (
		store storage.Storage
		db    *sql.DB
	)
	switch cfg.Storage.Type {
	case "postgres":
		db, err = connectPostgres(ctx, cfg.Storage.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		store = postgres.New(db)
		logger.Info("using postgres store")
	case "memory", "":
		store, err = storage.NewMemStorage()
		if err != nil {
			return err
		}
		logger.Info("using in-memory store")
	default:
		return fmt.Errorf("unknown storage type %q", cfg.Storage.Type)
	}

	if !cfg.Storage.SkipSeed {
		if err := seed(ctx, cfg, store, rdb, db); err != nil {
			return err
		}
	}

	sessions, err := sessionStore(ctx, cfg, rdb)
	if err != nil {
		return err
	}
	authManager := auth.NewManager(&cfg.Auth, store, sessions)

	notifier, err := buildNotifier(ctx, cfg.Notify)
	if err != nil {
		return err
	}
	contactSvc := contact.NewService(store, notifier)

	g, s3c, err := buildGallery(ctx, cfg.Gallery)
	if err != nil {
		return err
	}

	var pinger api.Pinger
	if db != nil {
		pinger = db
	}
	health := api.NewHealthChecker(store, pinger, rdb, s3c, cfg.Gallery.S3Bucket)

	router := api.SetupRoutes(api.NewHandlers(store, contactSvc, g), authManager, health, cfg.Server.AllowedOrigins)
	server := api.NewServer(cfg.Server, router)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case <-done:
		logger.Info("shutting down")
	case err := <-errc:
		return err
	}
	cancel()

	_, _, _, grace := cfg.Server.Timeouts()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), grace)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// connectRedis returns nil when no URL is configured or the server does not
// answer; callers fall back to in-process alternatives.
func connectRedis(ctx context.Context, url string) *redis.Client {
	if url == "" {
		return nil
	}
	var client *redis.Client
	if opts, err := redis.ParseURL(url); err == nil {
		client = redis.NewClient(opts)
	} else {
		client = redis.NewClient(&redis.Options{Addr: url})
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unavailable", "error", err)
		client.Close()
		return nil
	}
	logger.Info("redis connected")
	return client
}

func connectPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New("storage type postgres requires DATABASE_URL")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(3)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(30 * time.Second)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// seed fills in the default admin, site copy and destinations. Replicas
// booting together against a shared store take a lock first.
func seed(ctx context.Context, cfg *config.Config, store storage.Storage, rdb *redis.Client, db *sql.DB) error {
	password := cfg.Auth.AdminPassword
	if password == "" {
		// Only used if the admin account does not exist yet.
		password = rand.Text()
		if _, err := store.GetUserByUsername(ctx, cfg.Auth.AdminUsername); errors.Is(err, storage.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "generated admin password for %q: %s\n", cfg.Auth.AdminUsername, password)
		}
	}

	lockCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	lock := distlock.New(rdb, db, "hospitality:seed", time.Minute)
	err := distlock.Do(lockCtx, lock, func(ctx context.Context) error {
		return storage.Seed(ctx, store, storage.SeedOptions{
			AdminUsername: cfg.Auth.AdminUsername,
			AdminPassword: password,
		})
	})
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	logger.Info("seed complete")
	return nil
}

func sessionStore(ctx context.Context, cfg *config.Config, rdb *redis.Client) (auth.SessionStore, error) {
	switch cfg.Auth.SessionBackend {
	case "redis":
		if rdb == nil {
			return nil, errors.New("session backend redis requires a reachable REDIS_URL")
		}
		return auth.NewRedisSessionStore(rdb), nil
	case "memory", "":
		m := auth.NewMemorySessionStore()
		go m.RunSweeper(ctx, 10*time.Minute)
		return m, nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Auth.SessionBackend)
	}
}

func buildNotifier(ctx context.Context, cfg config.NotifyConfig) (contact.Notifier, error) {
	if !cfg.Enabled {
		return notify.Noop{}, nil
	}
	client, err := notify.NewSESClient(ctx, cfg.Region, cfg.AccessKey, cfg.SecretKey)
	if err != nil {
		return nil, err
	}
	n, err := notify.NewSESNotifier(client, cfg.From, cfg.To, notify.Templates(cfg.Templates))
	if err != nil {
		return nil, err
	}
	logger.Info("contact notifications enabled", "recipients", len(cfg.To))
	return n, nil
}

// buildGallery also returns the S3 client, if any, for the health check.
func buildGallery(ctx context.Context, cfg config.GalleryConfig) (gallery.Store, api.BucketHeader, error) {
	if cfg.S3Bucket == "" {
		return gallery.NewStaticStore(cfg.StockImages), nil, nil
	}
	client, err := gallery.NewS3Client(ctx, cfg.S3Region, cfg.AccessKey, cfg.SecretKey)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("gallery uploads enabled", "bucket", cfg.S3Bucket)
	store := gallery.NewS3Store(client, gallery.S3Config{
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		CDNDomain: cfg.CDNDomain,
	}, cfg.StockImages)
	return store, client, nil
}
