package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/hami-market/storefront/internal/cart"
	"github.com/hami-market/storefront/internal/catalog"
	"github.com/hami-market/storefront/internal/notify"
	"github.com/hami-market/storefront/internal/storage"
	"github.com/hami-market/storefront/internal/web"
)

type Config struct {
	HTTPPort        string
	StorageBackend  string // "memory", "redis" or "mongo"
	RedisAddr       string
	RedisPassword   string
	MongoURI        string
	MongoDBName     string
	CatalogDBPath   string
	MigrationsPath  string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		StorageBackend:  getEnv("STORAGE_BACKEND", "memory"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:     getEnv("MONGO_DB_NAME", "storefront"),
		CatalogDBPath:   getEnv("CATALOG_DB_PATH", "catalog.db"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "migrations"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg := loadConfig()
	ctx := context.Background()

	// Catalog
	repo, err := catalog.NewRepository(cfg.CatalogDBPath)
	if err != nil {
		log.Fatalf("Failed to open catalog database: %v", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run catalog migrations: %v", err)
	}
	log.Printf("Catalog ready at %s", cfg.CatalogDBPath)

	catalogService := catalog.NewService(repo)

	// Cart persistence
	kv := buildKV(ctx, cfg)
	adapter := storage.NewAdapter(kv)

	// Notifications
	center := notify.NewCenter()

	engine := cart.NewEngine(adapter, center, cart.NopView{})
	engine.Load(ctx)
	log.Printf("Cart hydrated with %d items", engine.ItemCount())

	// HTTP surface
	router := web.NewRouter(
		web.NewProductHandler(catalogService),
		web.NewCartHandler(engine, catalogService),
		web.NewNotificationsHandler(center),
		cfg.RequestTimeout,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Printf("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// buildKV picks the durable cart store. A backend that cannot be
// reached at startup is not fatal: the adapter's probe will route
// writes to its in-memory fallback.
func buildKV(ctx context.Context, cfg *Config) storage.KV {
	switch cfg.StorageBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("Redis ping failed, cart durability degraded: %v", err)
		} else {
			log.Printf("Connected to Redis at %s", cfg.RedisAddr)
		}
		return storage.NewRedisKV(client, "storefront:")

	case "mongo":
		db, err := storage.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			log.Printf("MongoDB unavailable, cart durability degraded: %v", err)
			return storage.NewMemoryKV()
		}
		log.Printf("Connected to MongoDB at %s", cfg.MongoURI)
		return storage.NewMongoKV(db, "cart_records")

	default:
		log.Printf("Using in-memory cart storage")
		return storage.NewMemoryKV()
	}
}
