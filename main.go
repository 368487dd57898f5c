package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/events"
	"storefront/internal/handlers"
	"storefront/internal/identity"
	"storefront/internal/logger"
	"storefront/internal/middleware"
	"storefront/internal/orders"
	"storefront/internal/reviews"
	"storefront/internal/store"
)

func main() {
	log, err := logger.New(os.Getenv("APP_ENV"))
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	cfg := config.Load(log)
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	var redisClient *redis.Client
	if cfg.StoreDriver == config.StoreRedis || cfg.TokenBlacklist == config.StoreRedis {
		redisClient, err = database.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log)
		if err != nil {
			log.Fatal("redis connection failed", zap.Error(err))
		}
		defer redisClient.Close()
	}

	s, closeStore := openStore(cfg, redisClient, log)
	defer closeStore()

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		log.Info("order events enabled", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}
	defer publisher.Close()

	orderManager := orders.NewManager(s, log, orders.WithPublisher(publisher))
	catalogManager := catalog.NewManager(s, log,
		catalog.WithSource(catalog.NewFakeStoreClient(cfg.CatalogBaseURL, cfg.CatalogTimeout)))

	var reviewOpts []reviews.Option
	if cfg.OneReviewPerUser {
		reviewOpts = append(reviewOpts, reviews.WithOneReviewPerUser())
	}
	reviewAggregator := reviews.NewAggregator(s, log, reviewOpts...)

	var identityOpts []identity.Option
	if cfg.TokenBlacklist == config.StoreRedis {
		identityOpts = append(identityOpts, identity.WithBlacklist(identity.NewRedisBlacklist(redisClient)))
	}
	provider := identity.NewLocalProvider(s, cfg.JWTSecret, cfg.AccessTokenTTL, log, identityOpts...)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := provider.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Warn("admin bootstrap failed", zap.Error(err))
		}
		cancel()
	}

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: len(cfg.CORSOrigins) > 0,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORSOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	r.Use(cors.New(corsConfig))

	handlers.RegisterRoutes(r, handlers.Deps{
		Orders:   orderManager,
		Catalog:  catalogManager,
		Reviews:  reviewAggregator,
		Identity: provider,
		Log:      log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("storefront listening", zap.String("port", cfg.Port), zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-quit
	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

// openStore connects the configured backend. The returned func releases it.
func openStore(cfg config.Config, redisClient *redis.Client, log *zap.Logger) (store.Store, func()) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		log.Warn("using in-memory store; data is lost on restart")
		return store.NewMemoryStore(), func() {}

	case config.StoreRedis:
		return store.NewRedisStore(redisClient), func() {}

	case config.StorePostgres:
		pool, err := database.ConnectPostgres(cfg.PostgresURL)
		if err != nil {
			log.Fatal("postgres connection failed", zap.Error(err))
		}
		pg := store.NewPostgresStore(pool)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatal("postgres schema failed", zap.Error(err))
		}
		log.Info("Postgres connected")
		return pg, pool.Close

	default:
		client, err := database.Connect(cfg.MongoURI)
		if err != nil {
			log.Fatal("mongo connection failed", zap.Error(err))
		}
		db := client.Database(cfg.DBName)
		log.Info("MongoDB connected", zap.String("db", db.Name()))

		if err := database.EnsureStoreIndexes(db, store.KVCollection, log); err != nil {
			log.Warn("store index warning", zap.Error(err))
		}
		return store.NewMongoStore(db), func() {
			_ = client.Disconnect(context.Background())
		}
	}
}
