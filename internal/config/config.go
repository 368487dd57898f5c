package config

import (
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	StoreMemory   = "memory"
	StoreMongo    = "mongo"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

var AppEnv Config

type Config struct {
	Port   string
	AppEnv string

	StoreDriver   string
	MongoURI      string
	DBName        string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	PostgresURL   string

	JWTSecret      string
	AccessTokenTTL time.Duration
	AdminEmail     string
	AdminPassword  string
	// TokenBlacklist is "memory" or "redis".
	TokenBlacklist string

	CatalogBaseURL string
	CatalogTimeout time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	CORSOrigins      []string
	OneReviewPerUser bool
}

// Load reads .env (when present) and the process environment into AppEnv.
func Load(log *zap.Logger) Config {
	if err := godotenv.Load(); err != nil {
		log.Info(".env not loaded", zap.Error(err))
	}
	AppEnv = FromEnv()
	return AppEnv
}

// FromEnv builds a Config from the current environment without touching .env.
func FromEnv() Config {
	return Config{
		Port:   getEnvOrDefault("PORT", "8080"),
		AppEnv: getEnvOrDefault("APP_ENV", "development"),

		StoreDriver:   getEnvOrDefault("STORE_DRIVER", StoreMongo),
		MongoURI:      getEnvOrDefault("MONGO_URI", ""),
		DBName:        getEnvOrDefault("DB_NAME", "storefront"),
		RedisAddr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),
		PostgresURL:   getEnvOrDefault("POSTGRES_URL", ""),

		JWTSecret:      getEnvOrDefault("JWT_SECRET", ""),
		AccessTokenTTL: getDurationEnv("ACCESS_TOKEN_TTL", 60, time.Minute),
		AdminEmail:     getEnvOrDefault("ADMIN_EMAIL", ""),
		AdminPassword:  getEnvOrDefault("ADMIN_PASSWORD", ""),
		TokenBlacklist: getEnvOrDefault("TOKEN_BLACKLIST", StoreMemory),

		CatalogBaseURL: getEnvOrDefault("CATALOG_BASE_URL", "https://fakestoreapi.com"),
		CatalogTimeout: getDurationEnv("CATALOG_TIMEOUT", 10, time.Second),

		KafkaBrokers: getListEnv("KAFKA_BROKERS"),
		KafkaTopic:   getEnvOrDefault("KAFKA_TOPIC", "order-events"),

		CORSOrigins:      getListEnv("CORS_ORIGINS"),
		OneReviewPerUser: getBoolEnv("REVIEWS_ONE_PER_USER", false),
	}
}
