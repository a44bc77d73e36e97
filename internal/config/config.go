// Package config 从.env和环境变量加载服务配置
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMongo  = "mongo"
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type Config struct {
	Port    string
	GinMode string

	JWTSecret string
	TokenTTL  time.Duration

	YouTubeAPIKey  string
	YouTubeBaseURL string
	YouTubeTimeout time.Duration

	StoreDriver     string
	MongoURI        string
	MongoDatabase   string
	MySQLDSN        string
	SQLitePath      string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	CatalogCacheTTL time.Duration
	RabbitMQURL     string

	LogLevel string
	LogFile  string

	AuthRatePerSecond float64
	AuthRateBurst     int
}

// Load 先读.env（没有也没关系），再从环境变量填充配置
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:    GetEnvAsString("PORT", "5000"),
		GinMode: GetEnvAsString("GIN_MODE", "debug"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  GetEnvAsDuration("TOKEN_TTL", 7*24*time.Hour),

		YouTubeAPIKey:  os.Getenv("YOUTUBE_API_KEY"),
		YouTubeBaseURL: GetEnvAsString("YOUTUBE_BASE_URL", "https://www.googleapis.com/youtube/v3"),
		YouTubeTimeout: GetEnvAsDuration("YOUTUBE_TIMEOUT", 10*time.Second),

		StoreDriver:     strings.ToLower(GetEnvAsString("STORE_DRIVER", DriverMongo)),
		MongoURI:        GetEnvAsString("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:   GetEnvAsString("MONGODB_DATABASE", "cliphub"),
		MySQLDSN:        os.Getenv("MYSQL_DSN"),
		SQLitePath:      GetEnvAsString("SQLITE_PATH", "cliphub.db"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         GetEnvAsInt("REDIS_DB", 0),
		CatalogCacheTTL: GetEnvAsDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		RabbitMQURL:     os.Getenv("RABBITMQ_URL"),

		LogLevel: GetEnvAsString("LOG_LEVEL", "info"),
		LogFile:  os.Getenv("LOG_FILE"),

		AuthRatePerSecond: GetEnvAsFloat("AUTH_RATE_PER_SECOND", 5),
		AuthRateBurst:     GetEnvAsInt("AUTH_RATE_BURST", 10),
	}
}

// Validate 启动前检查必须项，缺了直接拒绝启动
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("MONGODB_URI is required for the mongo driver")
		}
	case DriverMySQL:
		if c.MySQLDSN == "" {
			return errors.New("MYSQL_DSN is required for the mysql driver")
		}
	case DriverSQLite:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	return nil
}

// GetEnvAsInt 读取int类型的环境变量，缺失或解析失败时用默认值
func GetEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// GetEnvAsDuration 读取time.Duration格式（如"10s"、"168h"）的环境变量
func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func GetEnvAsString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
