package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // ローカルのビュー用サーバーポート（8080）

	API     APIConfig
	Storage StorageConfig
	Kafka   KafkaConfig

	GoEnv    string // dev/prod
	LogLevel string // debug/info/warn/error
}

// リモートAPI
type APIConfig struct {
	BaseURL   string
	Timeout   time.Duration
	CSRFToken string // csrftoken cookie の初期値（任意）
}

// 端末側ストレージ
type StorageConfig struct {
	Driver string // memory/postgres/redis

	DatabaseURL      string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     int
	PostgresSSLMode  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	Key []byte // 32byte。空なら暗号化しない
}

// 監査イベントの送信先（Brokersが空なら送らない）
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Loadは.envと環境変数
func Load() (Config, error) {
	// .envは無くてもよい
	_ = godotenv.Load()

	timeoutSec, err := atoiDefault("HTTP_TIMEOUT", 15)
	if err != nil {
		return Config{}, err
	}
	pgPort, err := atoiDefault("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	redisDB, err := atoiDefault("REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: getenv("PORT", "8080"),

		API: APIConfig{
			BaseURL:   strings.TrimRight(getenv("API_BASE_URL", "https://backend-pedidos.fly.dev"), "/"),
			Timeout:   time.Duration(timeoutSec) * time.Second,
			CSRFToken: os.Getenv("CSRF_TOKEN"),
		},

		Storage: StorageConfig{
			Driver: getenv("STORAGE_DRIVER", StorageMemory),

			DatabaseURL:      os.Getenv("DATABASE_URL"),
			PostgresUser:     getenv("POSTGRES_USER", "postgres"),
			PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
			PostgresDB:       getenv("POSTGRES_DB", "pedidos"),
			PostgresHost:     os.Getenv("POSTGRES_HOST"),
			PostgresPort:     pgPort,
			PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

			RedisAddr:     os.Getenv("REDIS_ADDR"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       redisDB,
			RedisPrefix:   getenv("REDIS_PREFIX", "pedidos:"),
		},

		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getenv("KAFKA_AUDIT_TOPIC", "pedidos.audit"),
		},

		GoEnv:    getenv("GO_ENV", "dev"),
		LogLevel: getenv("LOG_LEVEL", "info"),
	}

	key, err := parseKey(os.Getenv("STORAGE_KEY"))
	if err != nil {
		return Config{}, err
	}
	cfg.Storage.Key = key

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// 必須チェック
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}

	switch c.Storage.Driver {
	case StorageMemory:
	case StoragePostgres:
		if c.Storage.DatabaseURL == "" && c.Storage.PostgresHost == "" {
			return fmt.Errorf("DATABASE_URL or POSTGRES_HOST is required")
		}
	case StorageRedis:
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be one of memory/postgres/redis: %q", c.Storage.Driver)
	}

	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return fmt.Errorf("KAFKA_AUDIT_TOPIC is required")
	}
	return nil
}

// DSN はpostgres接続文字列
func (s StorageConfig) DSN() string {
	if s.DatabaseURL != "" {
		return s.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		s.PostgresHost, s.PostgresPort, s.PostgresUser, s.PostgresPassword, s.PostgresDB, s.PostgresSSLMode,
	)
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiDefault(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// 32文字そのまま、または64桁のhex
func parseKey(v string) ([]byte, error) {
	if v == "" {
		return nil, nil
	}
	if len(v) == 32 {
		return []byte(v), nil
	}
	if len(v) == 64 {
		b, err := hex.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("STORAGE_KEY must be hex: %w", err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("STORAGE_KEY must be 32 bytes or 64 hex chars")
}
