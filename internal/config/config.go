package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// イベントの外部書き出し先
const (
	SinkNone     = "none"
	SinkKafka    = "kafka"
	SinkRabbitMQ = "rabbitmq"
	SinkRedis    = "redis"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DatabaseURL      string // あればPOSTGRES_*より優先
	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5432）

	JWTSecret string        // JWT署名シークレット
	JWTTTL    time.Duration // トークン有効期限（既定16時間）

	GoEnv string // development/production
	FEURL string // フロントURL（CORSで使う）

	EventSink string // none/kafka/rabbitmq/redis

	KafkaBrokers []string
	KafkaTopic   string

	RabbitMQURL      string
	RabbitMQExchange string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisStream   string

	SSEQueueSize int           // 接続ごとのキュー上限（0は無制限）
	SSEHeartbeat time.Duration // コメント行での死活確認間隔
}

// Loadは環境変数
func Load() (Config, error) {
	cfg := Config{
		Port: os.Getenv("PORT"),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		GoEnv: os.Getenv("GO_ENV"),
		FEURL: os.Getenv("FE_URL"),

		EventSink: strings.ToLower(getenv("EVENT_SINK", SinkNone)),

		KafkaTopic: getenv("KAFKA_TOPIC", "order-events"),

		RabbitMQURL:      os.Getenv("RABBITMQ_URL"),
		RabbitMQExchange: getenv("RABBITMQ_EXCHANGE", "order_events"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisStream:   getenv("REDIS_STREAM", "order-events"),
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.DatabaseURL == "" {
		pgPort, err := mustAtoi("POSTGRES_PORT")
		if err != nil {
			return Config{}, err
		}
		cfg.PostgresPort = pgPort

		if cfg.PostgresUser == "" {
			return Config{}, fmt.Errorf("POSTGRES_USER is required")
		}
		if cfg.PostgresPassword == "" {
			return Config{}, fmt.Errorf("POSTGRES_PASSWORD is required")
		}
		if cfg.PostgresDB == "" {
			return Config{}, fmt.Errorf("POSTGRES_DB is required")
		}
		if cfg.PostgresHost == "" {
			return Config{}, fmt.Errorf("POSTGRES_HOST is required")
		}
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.GoEnv == "" {
		return Config{}, fmt.Errorf("GO_ENV is required")
	}
	if cfg.FEURL == "" {
		return Config{}, fmt.Errorf("FE_URL is required")
	}

	//任意（既定値あり）
	ttlHours, err := atoiDefault("JWT_TTL_HOURS", 16)
	if err != nil {
		return Config{}, err
	}
	if ttlHours <= 0 {
		return Config{}, fmt.Errorf("JWT_TTL_HOURS must be positive")
	}
	cfg.JWTTTL = time.Duration(ttlHours) * time.Hour

	if cfg.RedisDB, err = atoiDefault("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.SSEQueueSize, err = atoiDefault("SSE_QUEUE_SIZE", 256); err != nil {
		return Config{}, err
	}
	if cfg.SSEQueueSize < 0 {
		return Config{}, fmt.Errorf("SSE_QUEUE_SIZE must be >= 0")
	}
	hb, err := atoiDefault("SSE_HEARTBEAT_SECONDS", 15)
	if err != nil {
		return Config{}, err
	}
	if hb <= 0 {
		return Config{}, fmt.Errorf("SSE_HEARTBEAT_SECONDS must be positive")
	}
	cfg.SSEHeartbeat = time.Duration(hb) * time.Second

	//sinkごとの必須
	switch cfg.EventSink {
	case SinkNone:
	case SinkKafka:
		cfg.KafkaBrokers = splitList(os.Getenv("KAFKA_BROKERS"))
		if len(cfg.KafkaBrokers) == 0 {
			return Config{}, fmt.Errorf("KAFKA_BROKERS is required when EVENT_SINK=kafka")
		}
	case SinkRabbitMQ:
		if cfg.RabbitMQURL == "" {
			return Config{}, fmt.Errorf("RABBITMQ_URL is required when EVENT_SINK=rabbitmq")
		}
	case SinkRedis:
		if cfg.RedisAddr == "" {
			return Config{}, fmt.Errorf("REDIS_ADDR is required when EVENT_SINK=redis")
		}
	default:
		return Config{}, fmt.Errorf("EVENT_SINK must be one of none/kafka/rabbitmq/redis: %q", cfg.EventSink)
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.GoEnv == "production"
}

func mustAtoi(key string) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func atoiDefault(key string, def int) (int, error) {
	if os.Getenv(key) == "" {
		return def, nil
	}
	return mustAtoi(key)
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
