package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env    string
	Server ServerConfig
	Kafka  KafkaConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	Worker WorkerConfig
	Log    LogConfig
}

type ServerConfig struct {
	HTTPPort     int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type KafkaConfig struct {
	Brokers          []string
	ProducerRetryMax int
	ConsumerGroupID  string
	ReconnectWait    time.Duration
	TopicPartitions  int32
	TopicReplication int16
}

type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type WorkerConfig struct {
	StartupRetryWait time.Duration
	// MaxDeliveryAttempts bounds how many times a failing message is
	// redelivered before it is moved to the dead-letter topic. Zero
	// disables dead-lettering and keeps redelivering forever.
	MaxDeliveryAttempts int64
	RedeliveryTTL       time.Duration
	InsertTimeout       time.Duration
}

type LogConfig struct {
	Level    string
	Mode     string
	Encoding string
}

func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	cfg := &Config{
		Env: getEnv("ENV", "development"),
		Server: ServerConfig{
			HTTPPort:     getEnvAsInt("HTTP_PORT", 5001),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:          getEnvAsSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			ProducerRetryMax: getEnvAsInt("KAFKA_PRODUCER_RETRY_MAX", 3),
			ConsumerGroupID:  getEnv("KAFKA_CONSUMER_GROUP_ID", "ratings-worker"),
			ReconnectWait:    getEnvAsDuration("BROKER_RECONNECT_WAIT", 5*time.Second),
			TopicPartitions:  int32(getEnvAsInt("KAFKA_TOPIC_PARTITIONS", 1)),
			TopicReplication: int16(getEnvAsInt("KAFKA_TOPIC_REPLICATION_FACTOR", 1)),
		},
		Mongo: MongoConfig{
			URI:            getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:       getEnv("MONGO_DATABASE", "ratings_db"),
			ConnectTimeout: getEnvAsDuration("MONGO_CONNECT_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Worker: WorkerConfig{
			StartupRetryWait:    getEnvAsDuration("WORKER_STARTUP_RETRY_WAIT", 5*time.Second),
			MaxDeliveryAttempts: int64(getEnvAsInt("WORKER_MAX_DELIVERY_ATTEMPTS", 5)),
			RedeliveryTTL:       getEnvAsDuration("WORKER_REDELIVERY_TTL", 24*time.Hour),
			InsertTimeout:       getEnvAsDuration("WORKER_INSERT_TIMEOUT", 10*time.Second),
		},
		Log: LogConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Mode:     getEnv("LOG_MODE", "development"),
			Encoding: getEnv("LOG_ENCODING", "console"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid http port: %d", c.Server.HTTPPort)
	}

	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("at least one kafka broker is required")
	}

	if c.Kafka.ReconnectWait <= 0 {
		return fmt.Errorf("broker reconnect wait must be positive")
	}

	if c.Mongo.URI == "" {
		return fmt.Errorf("mongo URI is required")
	}

	if c.Worker.MaxDeliveryAttempts < 0 {
		return fmt.Errorf("max delivery attempts cannot be negative")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	// Split by comma
	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return defaultValue
	}

	return result
}
