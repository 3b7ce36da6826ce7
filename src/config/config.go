package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoDBConnectionString string
	MongoDBDatabaseName     string
	RabbitMQHostName        string
	RabbitMQExchange        string
	RabbitMQQueueName       string
	RedisAddress            string
	RedisPassword           string
	RedisDB                 int
	CartTTL                 time.Duration

	// Mock gateway knobs.
	GatewaySuccessBias    float64
	GatewayProcessingTime time.Duration

	// Poller defaults, overridable per request.
	PollInterval    time.Duration
	PollMaxAttempts int
}

func LoadConfig() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found, using environment variables only")
	}

	config := &Config{
		MongoDBConnectionString: os.Getenv("MONGODB_CONNECTION_STRING"),
		MongoDBDatabaseName:     os.Getenv("MONGODB_DATABASE_NAME"),
		RabbitMQHostName:        os.Getenv("RABBITMQ_HOSTNAME"),
		RabbitMQExchange:        os.Getenv("RABBITMQ_EXCHANGE"),
		RabbitMQQueueName:       os.Getenv("RABBITMQ_QUEUENAME"),
		RedisAddress:            os.Getenv("REDIS_ADDRESS"),
		RedisPassword:           os.Getenv("REDIS_PASSWORD"),
		RedisDB:                 envInt("REDIS_DB", 0),
		CartTTL:                 envDuration("CART_TTL", 30*time.Minute),
		GatewaySuccessBias:      envFloat("GATEWAY_SUCCESS_BIAS", 0.9),
		GatewayProcessingTime:   envDuration("GATEWAY_PROCESSING_TIME", 2*time.Second),
		PollInterval:            envDuration("POLL_INTERVAL", 3*time.Second),
		PollMaxAttempts:         envInt("POLL_MAX_ATTEMPTS", 10),
	}

	// Set default values if environment variables are not set
	if config.MongoDBDatabaseName == "" {
		config.MongoDBDatabaseName = "checkout-db"
	}
	if config.RabbitMQExchange == "" {
		config.RabbitMQExchange = "payment_events"
	}
	if config.RabbitMQQueueName == "" {
		config.RabbitMQQueueName = "payment_events_queue"
	}
	if config.RedisAddress == "" {
		config.RedisAddress = "localhost:6379"
	}

	return config, nil
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Warning: invalid value for %s, using default %d", key, fallback)
		return fallback
	}
	return value
}

func envFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("Warning: invalid value for %s, using default %g", key, fallback)
		return fallback
	}
	return value
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: invalid value for %s, using default %s", key, fallback)
		return fallback
	}
	return value
}
