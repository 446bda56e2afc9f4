package configs

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	BotToken        string `validate:"required"`
	NATSURL         string `validate:"required"`
	RedisURL        string
	RedisPassword   string
	RedisDB         int `validate:"gte=0"`
	MongoDBURL      string
	MongoDatabase   string
	StorageBackend  string `validate:"oneof=file redis mongo"`
	DataDir         string `validate:"required_if=StorageBackend file"`
	CatalogPath     string `validate:"required"`
	HealthPort      string `validate:"required,numeric"`
	GRPCHealthPort  string `validate:"required,numeric"`
	Timezone        string `validate:"required"`
	DailyCron       string `validate:"required"`
	PenaltyCron     string `validate:"required"`
	CommandPrefix   string `validate:"required"`
	CommandSubject  string `validate:"required"`
	ReplySubject    string `validate:"required"`
	AnnounceSubject string `validate:"required"`
	LogLevel        string `validate:"oneof=debug info warn error"`
}

// LoadConfig reads the optional .env file and the process environment.
// A missing .env file is not an error; a missing BOT_TOKEN is.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDISDB", "0"))
	if err != nil {
		return Config{}, fmt.Errorf("REDISDB must be an integer: %w", err)
	}

	config := Config{
		BotToken:        getEnv("BOT_TOKEN", ""),
		NATSURL:         getEnv("NATSURL", "nats://localhost:4222"),
		RedisURL:        getEnv("REDISURL", "localhost:6379"),
		RedisPassword:   getEnv("REDISPASSWORD", ""),
		RedisDB:         redisDB,
		MongoDBURL:      getEnv("MONGODBURL", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGODB_DATABASE", "dailydsa"),
		StorageBackend:  getEnv("STORAGE_BACKEND", "file"),
		DataDir:         getEnv("DATA_DIR", "data"),
		CatalogPath:     getEnv("CATALOG_PATH", "leetcode_dataset.csv"),
		HealthPort:      getEnv("HEALTH_PORT", "8080"),
		GRPCHealthPort:  getEnv("GRPC_HEALTH_PORT", "50055"),
		Timezone:        getEnv("TIMEZONE", "Asia/Kolkata"),
		DailyCron:       getEnv("DAILY_CRON", "0 0 * * *"),
		PenaltyCron:     getEnv("PENALTY_CRON", "59 23 * * *"),
		CommandPrefix:   getEnv("COMMAND_PREFIX", "!"),
		CommandSubject:  getEnv("COMMAND_SUBJECT", "dailydsa.commands"),
		ReplySubject:    getEnv("REPLY_SUBJECT", "dailydsa.replies"),
		AnnounceSubject: getEnv("ANNOUNCE_SUBJECT", "dailydsa.announcements"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}

	return config, nil
}

// Validate checks the config; cobra flags may have overridden fields after LoadConfig.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
