package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Graph    GraphConfig
	Keys     APIKeys
	Pipeline PipelineConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type GraphConfig struct {
	URI      string
	User     string
	Password string
}

type APIKeys struct {
	ApifyToken         string
	RedditClientID     string
	RedditClientSecret string
	JWTSecret          string
}

type PipelineConfig struct {
	QueryTimeout time.Duration
	IngestTopic  string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Graph: GraphConfig{
			URI:      getEnv("NEO4J_URI", "neo4j://localhost:7687"),
			User:     getEnv("NEO4J_USER", "neo4j"),
			Password: getEnv("NEO4J_PASSWORD", ""),
		},
		Keys: APIKeys{
			ApifyToken:         getEnv("APIFY_API_TOKEN", ""),
			RedditClientID:     getEnv("REDDIT_CLIENT_ID", ""),
			RedditClientSecret: getEnv("REDDIT_CLIENT_SECRET", ""),
			JWTSecret:          getEnv("JWT_SECRET", "development-secret"),
		},
		Pipeline: PipelineConfig{
			QueryTimeout: getEnvAsDuration("QUERY_TIMEOUT", 45*time.Second),
			IngestTopic:  getEnv("GRAPH_INGEST_TOPIC_NAME", "GRAPH_INGEST"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if seconds, err := strconv.Atoi(strValue); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}
