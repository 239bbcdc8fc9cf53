package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	OpenAIAPIKey string
	AssistantID  string
	ResponseMode string
	PollInterval time.Duration
	PollTimeout  time.Duration

	DatabaseURL string
	RateLimit   int
	RateWindow  time.Duration

	MongoURI       string
	MongoDB        string
	BlogBaseURL    string
	PostsPerPage   int
	ScrapeDelay    time.Duration
	ScrapeInterval time.Duration

	AwsAccessKey string
	AwsSecretKey string
	AwsRegion    string
	BucketName   string
}

// LoadConfig loads the environment variables and return config
func LoadConfig() *Config {

	_ = godotenv.Load()

	cfg := &Config{
		Port: getEnv("PORT", "5050"),

		OpenAIAPIKey: getEnv("API_KEY", ""),
		AssistantID:  getEnv("ASSISTANT_ID", ""),
		ResponseMode: getEnv("RESPONSE_MODE", "text"),
		PollInterval: getEnvDuration("POLL_INTERVAL", 500*time.Millisecond),
		PollTimeout:  getEnvDuration("POLL_TIMEOUT", 2*time.Minute),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		RateLimit:   getEnvInt("RATE_LIMIT", 5),
		RateWindow:  getEnvDuration("RATE_WINDOW", time.Hour),

		MongoURI:       getEnv("MONGO_URI", ""),
		MongoDB:        getEnv("MONGO_BLOGS_DB", "blogs"),
		BlogBaseURL:    getEnv("BLOG_BASE_URL", "https://maker5587.tistory.com"),
		PostsPerPage:   getEnvInt("POSTS_PER_PAGE", 5),
		ScrapeDelay:    getEnvDuration("SCRAPE_DELAY", 500*time.Millisecond),
		ScrapeInterval: getEnvDuration("SCRAPE_INTERVAL", 0),

		AwsAccessKey: getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey: getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:    getEnv("AWS_REGION", "us-east-2"),
		BucketName:   getEnv("BUCKET_NAME", ""),
	}

	return cfg
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("WARN: %s=%q not a duration, using default %s", key, v, def)
		return def
	}
	return d
}
