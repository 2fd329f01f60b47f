package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	FrontendURL string

	// OAuth 2.0 app credentials (authorization URL).
	TwitterClientID string

	// OAuth 1.0a app credentials (handshake + signed writes).
	TwitterConsumerKey    string
	TwitterConsumerSecret string

	// App-only bearer token for read-side verification queries.
	TwitterBearerToken string

	TwitterCallbackURL string

	// Verification targets.
	TargetHandle  string
	TargetTweetID string

	RedisAddr     string
	RedisPassword string

	// Client-side settings (tasks-cli).
	APIBaseURL string
	APITimeout time.Duration
	StateDir   string
	TasksFile  string
}

func Load() Config {

	// Missing .env is fine; env vars may come from the environment.
	_ = godotenv.Load()

	cfg := Config{

		AppPort:     getenv("APP_PORT", "5000"),
		FrontendURL: getenv("FRONTEND_URL", "http://localhost:8080"),

		TwitterClientID: os.Getenv("TWITTER_CLIENT_ID"),

		TwitterConsumerKey:    os.Getenv("TWITTER_CONSUMER_KEY"),
		TwitterConsumerSecret: os.Getenv("TWITTER_CONSUMER_SECRET"),

		TwitterBearerToken: os.Getenv("TWITTER_BEARER_TOKEN"),

		TwitterCallbackURL: os.Getenv("TWITTER_CALLBACK_URL"),

		TargetHandle:  getenv("TWITTER_TARGET_HANDLE", "JumpGorby"),
		TargetTweetID: getenv("TWITTER_TARGET_TWEET_ID", "1940748103008899446"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		APIBaseURL: getenv("VITE_API_URL", "http://localhost:5000"),
		APITimeout: 10 * time.Second,
		StateDir:   getenv("STATE_DIR", defaultStateDir()),
		TasksFile:  os.Getenv("TASKS_FILE"),
	}

	return cfg

}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gorbyjump"
	}
	return home + string(os.PathSeparator) + ".gorbyjump"
}
