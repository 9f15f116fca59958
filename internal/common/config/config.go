package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port int `env:"PORT" envDefault:"8080"`
	}

	Telegram struct {
		BotToken string  `env:"BOT_TOKEN,required"`
		AdminIDs []int64 `env:"ADMIN_IDS" envSeparator:","`

		// Files at or under this size are sent inline; Telegram caps bot
		// uploads at 50 MiB, so the default stays just below it.
		MaxDirectBytes int64 `env:"MAX_TELEGRAM_BYTES" envDefault:"51380224"`
	}

	Webhook struct {
		// When Base is empty the bot falls back to long polling.
		Base       string `env:"WEBHOOK_BASE"`
		SecretPath string `env:"SECRET_PATH" envDefault:"secret_path_12345"`
	}

	Store struct {
		// file | redis
		Backend  string `env:"STORE_BACKEND" envDefault:"file"`
		DataFile string `env:"DATA_FILE" envDefault:"bot_data.json"`
	}

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	S3 struct {
		Endpoint  string `env:"S3_ENDPOINT"`
		AccessKey string `env:"S3_ACCESS_KEY"`
		SecretKey string `env:"S3_SECRET_KEY"`
		Bucket    string `env:"S3_BUCKET"`
	}

	Download struct {
		FetchTimeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"10m"`
	}
}

// S3Configured reports whether the object storage collaborator can be used.
func (c *Config) S3Configured() bool {
	return c.S3.Endpoint != "" && c.S3.AccessKey != "" && c.S3.SecretKey != "" && c.S3.Bucket != ""
}

// Load reads the environment into a Config. A missing BOT_TOKEN is the only
// startup-fatal condition and surfaces here as an error.
func Load() (*Config, error) {
	// .env is optional; in production the variables are set directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	return cfg, nil
}
