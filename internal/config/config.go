package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type ManagerAPIConfig struct {
	Addr         string        `envconfig:"API_ADDR"          default:":8081"`
	ReadTimeout  time.Duration `envconfig:"API_READ_TIMEOUT"  default:"10s"`
	WriteTimeout time.Duration `envconfig:"API_WRITE_TIMEOUT" default:"10s"`
	IdleTimeout  time.Duration `envconfig:"API_IDLE_TIMEOUT"  default:"60s"`
}

// Config holds the overall application configuration.
type Config struct {
	DatabaseURL  string `envconfig:"DATABASE_URL" required:"true"`
	LogLevel     string `envconfig:"LOG_LEVEL"                   default:"info"`
	WorkerConfig WorkerConfig
	ManagerAPI   ManagerAPIConfig
}

// WorkerConfig holds intervals and batch sizes for the background engine.
type WorkerConfig struct {
	EmailDispatchInterval time.Duration `envconfig:"WORKER_EMAIL_INTERVAL"         default:"5s"`
	EmailDispatchBatch    int           `envconfig:"WORKER_EMAIL_BATCH_SIZE"       default:"100"`
	EmailMaxAttempts      int32         `envconfig:"WORKER_EMAIL_MAX_ATTEMPTS"     default:"3"`
	CacheRefreshInterval  time.Duration `envconfig:"WORKER_CACHE_REFRESH_INTERVAL" default:"1m"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	log.Println("Loading configuration from environment variables...")

	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found, skipping: %v", err)
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
