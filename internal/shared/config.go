package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	JWTSecret   string
	TokenTTL    time.Duration
	RefreshTTL  time.Duration
	CacheTTL    time.Duration

	// notifier worker
	NotifyWorkers   int
	NotifyBatch     int
	NotifyPollEvery time.Duration

	// chat
	ChatMsgRate  int // messages per second per connection
	ChatMsgBurst int
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:          env("APP_ENV", "prod"),
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		MetricsAddr:     env("METRICS_ADDR", ":9100"),
		MySQLDSN:        env("MYSQL_DSN", "root:root@tcp(localhost:3306)/jooru?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:       env("REDIS_ADDR", "localhost:6379"),
		RedisPass:       env("REDIS_PASSWORD", ""),
		RedisDB:         atoi("REDIS_DB", 0),
		JWTSecret:       env("JWT_SECRET", ""),
		TokenTTL:        time.Duration(atoi("TOKEN_TTL_MINUTES", 30)) * time.Minute,
		RefreshTTL:      time.Duration(atoi("REFRESH_TTL_HOURS", 24*7)) * time.Hour,
		CacheTTL:        time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		NotifyWorkers:   atoi("NOTIFY_WORKERS", 8),
		NotifyBatch:     atoi("NOTIFY_BATCH", 100),
		NotifyPollEvery: time.Duration(atoi("NOTIFY_POLL_SECONDS", 5)) * time.Second,
		ChatMsgRate:     atoi("CHAT_MSG_RATE", 5),
		ChatMsgBurst:    atoi("CHAT_MSG_BURST", 10),
	}
	if c.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty; tokens will not survive restarts securely")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
