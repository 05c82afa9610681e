package utils

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config collects the environment the bot runs with.
type Config struct {
	Env         string // "local", "dev", "prod"
	ServiceName string

	BotToken      string
	CommandPrefix string
	Channels      []string // allowed channel IDs, empty means all

	DatabaseURL string // Postgres; SQLite is used when empty
	SQLitePath  string
	RedisAddr   string // optional shared draw history

	KafkaBrokers string
	KafkaTopic   string

	Port         string
	StoreTimeout time.Duration
	WheelSeed    int64
}

// LoadConfig reads .env if present and then the process environment.
func LoadConfig() Config {
	_ = godotenv.Load()

	cfg := Config{
		Env:           getEnv("ENV", "local"),
		ServiceName:   getEnv("SERVICE_NAME", "chatwheel"),
		BotToken:      getEnv("BOT_TOKEN", ""),
		CommandPrefix: getEnv("COMMAND_PREFIX", "!"),
		Channels:      splitList(getEnv("CHANNELS", "")),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		SQLitePath:    getEnv("SQLITE_PATH", "chatwheel.db"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		KafkaBrokers:  getEnv("KAFKA_BROKERS", ""),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "roulette.spins"),
		Port:          getEnv("PORT", "8080"),
		StoreTimeout:  5 * time.Second,
	}

	if v := getEnv("WHEEL_SEED", ""); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.WheelSeed = seed
		}
	}
	if v := getEnv("STORE_TIMEOUT", ""); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.StoreTimeout = d
		}
	}
	return cfg
}

// ChannelAllowed reports whether the bot should answer in channelID.
func (c Config) ChannelAllowed(channelID string) bool {
	if len(c.Channels) == 0 {
		return true
	}
	for _, ch := range c.Channels {
		if ch == channelID {
			return true
		}
	}
	return false
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
