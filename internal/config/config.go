// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Config is the server and historian configuration, read from the
// environment (a .env file is loaded by godotenv/autoload in main).
type Config struct {
	Port              string
	TrickDelay        time.Duration
	OriginPatterns    []string
	MessagesPerSecond float64
	Burst             int

	RedisAddr   string // empty disables the event journal
	RedisDB     int
	QueueName   string
	DatabaseURL string // empty disables the result store

	HistorianBatchSize int
	HistorianFlush     time.Duration

	LogLevel  string
	LogFormat string
}

// Load reads the configuration, falling back to defaults for anything unset
// or malformed.
func Load() Config {
	return Config{
		Port:              getEnv("PORT", "8080"),
		TrickDelay:        time.Duration(getEnvInt("TRICK_DELAY_MS", 1500)) * time.Millisecond,
		OriginPatterns:    splitList(getEnv("WS_ORIGIN_PATTERNS", "*")),
		MessagesPerSecond: getEnvFloat("WS_MESSAGES_PER_SEC", 10),
		Burst:             getEnvInt("WS_BURST", 20),

		RedisAddr:   os.Getenv("REDIS_ADDR"),
		RedisDB:     getEnvInt("REDIS_DB", 0),
		QueueName:   getEnv("HISTORIAN_QUEUE_NAME", "fodinha_events"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		HistorianBatchSize: getEnvInt("HISTORIAN_BATCH_SIZE", 20),
		HistorianFlush:     time.Duration(getEnvInt("HISTORIAN_FLUSH_MS", 500)) * time.Millisecond,

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
}

// Addr is the listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}

// NewLogger builds the process logger. Unknown levels fall back to info.
func (c Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	if strings.EqualFold(c.LogFormat, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func getEnvFloat(key string, def float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
