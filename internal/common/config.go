package common

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	OCR      OCRConfig
	Extract  ExtractConfig
	Queue    QueueConfig
}

// DatabaseConfig holds database-related configuration.
// DSN is a postgres URL or a sqlite file path (":memory:" for tests).
type DatabaseConfig struct {
	DSN              string `validate:"required"`
	MaxConns         int32  `validate:"gte=0"`
	MinConns         int32  `validate:"gte=0,ltefield=MaxConns"`
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	GRPCAddr       string   `validate:"required"`
	MaxUploadBytes int      `validate:"gt=0"`
	WatchDirs      []string // drop folders scanned by cardscand
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Provider         string `validate:"oneof=tesseract gosseract remote"`
	Tesseract        string
	Lang             string `validate:"required"`
	TessdataDir      string
	HeicConverter    string
	ArtifactCacheDir string
	MaxImageDim      int `validate:"gte=0"`

	RemoteEndpoint string        `validate:"omitempty,url"`
	RemoteAPIKey   string        `validate:"required_if=Provider remote"`
	RemoteTimeout  time.Duration `validate:"gte=0"`
}

// ExtractConfig holds contact extraction configuration
type ExtractConfig struct {
	LexiconPath   string
	Languages     []string
	MaxInputBytes int `validate:"gt=0"`
}

// QueueConfig holds background processing configuration
type QueueConfig struct {
	Workers        int `validate:"gt=0"`
	Size           int `validate:"gt=0"`
	ProcessTimeout time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", "./cardscan.db"),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 1),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Server: ServerConfig{
			GRPCAddr:       getEnv("GRPC_ADDR", ":8080"),
			MaxUploadBytes: getEnvAsInt("MAX_UPLOAD_BYTES", 10<<20),
			WatchDirs:      getEnvAsList("WATCH_DIRS"),
		},
		OCR: OCRConfig{
			Provider:         getEnv("OCR_PROVIDER", "tesseract"),
			Tesseract:        getEnv("TESSERACT_BIN", "tesseract"),
			Lang:             getEnv("TESSERACT_LANG", "eng+msa"),
			TessdataDir:      getEnv("TESSDATA_PREFIX", ""),
			HeicConverter:    getEnv("HEIC_CONVERTER", "magick"),
			ArtifactCacheDir: getEnv("ARTIFACT_CACHE_DIR", "./tmp"),
			MaxImageDim:      getEnvAsInt("OCR_MAX_IMAGE_DIM", 2400),
			RemoteEndpoint:   getEnv("OCR_API_ENDPOINT", "https://api.optiic.dev/ocr"),
			RemoteAPIKey:     getEnv("OCR_API_KEY", ""),
			RemoteTimeout:    getEnvAsDuration("OCR_API_TIMEOUT", 30*time.Second),
		},
		Extract: ExtractConfig{
			LexiconPath:   getEnv("LEXICON_PATH", ""),
			Languages:     getEnvAsList("EXTRACT_LANGUAGES"),
			MaxInputBytes: getEnvAsInt("EXTRACT_MAX_INPUT_BYTES", 64<<10),
		},
		Queue: QueueConfig{
			Workers:        getEnvAsInt("QUEUE_WORKERS", 4),
			Size:           getEnvAsInt("QUEUE_SIZE", 256),
			ProcessTimeout: getEnvAsDuration("QUEUE_TIMEOUT", 2*time.Minute),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma separated value, dropping blanks.
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks the loaded configuration
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return NewAppError("CONFIG_ERROR", fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()), ErrInvalidInput)
	}
	return NewAppError("CONFIG_ERROR", "invalid configuration", err)
}
