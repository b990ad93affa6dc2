// Package conf reads the service configuration from the environment.
package conf

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gapeval/backend/scoring"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

const (
	StoreSQLite   = "sqlite"
	StoreMongo    = "mongo"
	StoreDynamoDB = "dynamodb"

	NonceStoreMemory = "memory"
	NonceStoreRedis  = "redis"
)

type Config struct {
	MaxScore      float64 `env:"MAX_SCORE,required"`
	AgreeScore    float64 `env:"AGREE_SCORE,required"`
	DisagreeScore float64 `env:"DISAGREE_SCORE,required"`
	NeitherScore  float64 `env:"NEITHER_SCORE,required"`

	SecretKey       string  `env:"SECRET_KEY" envDefault:"dev-secret-must-be-32-chars-or-more"`
	Algorithm       string  `env:"ALGORITHM" envDefault:"HS256"`
	TokenTTLSeconds float64 `env:"TOKEN_TTL" envDefault:"86400"`
	NonceTTLSeconds float64 `env:"NONCE_TTL" envDefault:"300"`

	HTTPAddr string   `env:"HTTP_ADDR" envDefault:":8080"`
	Origins  []string `env:"ORIGINS" envDefault:"http://localhost:5173" envSeparator:","`
	LogLevel string   `env:"LOG_LEVEL" envDefault:"info"`
	LogJSON  bool     `env:"LOG_JSON" envDefault:"false"`

	StoreDriver       string `env:"STORE_DRIVER" envDefault:"sqlite"`
	SQLitePath        string `env:"SQLITE_PATH" envDefault:"gapeval.db"`
	MongoURL          string `env:"MONGODB_URL" envDefault:"mongodb://localhost:27017"`
	DatabaseName      string `env:"DATABASE_NAME" envDefault:"gapeval"`
	DynamoRegion      string `env:"DYNAMODB_REGION" envDefault:"eu-central-1"`
	DynamoTablePrefix string `env:"DYNAMODB_TABLE_PREFIX" envDefault:"gapeval_"`
	DynamoEndpoint    string `env:"DYNAMODB_ENDPOINT"`

	NonceStore string `env:"NONCE_STORE" envDefault:"memory"`
	RedisAddr  string `env:"REDIS_ADDR" envDefault:"localhost:6379"`

	KarmaGapAPI     string        `env:"KARMA_GAP_API"`
	KarmaGapTimeout time.Duration `env:"KARMA_GAP_TIMEOUT" envDefault:"10s"`

	QuestionsFile string `env:"QUESTIONS_FILE" envDefault:"questions.json"`
}

// Load reads .env when present, then the process environment, and
// validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	for i, o := range cfg.Origins {
		cfg.Origins[i] = strings.TrimSpace(o)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := c.Weights().Validate(); err != nil {
		return err
	}
	if _, ok := jwt.GetSigningMethod(c.Algorithm).(*jwt.SigningMethodHMAC); !ok {
		return fmt.Errorf("ALGORITHM must be one of HS256, HS384, HS512, got %q", c.Algorithm)
	}
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY must not be empty")
	}
	if c.TokenTTLSeconds <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.NonceTTLSeconds <= 0 {
		return errors.New("NONCE_TTL must be positive")
	}
	switch c.StoreDriver {
	case StoreSQLite, StoreMongo, StoreDynamoDB:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	switch c.NonceStore {
	case NonceStoreMemory, NonceStoreRedis:
	default:
		return fmt.Errorf("unknown NONCE_STORE %q", c.NonceStore)
	}
	return nil
}

func (c *Config) Weights() scoring.Weights {
	return scoring.Weights{
		Max:      c.MaxScore,
		Agree:    c.AgreeScore,
		Disagree: c.DisagreeScore,
		Neither:  c.NeitherScore,
	}
}

func (c *Config) TokenTTL() time.Duration {
	return seconds(c.TokenTTLSeconds)
}

func (c *Config) NonceTTL() time.Duration {
	return seconds(c.NonceTTLSeconds)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
