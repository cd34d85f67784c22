package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverMongo  = "mongo"
	DriverMemory = "memory"

	StoreRedis  = "redis"
	StoreMemory = "memory"

	CascadeStrict     = "strict"
	CascadeBestEffort = "best_effort"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Environment string         `mapstructure:"environment"`
	Server      ServerConfig   `mapstructure:"server"`
	Database    DatabaseConfig `mapstructure:"database"`
	Redis       RedisConfig    `mapstructure:"redis"`
	Session     SessionConfig  `mapstructure:"session"`
	Auth        AuthConfig     `mapstructure:"auth"`
	Cascade     CascadeConfig  `mapstructure:"cascade"`
	S3          S3Config       `mapstructure:"s3"`
	Log         LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Address        string        `mapstructure:"address"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	URI    string `mapstructure:"uri"`
	Name   string `mapstructure:"name"`
	// UseTransactions wraps cascade deletion in a multi-document transaction (needs a replica set).
	UseTransactions bool `mapstructure:"use_transactions"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type SessionConfig struct {
	Name   string        `mapstructure:"name"`
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
	Store  string        `mapstructure:"store"`
}

type AuthConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
	// LoginRatePerMinute limits login attempts per client IP; 0 disables the limit.
	LoginRatePerMinute int `mapstructure:"login_rate_per_minute"`
}

type CascadeConfig struct {
	Policy string `mapstructure:"policy"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// Enabled reports whether exercise image storage is configured.
func (c S3Config) Enabled() bool {
	return c.BucketName != ""
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	File     string `mapstructure:"file"`
	ToStdout bool   `mapstructure:"to_stdout"`
	JSON     bool   `mapstructure:"json"`
}

func (c Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// LoadConfig reads configuration from file or environment variables.
// A missing config.yaml in path is not an error.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// session.secret -> SESSION_SECRET
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	err = v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		err = nil
	} else if err != nil {
		return config, fmt.Errorf("read config: %w", err)
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("unmarshal config: %w", err)
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", EnvDevelopment)

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")

	v.SetDefault("database.driver", DriverMongo)
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "training_app")
	v.SetDefault("database.use_transactions", false)

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Keys without a default are invisible to AutomaticEnv during Unmarshal.
	v.SetDefault("session.name", "training.sid")
	v.SetDefault("session.secret", "")
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("session.store", StoreRedis)

	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.login_rate_per_minute", 20)

	v.SetDefault("cascade.policy", CascadeStrict)

	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.use_ssl", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.json", false)
	v.SetDefault("log.to_stdout", true)
}

// Validate reports the first configuration problem that would prevent the server from starting.
func (c Config) Validate() error {
	switch c.Environment {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("unknown environment %q", c.Environment)
	}
	if c.Session.Secret == "" {
		return errors.New("session.secret must be set")
	}
	if c.Session.TTL <= 0 {
		return errors.New("session.ttl must be positive")
	}
	switch c.Session.Store {
	case StoreRedis, StoreMemory:
	default:
		return fmt.Errorf("unknown session store %q", c.Session.Store)
	}
	switch c.Database.Driver {
	case DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	switch c.Cascade.Policy {
	case CascadeStrict, CascadeBestEffort:
	default:
		return fmt.Errorf("unknown cascade policy %q", c.Cascade.Policy)
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("auth.bcrypt_cost %d out of range", c.Auth.BcryptCost)
	}
	return nil
}
