package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the service settings. Keys are plain environment variable names.
type Config struct {
	HTTPPort string

	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSslMode     string
	DBAutoMigrate bool

	LogLevel  string
	LogFormat string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	TemplateCacheTTL    time.Duration
	TemplateCacheSize   int
	ProgressMaxAttempts int

	ReconcileSchedule string
	WorkerPoolSize    int
}

// LoadConfig reads an optional .env file, an optional config.yaml and the
// environment, in increasing order of precedence.
func LoadConfig(paths ...string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		HTTPPort:            v.GetString("HTTP_PORT"),
		DBHost:              v.GetString("DB_HOST"),
		DBPort:              v.GetString("DB_PORT"),
		DBUser:              v.GetString("DB_USER"),
		DBPassword:          v.GetString("DB_PASSWORD"),
		DBName:              v.GetString("DB_NAME"),
		DBSslMode:           v.GetString("DB_SSLMODE"),
		DBAutoMigrate:       v.GetBool("DB_AUTO_MIGRATE"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		LogFormat:           v.GetString("LOG_FORMAT"),
		RedisAddr:           v.GetString("REDIS_ADDR"),
		RedisPassword:       v.GetString("REDIS_PASSWORD"),
		RedisDB:             v.GetInt("REDIS_DB"),
		TemplateCacheTTL:    v.GetDuration("TEMPLATE_CACHE_TTL"),
		TemplateCacheSize:   v.GetInt("TEMPLATE_CACHE_SIZE"),
		ProgressMaxAttempts: v.GetInt("PROGRESS_MAX_ATTEMPTS"),
		ReconcileSchedule:   v.GetString("RECONCILE_SCHEDULE"),
		WorkerPoolSize:      v.GetInt("WORKER_POOL_SIZE"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "fz_production")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("TEMPLATE_CACHE_TTL", "10m")
	v.SetDefault("TEMPLATE_CACHE_SIZE", 1000)
	v.SetDefault("PROGRESS_MAX_ATTEMPTS", 3)
	v.SetDefault("RECONCILE_SCHEDULE", "0 */5 * * * *")
	v.SetDefault("WORKER_POOL_SIZE", 16)
}

// Validate rejects settings the service cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.HTTPPort == "" {
		errs = append(errs, errors.New("HTTP_PORT must not be empty"))
	}
	if c.DBHost == "" || c.DBName == "" {
		errs = append(errs, errors.New("DB_HOST and DB_NAME must not be empty"))
	}
	if c.TemplateCacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("TEMPLATE_CACHE_TTL must be positive, got %s", c.TemplateCacheTTL))
	}
	if c.TemplateCacheSize <= 0 {
		errs = append(errs, fmt.Errorf("TEMPLATE_CACHE_SIZE must be positive, got %d", c.TemplateCacheSize))
	}
	if c.ProgressMaxAttempts <= 0 {
		errs = append(errs, fmt.Errorf("PROGRESS_MAX_ATTEMPTS must be positive, got %d", c.ProgressMaxAttempts))
	}
	if c.WorkerPoolSize <= 0 {
		errs = append(errs, fmt.Errorf("WORKER_POOL_SIZE must be positive, got %d", c.WorkerPoolSize))
	}
	return errors.Join(errs...)
}
