package config

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	sslModeDisable = "disable"
	sslModeRequire = "require"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type (
	Config struct {
		Host string `mapstructure:"HOST"`
		Port string `mapstructure:"PORT"`
		Env  string `mapstructure:"ENV"`

		DBDriver       string `mapstructure:"DB_DRIVER"`
		DBHost         string `mapstructure:"DB_HOST"`
		DBPort         string `mapstructure:"DB_PORT"`
		DBUser         string `mapstructure:"DB_USER"`
		DBPassword     string `mapstructure:"DB_PASSWORD"`
		DBName         string `mapstructure:"DB_NAME"`
		DBSSLMode      string `mapstructure:"DB_SSL_MODE"`
		DBPath         string `mapstructure:"DB_PATH"`
		DBMaxOpenConns int    `mapstructure:"DB_MAX_OPEN_CONNS"`
		DBLogLevel     string `mapstructure:"DB_LOG_LEVEL"`

		// StatementTimeout bounds every data-access call.
		StatementTimeout time.Duration `mapstructure:"STATEMENT_TIMEOUT"`

		HashTime      uint32 `mapstructure:"HASH_TIME"`
		HashMemoryKiB uint32 `mapstructure:"HASH_MEMORY_KIB"`
		HashThreads   uint8  `mapstructure:"HASH_THREADS"`
	}
)

var defaults = map[string]interface{}{
	"HOST":              "0.0.0.0",
	"PORT":              "1323",
	"ENV":               EnvDevelopment,
	"DB_DRIVER":         DriverPostgres,
	"DB_HOST":           "0.0.0.0",
	"DB_PORT":           "5432",
	"DB_USER":           "user",
	"DB_PASSWORD":       "password",
	"DB_NAME":           "db",
	"DB_SSL_MODE":       sslModeDisable,
	"DB_PATH":           "recipebox.db",
	"DB_MAX_OPEN_CONNS": 10,
	"DB_LOG_LEVEL":      "warn",
	"STATEMENT_TIMEOUT": "5s",
	"HASH_TIME":         1,
	"HASH_MEMORY_KIB":   64 * 1024,
	"HASH_THREADS":      4,
}

func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RECIPEBOX")

	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key); err != nil {
			return nil, errors.Wrapf(err, "bind env %s", key)
		}
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	if err := validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// PostgresDSN carries the statement timeout as a runtime parameter so the
// server cancels runaway statements even if the client context is lost.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s statement_timeout=%d",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode, c.StatementTimeout.Milliseconds())
}

func validate(cfg *Config) error {
	if !oneOf(cfg.DBSSLMode, sslModeDisable, sslModeRequire) {
		return errors.New(fmt.Sprintf("DB SSL mode is invalid: %s", cfg.DBSSLMode))
	}
	if !oneOf(cfg.DBDriver, DriverPostgres, DriverSQLite) {
		return errors.New(fmt.Sprintf("DB driver is invalid: %s", cfg.DBDriver))
	}
	if !oneOf(cfg.Env, EnvDevelopment, EnvProduction) {
		return errors.New(fmt.Sprintf("env is invalid: %s", cfg.Env))
	}
	if cfg.StatementTimeout <= 0 {
		return errors.New("statement timeout must be positive")
	}
	if cfg.HashTime == 0 || cfg.HashMemoryKiB == 0 || cfg.HashThreads == 0 {
		return errors.New("password hash parameters must be positive")
	}
	return nil
}

func oneOf(value string, valid ...string) bool {
	for _, v := range valid {
		if value == v {
			return true
		}
	}
	return false
}
