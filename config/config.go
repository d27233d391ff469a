package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	App      AppConfig      `yaml:"app"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	CORS     CORSConfig     `yaml:"cors"`
	Auth     AuthConfig     `yaml:"auth"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type ServerConfig struct {
	Port              int           `yaml:"port"`
	ReadTimeout       time.Duration `yaml:"read_timeout"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	// Path is the SQLite database file.
	Path     string `yaml:"path"`
	LogLevel string `yaml:"log_level"`
}

type RedisConfig struct {
	Address    string        `yaml:"address"`
	Password   string        `yaml:"password"`
	DB         int           `yaml:"db"`
	PoolSize   int           `yaml:"pool_size"`
	BookingTTL time.Duration `yaml:"booking_ttl"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

type CORSConfig struct {
	BookingOrigins []string `yaml:"booking_origins"`
	AuthOrigins    []string `yaml:"auth_origins"`
}

type AuthConfig struct {
	BcryptCost      int    `yaml:"bcrypt_cost"`
	DefaultPassword string `yaml:"default_password"`
}

var (
	defaultBookingOrigins = []string{"http://localhost:5173", "https://sparklecleaning.vercel.app"}
	defaultAuthOrigins    = []string{"http://localhost:5173"}
)

// Load reads an optional .env file, then the YAML file at path (skipped when
// path is empty), then applies environment overrides and defaults.
func Load(path string) (*Config, error) {
	// .env is optional; the process environment is enough on its own.
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}

		expanded := []byte(os.ExpandEnv(string(data)))
		if err := yaml.Unmarshal(expanded, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) error {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}

	if err := setInt("PORT", &c.Server.Port); err != nil {
		return err
	}

	setString("DB_DRIVER", &c.Database.Driver)
	// MYSQL_URL wins over DATABASE_URL.
	setString("DATABASE_URL", &c.Database.URL)
	setString("MYSQL_URL", &c.Database.URL)
	setString("DB_HOST", &c.Database.Host)
	if err := setInt("DB_PORT", &c.Database.Port); err != nil {
		return err
	}
	setString("DB_USER", &c.Database.User)
	setString("DB_PASS", &c.Database.Password)
	setString("DB_NAME", &c.Database.Name)
	setString("DB_PATH", &c.Database.Path)

	setString("REDIS_ADDR", &c.Redis.Address)
	setString("REDIS_PASSWORD", &c.Redis.Password)
	if err := setInt("REDIS_DB", &c.Redis.DB); err != nil {
		return err
	}

	setString("LOG_LEVEL", &c.Logging.Level)
	setString("LOG_FORMAT", &c.Logging.Format)

	if v := strings.TrimSpace(os.Getenv("METRICS_ENABLED")); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("METRICS_ENABLED: %w", err)
		}
		c.Metrics.Enabled = enabled
	}
	if err := setInt("METRICS_PORT", &c.Metrics.Port); err != nil {
		return err
	}

	setString("ADMIN_DEFAULT_PASSWORD", &c.Auth.DefaultPassword)

	if origins := ParseOrigins(os.Getenv("BOOKING_CORS_ORIGINS")); len(origins) > 0 {
		c.CORS.BookingOrigins = origins
	}
	if origins := ParseOrigins(os.Getenv("AUTH_CORS_ORIGINS")); len(origins) > 0 {
		c.CORS.AuthOrigins = origins
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "housecleaning-backend"
	}
	if c.App.Environment == "" {
		c.App.Environment = "development"
	}

	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.ReadHeaderTimeout == 0 {
		c.Server.ReadHeaderTimeout = 5 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 20 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15 * time.Second
	}

	if c.Database.Driver == "" {
		c.Database.Driver = driverFromURL(c.Database.URL)
	}
	switch c.Database.Driver {
	case DriverMySQL:
		if c.Database.Host == "" {
			c.Database.Host = "127.0.0.1"
		}
		if c.Database.Port == 0 {
			c.Database.Port = 3306
		}
		if c.Database.User == "" {
			c.Database.User = "root"
		}
		if c.Database.Name == "" {
			c.Database.Name = "housecleaning"
		}
	case DriverPostgres:
		if c.Database.Host == "" {
			c.Database.Host = "127.0.0.1"
		}
		if c.Database.Port == 0 {
			c.Database.Port = 5432
		}
		if c.Database.User == "" {
			c.Database.User = "postgres"
		}
		if c.Database.Name == "" {
			c.Database.Name = "housecleaning"
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			c.Database.Path = "data/housecleaning.db"
		}
	}
	if c.Database.LogLevel == "" {
		c.Database.LogLevel = "warn"
	}

	if c.Redis.BookingTTL == 0 {
		c.Redis.BookingTTL = 10 * time.Minute
	}

	if c.Metrics.Enabled && c.Metrics.Port == 0 {
		c.Metrics.Port = 9090
	}

	if len(c.CORS.BookingOrigins) == 0 {
		c.CORS.BookingOrigins = append([]string(nil), defaultBookingOrigins...)
	}
	if len(c.CORS.AuthOrigins) == 0 {
		c.CORS.AuthOrigins = append([]string(nil), defaultAuthOrigins...)
	}

	if c.Auth.BcryptCost == 0 {
		c.Auth.BcryptCost = bcrypt.DefaultCost
	}
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Metrics.Enabled && (c.Metrics.Port <= 0 || c.Metrics.Port > 65535) {
		return fmt.Errorf("invalid metrics port %d", c.Metrics.Port)
	}

	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	if len(c.CORS.BookingOrigins) == 0 || len(c.CORS.AuthOrigins) == 0 {
		return errors.New("cors origins must not be empty")
	}
	return nil
}

// ParseOrigins splits a comma-separated origin list, dropping blanks.
func ParseOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func driverFromURL(raw string) string {
	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return DriverPostgres
	case strings.HasPrefix(raw, "sqlite://"), strings.HasPrefix(raw, "file:"):
		return DriverSQLite
	default:
		return DriverMySQL
	}
}
