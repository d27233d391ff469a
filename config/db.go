package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"housecleaning-backend/models"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// gormLogWriter forwards GORM's log lines to zerolog.
type gormLogWriter struct {
	log *zerolog.Logger
}

func (w gormLogWriter) Printf(format string, args ...interface{}) {
	w.log.Info().Msgf(strings.TrimSpace(format), args...)
}

func gormLogLevel(raw string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// mysqlDSN builds a go-sql-driver DSN. A mysql:// URL wins over the discrete
// fields; any other non-empty URL is taken as a ready-made DSN.
func (c DatabaseConfig) mysqlDSN() (string, error) {
	if c.URL != "" && !strings.HasPrefix(c.URL, "mysql://") {
		return c.URL, nil
	}

	dsn := gomysql.NewConfig()
	dsn.Net = "tcp"
	dsn.User, dsn.Passwd, dsn.DBName = c.User, c.Password, c.Name
	dsn.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	dsn.ParseTime = true
	dsn.Loc = time.Local
	dsn.Params = map[string]string{"charset": "utf8mb4"}

	if c.URL != "" {
		u, err := url.Parse(c.URL)
		if err != nil {
			return "", fmt.Errorf("parse mysql url: %w", err)
		}
		port := u.Port()
		if port == "" {
			port = "3306"
		}
		dsn.User = u.User.Username()
		dsn.Passwd, _ = u.User.Password()
		dsn.Addr = net.JoinHostPort(u.Hostname(), port)
		dsn.DBName = strings.TrimPrefix(u.Path, "/")

		for key, vals := range u.Query() {
			if len(vals) == 0 {
				continue
			}
			switch key {
			case "parseTime":
				parseTime, err := strconv.ParseBool(vals[0])
				if err != nil {
					return "", fmt.Errorf("mysql url parseTime: %w", err)
				}
				dsn.ParseTime = parseTime
			case "loc":
				loc, err := time.LoadLocation(vals[0])
				if err != nil {
					return "", fmt.Errorf("mysql url loc: %w", err)
				}
				dsn.Loc = loc
			default:
				dsn.Params[key] = vals[0]
			}
		}
	}

	if dsn.DBName == "" {
		return "", errors.New("mysql database name is empty")
	}
	return dsn.FormatDSN(), nil
}

// Dialector picks the GORM dialector for the configured driver. A URL wins
// over the discrete host/port/user fields.
func (c DatabaseConfig) Dialector() (gorm.Dialector, error) {
	switch c.Driver {
	case DriverMySQL:
		dsn, err := c.mysqlDSN()
		if err != nil {
			return nil, err
		}
		return mysql.Open(dsn), nil

	case DriverPostgres:
		dsn := c.URL
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
				c.Host, c.Port, c.User, c.Password, c.Name,
			)
		}
		return postgres.Open(dsn), nil

	case DriverSQLite:
		path := c.Path
		if c.URL != "" {
			path = strings.TrimPrefix(c.URL, "sqlite://")
		}
		if !strings.HasPrefix(path, "file:") && path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
		return sqlite.Open(path), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", c.Driver)
}

// ConnectDatabase opens the database and migrates the schema.
func ConnectDatabase(cfg DatabaseConfig, log *zerolog.Logger) (*gorm.DB, error) {
	dialector, err := cfg.Dialector()
	if err != nil {
		return nil, err
	}

	gormLogger := logger.New(
		gormLogWriter{log: log},
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogLevel(cfg.LogLevel),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info().Str("driver", cfg.Driver).Msg("database connected and migrated")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.AdminPassword{},
		&models.Booking{},
		&models.BookingEvent{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
