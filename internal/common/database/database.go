// internal/common/database/database.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/lib/pq"
	go_ora "github.com/sijms/go-ora/v2"

	"askdata/internal/common/config"
)

// Opener hands out a fresh connection handle per query. Callers own the
// returned *sql.DB and must close it.
type Opener interface {
	Open(ctx context.Context) (*sql.DB, error)
}

// SQLOpener opens database/sql handles for a fixed driver and DSN.
type SQLOpener struct {
	driver string
	dsn    string
	target string
}

// NewSQLOpener is used directly by tests (driver "sqlmock").
func NewSQLOpener(driver, dsn string) *SQLOpener {
	return &SQLOpener{driver: driver, dsn: dsn, target: driver}
}

// NewOpener builds the DSN for the configured driver. The password is
// only ever held inside the DSN.
func NewOpener(cfg config.DatabaseConfig, password string) (*SQLOpener, error) {
	dsn, err := BuildDSN(cfg, password)
	if err != nil {
		return nil, err
	}
	return &SQLOpener{driver: cfg.Driver, dsn: dsn, target: cfg.Target()}, nil
}

// BuildDSN renders the driver-specific connection string.
func BuildDSN(cfg config.DatabaseConfig, password string) (string, error) {
	switch cfg.Driver {
	case config.DriverOracle:
		options := map[string]string{}
		if cfg.WalletPath != "" {
			options["WALLET"] = cfg.WalletPath
			options["SSL"] = "enable"
		}
		return go_ora.BuildJDBC(cfg.User, password, cfg.ConnectString, options), nil
	case config.DriverPostgres:
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(cfg.User, password),
			Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Path:     "/" + cfg.Name,
			RawQuery: url.Values{"sslmode": []string{cfg.SSLMode}}.Encode(),
		}
		return u.String(), nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Target is the credential-free description used in logs.
func (o *SQLOpener) Target() string {
	return o.target
}

// Open opens and pings a single-connection handle.
func (o *SQLOpener) Open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open(o.driver, o.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", o.driver, err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", o.target, err)
	}
	return db, nil
}
