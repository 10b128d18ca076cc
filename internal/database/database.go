// Package database supplies the shared connection handle the
// repositories operate on.
package database

import (
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/lib/pq"

	"asset-registry-api/internal/config"
)

// Provider hands out the process-wide database handle. The handle is
// opened lazily from configuration on first use, exactly once even under
// concurrent first-use, and is deliberately constructed and injected
// rather than reached through package globals.
type Provider struct {
	cfg  *config.Config
	once sync.Once
	db   *sql.DB
	err  error
}

// NewProvider creates a Provider over cfg. No connection is opened until
// DB is first called.
func NewProvider(cfg *config.Config) *Provider {
	return &Provider{cfg: cfg}
}

// DB returns the lazily initialized handle. Initialization failure is
// sticky: every subsequent call reports the same error.
func (p *Provider) DB() (*sql.DB, error) {
	p.once.Do(func() {
		p.db, p.err = InitDB(p.cfg)
	})
	return p.db, p.err
}

// Close releases the underlying handle if it was ever opened.
func (p *Provider) Close() error {
	if p.db == nil {
		return nil
	}
	return p.db.Close()
}

// InitDB opens and verifies a database handle with proper pool
// configuration.
func InitDB(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.GetDatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Configure connection pool settings
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}
