package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"time"
)

// Config holds the connection parameters of the sink database.
type Config struct {
	Name     string
	User     string
	Password string
	Host     string
	Port     int
	SSLMode  string
	Timeout  time.Duration
}

// Connect opens a connection pool to the sink database and verifies it with a ping.
func Connect(ctx context.Context, cfg Config) (*bun.DB, error) {
	options := []pgdriver.Option{
		pgdriver.WithNetwork("tcp"),
		pgdriver.WithAddr(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		pgdriver.WithUser(cfg.User),
		pgdriver.WithPassword(cfg.Password),
		pgdriver.WithDatabase(cfg.Name),
		pgdriver.WithInsecure(cfg.SSLMode == "" || cfg.SSLMode == "disable"),
		pgdriver.WithApplicationName("wormhole-ingester"),
	}
	if cfg.Timeout > 0 {
		options = append(options, pgdriver.WithTimeout(cfg.Timeout))
	}

	db := bun.NewDB(sql.OpenDB(pgdriver.NewConnector(options...)), pgdialect.New())

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database [%s]: %w", cfg.Name, err)
	}

	return db, nil
}
