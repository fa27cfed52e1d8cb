package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"forwarddesk/internal/config"

	_ "github.com/lib/pq"
	"go.uber.org/fx"
)

// PostgresDB wraps the sql handle for the BaaS-managed Postgres tables
// (billing records live there, everything else is in Mongo).
type PostgresDB struct {
	DB *sql.DB
}

// NewPostgres opens the Postgres connection with lifecycle management.
// The connection is lazy; a failed ping is logged but not fatal so the
// API can still serve Mongo-backed report types.
func NewPostgres(lc fx.Lifecycle, cfg *config.Config) (*PostgresDB, error) {
	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		log.Printf("Postgres not reachable at startup: %v", err)
	} else {
		log.Println("Connected to Postgres!")
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Println("Closing Postgres connection...")
			return db.Close()
		},
	})

	return &PostgresDB{DB: db}, nil
}
