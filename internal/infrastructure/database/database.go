package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"docsign-client/internal/config"
)

type Database struct {
	DB     *sql.DB
	logger *zap.Logger
}

// NewDatabase opens the request log store. When no host is configured the
// returned Database has a nil DB and callers treat logging as disabled.
func NewDatabase(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (*Database, error) {
	if cfg.Database.Host == "" {
		logger.Warn("Database host not configured, API request logging disabled")
		return &Database{logger: logger}, nil
	}

	// Build PostgreSQL connection string
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.DBName,
		cfg.Database.SSLMode,
	)

	db, err := sql.Open(cfg.Database.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connected successfully",
		zap.String("driver", cfg.Database.Driver),
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("dbname", cfg.Database.DBName),
	)

	database := &Database{
		DB:     db,
		logger: logger,
	}

	if err := database.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return database.Close()
		},
	})

	return database, nil
}

// Enabled reports whether a connection is available
func (d *Database) Enabled() bool {
	return d != nil && d.DB != nil
}

func (d *Database) migrate() error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS api_logs (
		id SERIAL PRIMARY KEY,
		endpoint TEXT NOT NULL,
		method VARCHAR(10) NOT NULL,
		request_body TEXT DEFAULT '',
		response_body TEXT DEFAULT '',
		status_code INTEGER NOT NULL DEFAULT 0,
		duration_ms BIGINT NOT NULL DEFAULT 0,
		user_id VARCHAR(255) DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`

	if _, err := d.DB.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to create api_logs table: %w", err)
	}

	// Create index separately (PostgreSQL doesn't support IF NOT EXISTS in same statement)
	createIndexSQL := `
	CREATE INDEX IF NOT EXISTS idx_api_logs_created_at ON api_logs(created_at DESC);
	`
	if _, err := d.DB.Exec(createIndexSQL); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	d.logger.Info("Database migrations completed successfully")
	return nil
}

func (d *Database) Close() error {
	if d.DB == nil {
		return nil
	}
	return d.DB.Close()
}
