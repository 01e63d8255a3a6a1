package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresClient struct {
	Pool *pgxpool.Pool
}

func NewPostgresClient(connString string) (*PostgresClient, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	// Pool configuration
	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	client := &PostgresClient{Pool: pool}

	// Auto-migrate schema
	if err := client.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return client, nil
}

func (p *PostgresClient) Migrate() error {
	ctx := context.Background()

	// Tenant users
	_, err := p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			bot_number VARCHAR(32) NOT NULL,
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("create users table: %w", err)
	}

	// Contacts (one counterpart number per tenant, created lazily)
	_, err = p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS contacts (
			id UUID PRIMARY KEY,
			phone_number VARCHAR(32) NOT NULL,
			name VARCHAR(255),
			user_id UUID NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("create contacts table: %w", err)
	}
	p.Pool.Exec(ctx, "CREATE INDEX IF NOT EXISTS idx_contacts_user_phone ON contacts (user_id, phone_number);")

	// Messages (append-only)
	_, err = p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS messages (
			id UUID PRIMARY KEY,
			contact_id UUID NOT NULL REFERENCES contacts(id),
			user_id UUID NOT NULL REFERENCES users(id),
			sender VARCHAR(8) NOT NULL,
			content TEXT NOT NULL,
			timestamp TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("create messages table: %w", err)
	}
	p.Pool.Exec(ctx, "CREATE INDEX IF NOT EXISTS idx_messages_user_ts ON messages (user_id, timestamp DESC);")

	// Activity audit trail
	_, err = p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS activity_logs (
			id UUID PRIMARY KEY,
			contact_id UUID NOT NULL REFERENCES contacts(id),
			user_id UUID NOT NULL REFERENCES users(id),
			action_type VARCHAR(32) NOT NULL,
			message TEXT NOT NULL,
			timestamp TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("create activity_logs table: %w", err)
	}

	// Per-tenant bot settings, lazily created with defaults
	_, err = p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS bot_settings (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			personality VARCHAR(64) NOT NULL,
			language VARCHAR(8) NOT NULL,
			auto_jokes BOOLEAN NOT NULL DEFAULT TRUE,
			auto_time BOOLEAN NOT NULL DEFAULT TRUE,
			auto_greeting BOOLEAN NOT NULL DEFAULT TRUE
		);
	`)
	if err != nil {
		return fmt.Errorf("create bot_settings table: %w", err)
	}

	// Daily message counters per tenant
	_, err = p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS message_usage (
			user_id UUID NOT NULL REFERENCES users(id),
			date DATE NOT NULL,
			messages_sent INT NOT NULL DEFAULT 0,
			messages_received INT NOT NULL DEFAULT 0,
			PRIMARY KEY (user_id, date)
		);
	`)
	if err != nil {
		return fmt.Errorf("create message_usage table: %w", err)
	}

	return nil
}

func (p *PostgresClient) Close() {
	p.Pool.Close()
}
