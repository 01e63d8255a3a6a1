package repository

import (
	"context"

	"project_zapflow/internal/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *entities.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	_, err := r.db.Exec(context.Background(),
		"INSERT INTO users (id, email, password_hash, bot_number) VALUES ($1, $2, $3, $4)",
		user.ID, user.Email, user.PasswordHash, user.BotNumber)
	return err
}

func (r *UserRepository) GetByEmail(email string) (*entities.User, error) {
	var user entities.User
	err := r.db.QueryRow(context.Background(),
		"SELECT id, email, password_hash, bot_number, created_at FROM users WHERE email = $1",
		email).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.BotNumber, &user.CreatedAt)

	if err == pgx.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByBotNumber resolves the tenant owning a bot number. Both sides are
// compared digits-only so formatting differences between what the gateway
// reports and what was configured at registration do not break resolution.
func (r *UserRepository) GetByBotNumber(digits string) (*entities.User, error) {
	if digits == "" {
		return nil, nil
	}
	var user entities.User
	err := r.db.QueryRow(context.Background(),
		`SELECT id, email, password_hash, bot_number, created_at FROM users
		 WHERE regexp_replace(bot_number, '[^0-9]', '', 'g') = $1`,
		digits).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.BotNumber, &user.CreatedAt)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
