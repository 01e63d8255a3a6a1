package repository

import (
	"context"

	"project_zapflow/internal/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SettingsRepository struct {
	db *pgxpool.Pool
}

func NewSettingsRepository(db *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) getByUser(userID string) (*entities.BotSettings, error) {
	var s entities.BotSettings
	err := r.db.QueryRow(context.Background(),
		`SELECT id, user_id, personality, language, auto_jokes, auto_time, auto_greeting
		 FROM bot_settings WHERE user_id = $1 LIMIT 1`,
		userID).Scan(&s.ID, &s.UserID, &s.Personality, &s.Language, &s.AutoJokes, &s.AutoTime, &s.AutoGreeting)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetOrCreateDefaults returns the tenant's bot settings, creating the row
// with defaults on first access.
func (r *SettingsRepository) GetOrCreateDefaults(userID string) (*entities.BotSettings, error) {
	existing, err := r.getByUser(userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	s := entities.DefaultBotSettings(userID)
	s.ID = uuid.NewString()
	_, err = r.db.Exec(context.Background(),
		`INSERT INTO bot_settings (id, user_id, personality, language, auto_jokes, auto_time, auto_greeting)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.UserID, s.Personality, s.Language, s.AutoJokes, s.AutoTime, s.AutoGreeting)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Save upserts the tenant's settings and returns the stored row.
func (r *SettingsRepository) Save(s *entities.BotSettings) (*entities.BotSettings, error) {
	existing, err := r.getByUser(s.UserID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		s.ID = uuid.NewString()
		_, err = r.db.Exec(context.Background(),
			`INSERT INTO bot_settings (id, user_id, personality, language, auto_jokes, auto_time, auto_greeting)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			s.ID, s.UserID, s.Personality, s.Language, s.AutoJokes, s.AutoTime, s.AutoGreeting)
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	s.ID = existing.ID
	_, err = r.db.Exec(context.Background(),
		`UPDATE bot_settings SET personality=$1, language=$2, auto_jokes=$3, auto_time=$4, auto_greeting=$5
		 WHERE id=$6`,
		s.Personality, s.Language, s.AutoJokes, s.AutoTime, s.AutoGreeting, s.ID)
	if err != nil {
		return nil, err
	}
	return s, nil
}
