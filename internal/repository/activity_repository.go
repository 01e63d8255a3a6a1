package repository

import (
	"context"
	"time"

	"project_zapflow/internal/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LogWithContact pairs an activity log entry with its contact.
type LogWithContact struct {
	entities.ActivityLog
	Contact entities.Contact `json:"contact"`
}

type ActivityRepository struct {
	db *pgxpool.Pool
}

func NewActivityRepository(db *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(l *entities.ActivityLog) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now()
	}
	_, err := r.db.Exec(context.Background(),
		"INSERT INTO activity_logs (id, contact_id, user_id, action_type, message, timestamp) VALUES ($1, $2, $3, $4, $5, $6)",
		l.ID, l.ContactID, l.UserID, l.ActionType, l.Message, l.Timestamp)
	return err
}

// ListRecent returns a tenant's latest audit entries, newest first.
func (r *ActivityRepository) ListRecent(userID string, limit int) ([]LogWithContact, error) {
	rows, err := r.db.Query(context.Background(), `
		SELECT l.id, l.contact_id, l.user_id, l.action_type, l.message, l.timestamp,
		       c.id, c.phone_number, COALESCE(c.name, ''), c.user_id, c.created_at
		FROM activity_logs l
		JOIN contacts c ON c.id = l.contact_id
		WHERE l.user_id = $1
		ORDER BY l.timestamp DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []LogWithContact{}
	for rows.Next() {
		var l LogWithContact
		if err := rows.Scan(
			&l.ID, &l.ContactID, &l.UserID, &l.ActionType, &l.Message, &l.Timestamp,
			&l.Contact.ID, &l.Contact.PhoneNumber, &l.Contact.Name, &l.Contact.UserID, &l.Contact.CreatedAt,
		); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, nil
}

func (r *ActivityRepository) DeleteByContact(userID, contactID string) error {
	_, err := r.db.Exec(context.Background(),
		"DELETE FROM activity_logs WHERE contact_id = $1 AND user_id = $2", contactID, userID)
	return err
}
