package repository

import (
	"context"
	"time"

	"project_zapflow/internal/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MessageWithContact pairs a message with its contact for dashboard views.
type MessageWithContact struct {
	entities.Message
	Contact entities.Contact `json:"contact"`
}

type MessageRepository struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(m *entities.Message) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	_, err := r.db.Exec(context.Background(),
		"INSERT INTO messages (id, contact_id, user_id, sender, content, timestamp) VALUES ($1, $2, $3, $4, $5, $6)",
		m.ID, m.ContactID, m.UserID, m.Sender, m.Content, m.Timestamp)
	return err
}

// ListRecent returns a tenant's latest messages (newest first) with their
// contacts. limit <= 0 means no limit.
func (r *MessageRepository) ListRecent(userID string, limit int) ([]MessageWithContact, error) {
	query := `
		SELECT m.id, m.contact_id, m.user_id, m.sender, m.content, m.timestamp,
		       c.id, c.phone_number, COALESCE(c.name, ''), c.user_id, c.created_at
		FROM messages m
		JOIN contacts c ON c.id = m.contact_id
		WHERE m.user_id = $1
		ORDER BY m.timestamp DESC`
	args := []interface{}{userID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.db.Query(context.Background(), query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []MessageWithContact{}
	for rows.Next() {
		var m MessageWithContact
		if err := rows.Scan(
			&m.ID, &m.ContactID, &m.UserID, &m.Sender, &m.Content, &m.Timestamp,
			&m.Contact.ID, &m.Contact.PhoneNumber, &m.Contact.Name, &m.Contact.UserID, &m.Contact.CreatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, nil
}

// ListByContact returns one conversation's history, oldest first.
func (r *MessageRepository) ListByContact(userID, contactID string) ([]entities.Message, error) {
	rows, err := r.db.Query(context.Background(),
		`SELECT id, contact_id, user_id, sender, content, timestamp FROM messages
		 WHERE contact_id = $1 AND user_id = $2 ORDER BY timestamp ASC`,
		contactID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []entities.Message{}
	for rows.Next() {
		var m entities.Message
		if err := rows.Scan(&m.ID, &m.ContactID, &m.UserID, &m.Sender, &m.Content, &m.Timestamp); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, nil
}

func (r *MessageRepository) DeleteByContact(userID, contactID string) error {
	_, err := r.db.Exec(context.Background(),
		"DELETE FROM messages WHERE contact_id = $1 AND user_id = $2", contactID, userID)
	return err
}
