package repository

import (
	"context"
	"time"

	"project_zapflow/internal/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ContactSummary is the dashboard conversation-list row: a contact with its
// most recent message.
type ContactSummary struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	LastMessage string     `json:"lastMessage"`
	Time        *time.Time `json:"time"`
}

type ContactRepository struct {
	db *pgxpool.Pool
}

func NewContactRepository(db *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{db: db}
}

// GetOrCreate resolves the contact for a (tenant, phone number) pair,
// creating it on first reference. Concurrent calls for the same pair may
// both insert; either row is accepted.
func (r *ContactRepository) GetOrCreate(userID, phoneNumber string) (*entities.Contact, error) {
	ctx := context.Background()
	var c entities.Contact
	err := r.db.QueryRow(ctx,
		`SELECT id, phone_number, COALESCE(name, ''), user_id, created_at FROM contacts
		 WHERE user_id = $1 AND phone_number = $2 LIMIT 1`,
		userID, phoneNumber).Scan(&c.ID, &c.PhoneNumber, &c.Name, &c.UserID, &c.CreatedAt)
	if err == nil {
		return &c, nil
	}
	if err != pgx.ErrNoRows {
		return nil, err
	}

	c = entities.Contact{
		ID:          uuid.NewString(),
		PhoneNumber: phoneNumber,
		UserID:      userID,
		CreatedAt:   time.Now(),
	}
	_, err = r.db.Exec(ctx,
		"INSERT INTO contacts (id, phone_number, user_id, created_at) VALUES ($1, $2, $3, $4)",
		c.ID, c.PhoneNumber, c.UserID, c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ContactRepository) GetByID(userID, contactID string) (*entities.Contact, error) {
	var c entities.Contact
	err := r.db.QueryRow(context.Background(),
		`SELECT id, phone_number, COALESCE(name, ''), user_id, created_at FROM contacts
		 WHERE id = $1 AND user_id = $2`,
		contactID, userID).Scan(&c.ID, &c.PhoneNumber, &c.Name, &c.UserID, &c.CreatedAt)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListWithLastMessage returns all of a tenant's contacts with the content
// and time of their most recent message.
func (r *ContactRepository) ListWithLastMessage(userID string) ([]ContactSummary, error) {
	rows, err := r.db.Query(context.Background(), `
		SELECT c.id, COALESCE(NULLIF(c.name, ''), c.phone_number),
		       COALESCE(m.content, ''), m.timestamp
		FROM contacts c
		LEFT JOIN LATERAL (
			SELECT content, timestamp FROM messages
			WHERE contact_id = c.id ORDER BY timestamp DESC LIMIT 1
		) m ON TRUE
		WHERE c.user_id = $1
		ORDER BY m.timestamp DESC NULLS LAST
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []ContactSummary{}
	for rows.Next() {
		var s ContactSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.LastMessage, &s.Time); err != nil {
			return nil, err
		}
		contacts = append(contacts, s)
	}
	return contacts, nil
}

// Delete removes a contact after its messages and activity logs are gone.
func (r *ContactRepository) Delete(userID, contactID string) error {
	_, err := r.db.Exec(context.Background(),
		"DELETE FROM contacts WHERE id = $1 AND user_id = $2", contactID, userID)
	return err
}
