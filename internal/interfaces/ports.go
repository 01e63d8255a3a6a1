package interfaces

import (
	"encoding/json"

	"project_zapflow/internal/entities"
)

// Gateway is the messaging provider used to deliver outbound text.
type Gateway interface {
	SendText(number, text string) (json.RawMessage, error)
}

// AutomationEngine computes a reply for a user message given the enriched
// inbound payload. An empty reply means "do not respond".
type AutomationEngine interface {
	Invoke(payload map[string]interface{}) (string, error)
}

// Store ports consumed by the relay pipeline and usecases. The pgx
// repositories satisfy them in production; tests substitute in-memory fakes.

type UserStore interface {
	GetByBotNumber(digits string) (*entities.User, error)
}

// AuthUserStore is the wider user surface needed by credential issuance.
type AuthUserStore interface {
	UserStore
	Create(user *entities.User) error
	GetByEmail(email string) (*entities.User, error)
}

type ContactStore interface {
	GetOrCreate(userID, phoneNumber string) (*entities.Contact, error)
}

type MessageStore interface {
	Create(m *entities.Message) error
}

type ActivityStore interface {
	Create(l *entities.ActivityLog) error
}

type SettingsStore interface {
	GetOrCreateDefaults(userID string) (*entities.BotSettings, error)
}

type UsageStore interface {
	IncrementSent(userID string) error
	IncrementReceived(userID string) error
}
