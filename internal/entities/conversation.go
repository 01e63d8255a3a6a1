package entities

import "time"

// Message senders
const (
	SenderUser = "USER"
	SenderBot  = "BOT"
)

// Activity log action types
const (
	ActionSentMessage     = "SENT_MESSAGE"
	ActionReceivedMessage = "RECEIVED_MESSAGE"
	ActionBotMessage      = "BOT_MESSAGE"
	ActionAutoReply       = "AUTO_REPLY"
)

type Contact struct {
	ID          string    `json:"id"`
	PhoneNumber string    `json:"phoneNumber"`
	Name        string    `json:"name,omitempty"`
	UserID      string    `json:"userId"` // owning tenant
	CreatedAt   time.Time `json:"createdAt"`
}

type Message struct {
	ID        string    `json:"id"`
	ContactID string    `json:"contactId"`
	UserID    string    `json:"userId"`
	Sender    string    `json:"sender"` // USER or BOT
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type ActivityLog struct {
	ID         string    `json:"id"`
	ContactID  string    `json:"contactId"`
	UserID     string    `json:"userId"`
	ActionType string    `json:"actionType"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
}

type BotSettings struct {
	ID           string `json:"id"`
	UserID       string `json:"userId"`
	Personality  string `json:"personality"`
	Language     string `json:"language"`
	AutoJokes    bool   `json:"autoJokes"`
	AutoTime     bool   `json:"autoTime"`
	AutoGreeting bool   `json:"autoGreeting"`
}

// DefaultBotSettings returns the settings created lazily for a tenant on
// first access.
func DefaultBotSettings(userID string) *BotSettings {
	return &BotSettings{
		UserID:       userID,
		Personality:  "divertido",
		Language:     "pt",
		AutoJokes:    true,
		AutoTime:     true,
		AutoGreeting: true,
	}
}
