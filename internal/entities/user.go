package entities

import "time"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	BotNumber    string    `json:"botNumber"` // number the tenant's bot sends from
	CreatedAt    time.Time `json:"createdAt"`
}
