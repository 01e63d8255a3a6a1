package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type UsageRepository struct {
	db *pgxpool.Pool
}

// UsageStats summarizes a tenant's message volume for the dashboard.
type UsageStats struct {
	TodaySent     int `json:"today_sent"`
	TodayReceived int `json:"today_received"`
	MonthSent     int `json:"month_sent"`
	MonthReceived int `json:"month_received"`
}

func NewUsageRepository(db *pgxpool.Pool) *UsageRepository {
	return &UsageRepository{db: db}
}

// IncrementSent increments messages_sent for today
func (r *UsageRepository) IncrementSent(userID string) error {
	today := time.Now().Format("2006-01-02")
	_, err := r.db.Exec(context.Background(), `
		INSERT INTO message_usage (user_id, date, messages_sent, messages_received)
		VALUES ($1, $2, 1, 0)
		ON CONFLICT (user_id, date)
		DO UPDATE SET messages_sent = message_usage.messages_sent + 1
	`, userID, today)
	return err
}

// IncrementReceived increments messages_received for today
func (r *UsageRepository) IncrementReceived(userID string) error {
	today := time.Now().Format("2006-01-02")
	_, err := r.db.Exec(context.Background(), `
		INSERT INTO message_usage (user_id, date, messages_sent, messages_received)
		VALUES ($1, $2, 0, 1)
		ON CONFLICT (user_id, date)
		DO UPDATE SET messages_received = message_usage.messages_received + 1
	`, userID, today)
	return err
}

// GetStats returns today's and the current month's message counters.
func (r *UsageRepository) GetStats(userID string) (*UsageStats, error) {
	stats := &UsageStats{}
	today := time.Now().Format("2006-01-02")
	firstOfMonth := time.Now().Format("2006-01") + "-01"

	err := r.db.QueryRow(context.Background(), `
		SELECT COALESCE(SUM(messages_sent), 0), COALESCE(SUM(messages_received), 0)
		FROM message_usage WHERE user_id = $1 AND date = $2
	`, userID, today).Scan(&stats.TodaySent, &stats.TodayReceived)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRow(context.Background(), `
		SELECT COALESCE(SUM(messages_sent), 0), COALESCE(SUM(messages_received), 0)
		FROM message_usage WHERE user_id = $1 AND date >= $2
	`, userID, firstOfMonth).Scan(&stats.MonthSent, &stats.MonthReceived)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
