package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Record is one consumed event row in the audit_events table.
type Record struct {
	EventID    string
	EventType  string
	ShopcartID int64
	OccurredAt time.Time
	Producer   string
	Payload    json.RawMessage
}

// Recorder persists audit records. Insert must be idempotent on EventID so
// redelivered messages never produce duplicate rows.
type Recorder interface {
	Insert(ctx context.Context, rec Record) error
}

type PostgresRepo struct{ DB *pgxpool.Pool }

func (r *PostgresRepo) Insert(ctx context.Context, rec Record) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO audit_events(event_id, event_type, shopcart_id, occurred_at, producer, payload)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (event_id) DO NOTHING`,
		rec.EventID, rec.EventType, rec.ShopcartID, rec.OccurredAt, rec.Producer, rec.Payload)
	return err
}
