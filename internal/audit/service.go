package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aryamw/shopcarts/internal/redisx"
	"github.com/aryamw/shopcarts/internal/shopcarts"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	kafkago "github.com/segmentio/kafka-go"
)

// Service consumes the shopcart event stream and records every envelope.
// Redis dedup by event_id is the fast path; the Recorder's ON CONFLICT is
// the backstop when Redis is unavailable.
type Service struct {
	Repo        Recorder
	Redis       *redis.Client
	ServiceName string
}

// HandleEvent is the consumer handler. Returning nil commits the offset.
func (s *Service) HandleEvent(ctx context.Context, m kafkago.Message) error {
	var env shopcarts.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventID == "" {
		return nil // not one of ours
	}

	if s.Redis != nil {
		dkey := fmt.Sprintf(redisx.KeyDedup, "audit", env.EventID)
		if exists, _ := redisx.Exists(ctx, s.Redis, dkey); exists {
			return nil
		}
		_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
	}

	shopcartID, _ := strconv.ParseInt(env.CorrelationID, 10, 64)
	err := s.Repo.Insert(ctx, Record{
		EventID:    env.EventID,
		EventType:  env.EventType,
		ShopcartID: shopcartID,
		OccurredAt: env.OccurredAt,
		Producer:   env.Producer,
		Payload:    env.Payload,
	})
	if err != nil {
		return err
	}
	log.Debug().Str("event_id", env.EventID).Str("event_type", env.EventType).Msg("event recorded")
	return nil
}
