package httpx

import (
	"strconv"
	"time"

	kafkax "github.com/aryamw/shopcarts/internal/kafka"
	"github.com/aryamw/shopcarts/internal/shopcarts"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

// EventPublisher is satisfied by *kafkax.Producer; tests swap in a capture.
type EventPublisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// publishEvent wraps payload in a v1 envelope keyed by shopcart_id.
// Publishing is fire-and-forget; the HTTP response never waits on Kafka.
func publishEvent(p EventPublisher, producer, traceID, eventType string, shopcartID int64, payload any) {
	if p == nil {
		return
	}
	ev := shopcarts.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		TraceID:       traceID,
		CorrelationID: strconv.FormatInt(shopcartID, 10),
		Payload:       kafkax.MustMarshal(payload),
	}
	p.Publish(shopcarts.PartitionKey(shopcartID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func cartPayload(c shopcarts.Shopcart) shopcarts.CartPayload {
	return shopcarts.CartPayload{ShopcartID: c.ShopcartID, CustomerID: c.CustomerID}
}

func itemPayload(it shopcarts.Item) shopcarts.ItemPayload {
	return shopcarts.ItemPayload{
		ItemID:     it.ItemID,
		ShopcartID: it.ShopcartID,
		ProductID:  it.ProductID,
		Quantity:   it.Quantity,
		Price:      it.Price.StringFixed(2),
	}
}
