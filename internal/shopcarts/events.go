package shopcarts

import (
	"encoding/json"
	"strconv"
	"time"
)

// All cart and item lifecycle events share one topic so that everything
// about a single cart stays in partition order.
const TopicCartEvents = "shopcart.events"

const (
	EventCartCreated = "CartCreated"
	EventCartUpdated = "CartUpdated"
	EventCartDeleted = "CartDeleted"
	EventCartCleared = "CartCleared"
	EventItemCreated = "ItemCreated"
	EventItemUpdated = "ItemUpdated"
	EventItemDeleted = "ItemDeleted"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // shopcart_id
	Payload       json.RawMessage `json:"payload"`
}

type CartPayload struct {
	ShopcartID int64 `json:"shopcart_id"`
	CustomerID int64 `json:"customer_id"`
}

type ItemPayload struct {
	ItemID     int64  `json:"item_id"`
	ShopcartID int64  `json:"shopcart_id"`
	ProductID  int64  `json:"product_id"`
	Quantity   int    `json:"quantity"`
	Price      string `json:"price"`
}

// Partition key = shopcart_id, so one cart's events keep their order.
func PartitionKey(shopcartID int64) []byte {
	return []byte(strconv.FormatInt(shopcartID, 10))
}
