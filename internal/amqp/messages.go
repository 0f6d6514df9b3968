package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// TransactionEvent announces a mutation in one shard. Consumers re-read
// the row from the owning shard; the event carries identity, not state.
type TransactionEvent struct {
	MessageID     string    `json:"message_id"`
	Tenant        string    `json:"tenant"`
	Year          int       `json:"year"`
	TransactionID int64     `json:"transaction_id"`
	Action        string    `json:"action"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewTransactionEvent(tenant string, year int, transactionID int64, action string) *TransactionEvent {
	return &TransactionEvent{
		MessageID:     uuid.NewString(),
		Tenant:        tenant,
		Year:          year,
		TransactionID: transactionID,
		Action:        action,
		OccurredAt:    time.Now().UTC(),
	}
}

func (m *TransactionEvent) ToJSON() ([]byte, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal transaction event: %w", err)
	}
	return body, nil
}

func TransactionEventFromJSON(body []byte) (*TransactionEvent, error) {
	var msg TransactionEvent
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("unmarshal transaction event: %w", err)
	}
	if msg.Tenant == "" || msg.TransactionID == 0 || msg.Action == "" {
		return nil, fmt.Errorf("transaction event missing required fields: %s", body)
	}
	return &msg, nil
}
