package amqp

import (
	"encoding/json"
	"time"

	"budgets/internal/core"
)

// BudgetChangedMessage tells the sync worker that a money event changed
// and which month view is affected. The worker re-fetches the month from
// the backend, so the message stays lightweight.
type BudgetChangedMessage struct {
	Year      int            `json:"year"`
	Month     int            `json:"month"`
	Kind      core.EventKind `json:"kind"`
	EventID   string         `json:"eventId"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewBudgetChangedMessage creates a change message for the given month.
func NewBudgetChangedMessage(year, month int, kind core.EventKind, eventID string) *BudgetChangedMessage {
	return &BudgetChangedMessage{
		Year:      year,
		Month:     month,
		Kind:      kind,
		EventID:   eventID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *BudgetChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BudgetChangedMessageFromJSON creates a message from JSON bytes
func BudgetChangedMessageFromJSON(data []byte) (*BudgetChangedMessage, error) {
	var msg BudgetChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
