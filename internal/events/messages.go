package events

import (
	"encoding/json"
	"time"
)

// Entity names carried by period change events.
const (
	EntityTransaction  = "transacao"
	EntityFixedExpense = "despesa_fixa"
	EntityAlertConfig  = "alerta"
)

// Operation names carried by period change events.
const (
	OpCreated = "created"
	OpUpdated = "updated"
	OpDeleted = "deleted"
)

// PeriodChangedMessage signals that a write touched one (month, year) period.
// It carries only the period, not the record: consumers re-read the store and
// recompute, so a lost or duplicated message never corrupts totals.
type PeriodChangedMessage struct {
	Entity    string    `json:"entity"`
	Op        string    `json:"op"`
	Month     int       `json:"mes"`
	Year      int       `json:"ano"`
	Timestamp time.Time `json:"timestamp"`
}

func NewPeriodChangedMessage(entity, op string, month, year int) *PeriodChangedMessage {
	return &PeriodChangedMessage{
		Entity:    entity,
		Op:        op,
		Month:     month,
		Year:      year,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *PeriodChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// PeriodChangedMessageFromJSON creates a message from JSON bytes
func PeriodChangedMessageFromJSON(data []byte) (*PeriodChangedMessage, error) {
	var msg PeriodChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
