package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"budget/internal/core"
)

// Ledger operations carried by LedgerChangedMessage.
const (
	OpCreated = "created"
	OpUpdated = "updated"
	OpDeleted = "deleted"
)

// LedgerChangedMessage announces that a transaction in one period changed.
// The worker re-reads the ledger itself, so only the period travels.
type LedgerChangedMessage struct {
	Operation     string    `json:"operation"`
	TransactionID string    `json:"transactionId"`
	Month         int       `json:"month"`
	Year          int       `json:"year"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewLedgerChangedMessage(op, transactionID string, period core.PeriodKey) *LedgerChangedMessage {
	return &LedgerChangedMessage{
		Operation:     op,
		TransactionID: transactionID,
		Month:         int(period.Month),
		Year:          period.Year,
		Timestamp:     time.Now(),
	}
}

// Period returns the affected period, or ErrInvalidPeriod when the message
// carries something out of range.
func (m *LedgerChangedMessage) Period() (core.PeriodKey, error) {
	if m.Month < 1 || m.Month > 12 || m.Year < 1900 || m.Year > 9999 {
		return core.PeriodKey{}, fmt.Errorf("month %d year %d: %w", m.Month, m.Year, core.ErrInvalidPeriod)
	}
	return core.PeriodKey{Month: time.Month(m.Month), Year: m.Year}, nil
}

func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
