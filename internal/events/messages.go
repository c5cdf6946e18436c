package events

import (
	"encoding/json"
	"time"

	"github.com/careplan/backend/internal/types"
	"github.com/google/uuid"
)

// BudgetChangedMessage is the wire format of a budget-change notification.
// It only identifies the changed budget; consumers fetch the current state
// themselves.
type BudgetChangedMessage struct {
	ClientID  uuid.UUID        `json:"clientId"`
	Year      types.FiscalYear `json:"year"`
	Timestamp time.Time        `json:"timestamp"`
}

// NewBudgetChangedMessage creates a message for a client and year.
func NewBudgetChangedMessage(clientID uuid.UUID, year types.FiscalYear) BudgetChangedMessage {
	return BudgetChangedMessage{
		ClientID:  clientID,
		Year:      year,
		Timestamp: time.Now().In(time.UTC),
	}
}

// ToJSON converts the message to JSON bytes.
func (m BudgetChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BudgetChangedMessageFromJSON creates a message from JSON bytes.
func BudgetChangedMessageFromJSON(data []byte) (BudgetChangedMessage, error) {
	var msg BudgetChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return BudgetChangedMessage{}, err
	}
	return msg, nil
}
