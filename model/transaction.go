package model

import (
	"encoding/json"
	"time"
)

const (
	TypeTransfer   = "transfer"
	TypeDeposit    = "deposit"
	TypeWithdrawal = "withdrawal"

	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"

	// Sentinel participants. Money entering or leaving the modeled system is
	// booked against these instead of a real account id.
	SourceAdminDeposit  = "admin-deposit"
	DestinationExternal = "external"
)

type Transaction struct {
	ID            int64     `json:"-"`
	TransactionID string    `json:"id"`
	Source        string    `json:"from_account_id"`
	Destination   string    `json:"to_account_id"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Description   string    `json:"description"`
	Type          string    `json:"type"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	ProcessedAt   time.Time `json:"processed_at,omitempty"`
}

func (transaction *Transaction) ToJSON() ([]byte, error) {
	return json.Marshal(transaction)
}
