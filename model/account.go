package model

import "time"

type Account struct {
	ID        int64     `json:"-"`
	AccountID string    `json:"id"`
	Number    string    `json:"account_number"`
	IBAN      string    `json:"iban"`
	Type      string    `json:"account_type"`
	Name      string    `json:"account_name"`
	Balance   float64   `json:"balance"`
	Currency  string    `json:"currency"`
	OwnerID   string    `json:"owner_id"`
	OwnerName string    `json:"owner_name"`
	Active    bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Normalize coerces a non-finite balance to zero. Called at the scan boundary so
// every Account handed to callers satisfies the finite-balance invariant.
func (a *Account) Normalize() {
	a.Balance = SafeBalance(a.Balance)
}
