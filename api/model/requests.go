package model

// Login identifies a user by email. This is a demo system; there is no
// password surface.
type Login struct {
	Email string `json:"email"`
}

type CreateAccount struct {
	AccountType    string  `json:"account_type"`
	Name           string  `json:"account_name"`
	Number         string  `json:"account_number"`
	IBAN           string  `json:"iban"`
	Currency       string  `json:"currency"`
	OwnerID        string  `json:"owner_id"`
	InitialBalance float64 `json:"initial_balance"`
}

type CreateTransfer struct {
	FromAccountID string      `json:"from_account_id"`
	ToAccountID   string      `json:"to_account_id"`
	Amount        interface{} `json:"amount"`
	Description   string      `json:"description"`
}

type CreateDeposit struct {
	ToAccountID string      `json:"to_account_id"`
	Amount      interface{} `json:"amount"`
	Description string      `json:"description"`
}

type CreateUser struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}
