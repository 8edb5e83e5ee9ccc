package nordgeld

import (
	"context"
	"fmt"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/nordgeld/nordgeld/model"
)

// applyAccountDefaults fills in the generated fields of a new account: number,
// IBAN and display name. Owner name comes from the resolved owner.
func (n Nordgeld) applyAccountDefaults(ctx context.Context, account *model.Account) error {
	if account.Number == "" {
		account.Number = gofakeit.AchAccount()
	}
	if account.IBAN == "" {
		account.IBAN = fmt.Sprintf("DE%02d%s", gofakeit.Number(10, 89), gofakeit.DigitN(18))
	}
	if account.OwnerName == "" {
		owner, err := n.GetUser(ctx, account.OwnerID)
		if err != nil {
			return err
		}
		account.OwnerName = owner.FullName()
	}
	if account.Name == "" {
		account.Name = account.Type
	}
	return nil
}

// CreateAccount creates a new account in the database.
func (n Nordgeld) CreateAccount(ctx context.Context, account model.Account) (model.Account, error) {
	err := n.applyAccountDefaults(ctx, &account)
	if err != nil {
		return model.Account{}, err
	}
	return n.datasource.CreateAccount(ctx, account)
}

// GetAccount retrieves an account from the database by ID.
func (n Nordgeld) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	return n.datasource.GetAccountByID(ctx, id)
}

// GetAccountsForOwner retrieves the active accounts of an owner.
func (n Nordgeld) GetAccountsForOwner(ctx context.Context, ownerID string) ([]model.Account, error) {
	return n.datasource.GetAccountsByOwner(ctx, ownerID)
}

// GetAllAccounts retrieves all accounts from the database.
func (n Nordgeld) GetAllAccounts(ctx context.Context) ([]model.Account, error) {
	return n.datasource.GetAllAccounts(ctx)
}

// UpdateAccount updates an account in the database.
func (n Nordgeld) UpdateAccount(ctx context.Context, account *model.Account) error {
	return n.datasource.UpdateAccount(ctx, account)
}

// DeactivateAccount flips an account inactive.
func (n Nordgeld) DeactivateAccount(ctx context.Context, id string) error {
	return n.datasource.DeactivateAccount(ctx, id)
}
