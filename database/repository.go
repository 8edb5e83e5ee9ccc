/*
Copyright 2025 Nordgeld Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package database

import (
	"context"

	"github.com/nordgeld/nordgeld/model"
)

// IDataSource defines the interface for data source operations, grouping related functionalities.
type IDataSource interface {
	account     // Interface for account-related operations
	transaction // Interface for transaction-related operations
	user        // Interface for user-related operations
}

// account defines methods for handling accounts and their balances.
type account interface {
	CreateAccount(ctx context.Context, account model.Account) (model.Account, error)                                                  // Creates a new account
	GetAccountByID(ctx context.Context, id string) (*model.Account, error)                                                            // Retrieves an account by ID
	GetAllAccounts(ctx context.Context) ([]model.Account, error)                                                                      // Retrieves all accounts
	GetAccountsByOwner(ctx context.Context, ownerID string) ([]model.Account, error)                                                  // Retrieves the active accounts of an owner
	GetAccountBalance(ctx context.Context, id string) (float64, error)                                                                // Retrieves the stored balance of an account
	UpdateAccount(ctx context.Context, account *model.Account) error                                                                  // Updates an account
	UpdateAccountBalance(ctx context.Context, id string, balance float64) error                                                       // Writes an absolute balance
	AdjustAccountBalance(ctx context.Context, id string, delta float64) (float64, error)                                              // Applies a balance delta atomically
	TransferBalances(ctx context.Context, txn *model.Transaction, fromID, toID string, amount float64) (float64, float64, error)      // Moves an amount between two accounts and records the transaction
	ApplyDeposit(ctx context.Context, txn *model.Transaction, toID string, amount float64) (float64, error)                           // Credits an account and records the deposit transaction
	DeactivateAccount(ctx context.Context, id string) error                                                                           // Flips an account inactive
}

// transaction defines methods for handling transactions.
type transaction interface {
	RecordTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, error)   // Records a new transaction
	GetTransaction(ctx context.Context, id string) (*model.Transaction, error)                   // Retrieves a transaction by ID
	GetTransactionsForAccount(ctx context.Context, accountID string) ([]model.Transaction, error) // Retrieves transactions touching an account, newest first
	GetAllTransactions(ctx context.Context, limit, offset int) ([]model.Transaction, error)      // Retrieves all transactions
}

// user defines methods for handling users.
type user interface {
	CreateUser(ctx context.Context, user model.User) (model.User, error) // Creates a new user
	GetUserByID(ctx context.Context, id string) (*model.User, error)     // Retrieves a user by ID
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetAllUsers(ctx context.Context) ([]model.User, error) // Retrieves all users
	DeactivateUser(ctx context.Context, id string) error   // Flips a user inactive
}
