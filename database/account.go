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
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel"

	"github.com/nordgeld/nordgeld/internal/apierror"
	"github.com/nordgeld/nordgeld/model"
)

// CreateAccount inserts a new account record into the `nordgeld.accounts` table.
// It generates the account ID, stamps timestamps and returns the stored account.
func (d Datasource) CreateAccount(ctx context.Context, account model.Account) (model.Account, error) {
	ctx, span := otel.Tracer("account.database").Start(ctx, "Saving account to db")
	defer span.End()

	account.AccountID = model.GenerateUUIDWithSuffix("acc")
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	account.Active = true
	account.Normalize()

	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO nordgeld.accounts (account_id, number, iban, account_type, name, balance, currency, owner_id, owner_name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, account.AccountID, account.Number, account.IBAN, account.Type, account.Name, account.Balance, account.Currency, account.OwnerID, account.OwnerName, account.Active, account.CreatedAt, account.UpdatedAt)

	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return model.Account{}, apierror.NewAPIError(apierror.ErrConflict, "Account with this number already exists", err)
			default:
				return model.Account{}, apierror.NewAPIError(apierror.ErrInternalServer, "Database error occurred", err)
			}
		}
		return model.Account{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create account", err)
	}

	return account, nil
}

// GetAccountByID retrieves an account by its unique ID.
func (d Datasource) GetAccountByID(ctx context.Context, id string) (*model.Account, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT account_id, number, COALESCE(iban, ''), account_type, name, balance, currency, owner_id, COALESCE(owner_name, ''), is_active, created_at, updated_at
		FROM nordgeld.accounts
		WHERE account_id = $1
	`, id)

	account, err := scanAccountRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Account with ID '%s' not found", id), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve account", err)
	}
	return account, nil
}

// GetAllAccounts retrieves every account, newest first.
func (d Datasource) GetAllAccounts(ctx context.Context) ([]model.Account, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT account_id, number, COALESCE(iban, ''), account_type, name, balance, currency, owner_id, COALESCE(owner_name, ''), is_active, created_at, updated_at
		FROM nordgeld.accounts
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve accounts", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanAccountRows(rows)
}

// GetAccountsByOwner retrieves the active accounts belonging to an owner.
// Deactivated accounts never surface here.
func (d Datasource) GetAccountsByOwner(ctx context.Context, ownerID string) ([]model.Account, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT account_id, number, COALESCE(iban, ''), account_type, name, balance, currency, owner_id, COALESCE(owner_name, ''), is_active, created_at, updated_at
		FROM nordgeld.accounts
		WHERE owner_id = $1 AND is_active = TRUE
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve accounts", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanAccountRows(rows)
}

// GetAccountBalance reads the stored balance of an account. The result is
// always a finite number: NULL, NaN and infinite stored values read as 0.
func (d Datasource) GetAccountBalance(ctx context.Context, id string) (float64, error) {
	var balance sql.NullFloat64
	err := d.Conn.QueryRowContext(ctx, `
		SELECT balance FROM nordgeld.accounts WHERE account_id = $1
	`, id).Scan(&balance)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Account with ID '%s' not found", id), err)
		}
		return 0, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve account balance", err)
	}
	if !balance.Valid {
		return 0, nil
	}
	return model.SafeBalance(balance.Float64), nil
}

// UpdateAccount updates the mutable descriptive fields of an account.
func (d Datasource) UpdateAccount(ctx context.Context, account *model.Account) error {
	result, err := d.Conn.ExecContext(ctx, `
		UPDATE nordgeld.accounts
		SET name = $2, account_type = $3, iban = $4, owner_name = $5, updated_at = NOW()
		WHERE account_id = $1
	`, account.AccountID, account.Name, account.Type, account.IBAN, account.OwnerName)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update account", err)
	}
	return checkAccountAffected(result, account.AccountID)
}

// UpdateAccountBalance writes an absolute balance and stamps updated_at.
func (d Datasource) UpdateAccountBalance(ctx context.Context, id string, balance float64) error {
	ctx, span := otel.Tracer("account.database").Start(ctx, "Writing account balance")
	defer span.End()

	result, err := d.Conn.ExecContext(ctx, `
		UPDATE nordgeld.accounts
		SET balance = $2, updated_at = NOW()
		WHERE account_id = $1
	`, id, model.SafeBalance(balance))
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update account balance", err)
	}
	return checkAccountAffected(result, id)
}

// AdjustAccountBalance applies a delta against the stored balance in a single
// statement, so concurrent adjustments cannot lose updates. Returns the new balance.
func (d Datasource) AdjustAccountBalance(ctx context.Context, id string, delta float64) (float64, error) {
	ctx, span := otel.Tracer("account.database").Start(ctx, "Adjusting account balance")
	defer span.End()

	var newBalance float64
	err := d.Conn.QueryRowContext(ctx, `
		UPDATE nordgeld.accounts
		SET balance = balance + $2, updated_at = NOW()
		WHERE account_id = $1
		RETURNING balance
	`, id, delta).Scan(&newBalance)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Account with ID '%s' not found", id), err)
		}
		return 0, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to adjust account balance", err)
	}
	return model.SafeBalance(newBalance), nil
}

// TransferBalances debits the source, credits the destination and records the
// transaction, all inside one database transaction. A failure on any leg rolls
// the whole operation back, so balances move together or not at all.
func (d Datasource) TransferBalances(ctx context.Context, txn *model.Transaction, fromID, toID string, amount float64) (float64, float64, error) {
	ctx, span := otel.Tracer("account.database").Start(ctx, "Moving balance between accounts")
	defer span.End()

	tx, err := d.Conn.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelDefault})
	if err != nil {
		return 0, 0, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	fromNew, err := adjustBalanceTx(ctx, tx, fromID, -amount)
	if err != nil {
		return 0, 0, err
	}
	toNew, err := adjustBalanceTx(ctx, tx, toID, amount)
	if err != nil {
		return 0, 0, err
	}
	if err := insertTransactionTx(ctx, tx, txn); err != nil {
		return 0, 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to commit transaction", err)
	}
	return fromNew, toNew, nil
}

// ApplyDeposit credits the destination account and records the deposit
// transaction inside one database transaction.
func (d Datasource) ApplyDeposit(ctx context.Context, txn *model.Transaction, toID string, amount float64) (float64, error) {
	ctx, span := otel.Tracer("account.database").Start(ctx, "Applying deposit to account")
	defer span.End()

	tx, err := d.Conn.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelDefault})
	if err != nil {
		return 0, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	newBalance, err := adjustBalanceTx(ctx, tx, toID, amount)
	if err != nil {
		return 0, err
	}
	if err := insertTransactionTx(ctx, tx, txn); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to commit transaction", err)
	}
	return newBalance, nil
}

// DeactivateAccount flips the active flag off. Accounts are never deleted.
func (d Datasource) DeactivateAccount(ctx context.Context, id string) error {
	result, err := d.Conn.ExecContext(ctx, `
		UPDATE nordgeld.accounts
		SET is_active = FALSE, updated_at = NOW()
		WHERE account_id = $1
	`, id)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to deactivate account", err)
	}
	return checkAccountAffected(result, id)
}

func adjustBalanceTx(ctx context.Context, tx *sql.Tx, id string, delta float64) (float64, error) {
	var newBalance float64
	err := tx.QueryRowContext(ctx, `
		UPDATE nordgeld.accounts
		SET balance = balance + $2, updated_at = NOW()
		WHERE account_id = $1
		RETURNING balance
	`, id, delta).Scan(&newBalance)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Account with ID '%s' not found", id), err)
		}
		return 0, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to adjust account balance", err)
	}
	return model.SafeBalance(newBalance), nil
}

func checkAccountAffected(result sql.Result, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Account with ID '%s' not found", id), nil)
	}
	return nil
}

func scanAccountRow(row *sql.Row) (*model.Account, error) {
	account := &model.Account{}
	var balance sql.NullFloat64
	err := row.Scan(&account.AccountID, &account.Number, &account.IBAN, &account.Type, &account.Name, &balance, &account.Currency, &account.OwnerID, &account.OwnerName, &account.Active, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if balance.Valid {
		account.Balance = model.SafeBalance(balance.Float64)
	}
	return account, nil
}

func scanAccountRows(rows *sql.Rows) ([]model.Account, error) {
	var accounts []model.Account
	for rows.Next() {
		account := model.Account{}
		var balance sql.NullFloat64
		err := rows.Scan(&account.AccountID, &account.Number, &account.IBAN, &account.Type, &account.Name, &balance, &account.Currency, &account.OwnerID, &account.OwnerName, &account.Active, &account.CreatedAt, &account.UpdatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan account data", err)
		}
		if balance.Valid {
			account.Balance = model.SafeBalance(balance.Float64)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating accounts", err)
	}
	return accounts, nil
}
