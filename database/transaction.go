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

	"go.opentelemetry.io/otel"

	"github.com/nordgeld/nordgeld/internal/apierror"
	"github.com/nordgeld/nordgeld/model"
)

const transactionColumns = `transaction_id, source, destination, amount, COALESCE(currency, ''), COALESCE(description, ''), type, status, created_at, processed_at`

// RecordTransaction inserts a transaction record. Transactions are immutable
// once written; there is no update path.
func (d Datasource) RecordTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	ctx, span := otel.Tracer("transaction.database").Start(ctx, "Saving transaction to db")
	defer span.End()

	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO nordgeld.transactions (transaction_id, source, destination, amount, currency, description, type, status, created_at, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, txn.TransactionID, txn.Source, txn.Destination, txn.Amount, txn.Currency, txn.Description, txn.Type, txn.Status, txn.CreatedAt, txn.ProcessedAt)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to record transaction", err)
	}
	return txn, nil
}

// GetTransaction retrieves a transaction by ID.
func (d Datasource) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT `+transactionColumns+`
		FROM nordgeld.transactions
		WHERE transaction_id = $1
	`, id)

	txn := &model.Transaction{}
	var processedAt sql.NullTime
	err := row.Scan(&txn.TransactionID, &txn.Source, &txn.Destination, &txn.Amount, &txn.Currency, &txn.Description, &txn.Type, &txn.Status, &txn.CreatedAt, &processedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Transaction with ID '%s' not found", id), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve transaction", err)
	}
	if processedAt.Valid {
		txn.ProcessedAt = processedAt.Time
	}
	return txn, nil
}

// GetTransactionsForAccount retrieves every transaction where the account is
// either leg. Rows matching both legs appear once. Newest first.
func (d Datasource) GetTransactionsForAccount(ctx context.Context, accountID string) ([]model.Transaction, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM nordgeld.transactions
		WHERE source = $1 OR destination = $1
		ORDER BY created_at DESC, transaction_id
	`, accountID)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve transactions", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanTransactionRows(rows)
}

// GetAllTransactions retrieves transactions with pagination, newest first.
func (d Datasource) GetAllTransactions(ctx context.Context, limit, offset int) ([]model.Transaction, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM nordgeld.transactions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve transactions", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanTransactionRows(rows)
}

func insertTransactionTx(ctx context.Context, tx *sql.Tx, txn *model.Transaction) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO nordgeld.transactions (transaction_id, source, destination, amount, currency, description, type, status, created_at, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, txn.TransactionID, txn.Source, txn.Destination, txn.Amount, txn.Currency, txn.Description, txn.Type, txn.Status, txn.CreatedAt, txn.ProcessedAt)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to record transaction", err)
	}
	return nil
}

func scanTransactionRows(rows *sql.Rows) ([]model.Transaction, error) {
	var transactions []model.Transaction
	seen := map[string]bool{}
	for rows.Next() {
		txn := model.Transaction{}
		var processedAt sql.NullTime
		err := rows.Scan(&txn.TransactionID, &txn.Source, &txn.Destination, &txn.Amount, &txn.Currency, &txn.Description, &txn.Type, &txn.Status, &txn.CreatedAt, &processedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan transaction data", err)
		}
		if processedAt.Valid {
			txn.ProcessedAt = processedAt.Time
		}
		if seen[txn.TransactionID] {
			continue
		}
		seen[txn.TransactionID] = true
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating transactions", err)
	}
	return transactions, nil
}
