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

package nordgeld

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/nordgeld/nordgeld/internal/apierror"
	redlock "github.com/nordgeld/nordgeld/internal/lock"
	"github.com/nordgeld/nordgeld/internal/notification"
	"github.com/nordgeld/nordgeld/model"
)

var (
	tracer = otel.Tracer("nordgeld.settlement")
)

// TransferRequest describes a balance transfer between two accounts. Amount is
// untyped because callers submit both JSON numbers and strings; parsing and
// validation happen here, not at the transport.
type TransferRequest struct {
	FromAccountID string      `json:"from_account_id"`
	ToAccountID   string      `json:"to_account_id"`
	Amount        interface{} `json:"amount"`
	Description   string      `json:"description"`
}

// DepositRequest describes an administrative deposit into an account.
type DepositRequest struct {
	ToAccountID string      `json:"to_account_id"`
	Amount      interface{} `json:"amount"`
	Description string      `json:"description"`
}

func logAndRecordError(span trace.Span, msg string, err error) error {
	span.RecordError(err)
	logrus.Error(msg, err)
	return err
}

// parseAmount turns a caller-supplied amount into an exact decimal. Anything
// that is not a finite number strictly greater than zero is rejected.
func parseAmount(raw interface{}) (decimal.Decimal, error) {
	var amount decimal.Decimal
	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, apierror.NewAPIError(apierror.ErrInvalidAmount, "Amount must be a finite number", nil)
		}
		amount = decimal.NewFromFloat(v)
	case float32:
		return parseAmount(float64(v))
	case int:
		amount = decimal.NewFromInt(int64(v))
	case int64:
		amount = decimal.NewFromInt(v)
	case string:
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, apierror.NewAPIError(apierror.ErrInvalidAmount, "Amount must be a number", err)
		}
		amount = parsed
	case json.Number:
		return parseAmount(v.String())
	case decimal.Decimal:
		amount = v
	case nil:
		return decimal.Zero, apierror.NewAPIError(apierror.ErrInvalidAmount, "Amount is required", nil)
	default:
		return decimal.Zero, apierror.NewAPIError(apierror.ErrInvalidAmount, "Amount must be a number", nil)
	}

	if !amount.IsPositive() {
		return decimal.Zero, apierror.NewAPIError(apierror.ErrInvalidAmount, "Amount must be greater than zero", nil)
	}
	return amount, nil
}

func (n *Nordgeld) acquireLock(ctx context.Context, accountID string) (*redlock.Locker, error) {
	locker := redlock.NewLocker(n.redis, accountID, model.GenerateUUIDWithSuffix("loc"))
	err := locker.Lock(ctx, time.Minute)
	if err != nil {
		return nil, err
	}
	return locker, nil
}

func (n *Nordgeld) postSettlementActions(_ context.Context, transaction *model.Transaction) {
	go func() {
		err := SendWebhook(NewWebhook{
			Event:   "transaction.applied",
			Payload: transaction,
		})
		if err != nil {
			notification.NotifyError(err)
		}
	}()
}

// Transfer moves an amount from one account to another. Validation order is
// fixed: amount first, then account resolution, then funds. The source balance
// is re-read under the settlement lock before the funds check, and both balance
// legs commit together with the transaction record.
func (n *Nordgeld) Transfer(ctx context.Context, req TransferRequest) (*model.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Transferring between accounts")
	defer span.End()

	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	source, err := n.datasource.GetAccountByID(ctx, req.FromAccountID)
	if err != nil {
		return nil, logAndRecordError(span, "source account error ", err)
	}
	if _, err := n.datasource.GetAccountByID(ctx, req.ToAccountID); err != nil {
		return nil, logAndRecordError(span, "destination account error ", err)
	}

	locker, err := n.acquireLock(ctx, source.AccountID)
	if err != nil {
		return nil, logAndRecordError(span, "settlement lock error ", err)
	}
	defer func(locker *redlock.Locker, ctx context.Context) {
		err := locker.Unlock(ctx)
		if err != nil {
			logrus.Error("lock error", err)
		}
	}(locker, ctx)

	// Funds check runs against the stored balance, never a caller-supplied copy.
	storedBalance, err := n.datasource.GetAccountBalance(ctx, source.AccountID)
	if err != nil {
		return nil, logAndRecordError(span, "balance read error ", err)
	}
	if decimal.NewFromFloat(storedBalance).LessThan(amount) {
		return nil, apierror.NewAPIError(apierror.ErrInsufficientFunds, "Insufficient funds in source account", nil)
	}

	now := time.Now()
	transaction := &model.Transaction{
		TransactionID: model.GenerateUUIDWithSuffix("txn"),
		Source:        source.AccountID,
		Destination:   req.ToAccountID,
		Amount:        amount.InexactFloat64(),
		Currency:      source.Currency,
		Description:   req.Description,
		Type:          model.TypeTransfer,
		Status:        model.StatusCompleted,
		CreatedAt:     now,
		ProcessedAt:   now,
	}

	_, _, err = n.datasource.TransferBalances(ctx, transaction, source.AccountID, req.ToAccountID, amount.InexactFloat64())
	if err != nil {
		return nil, logAndRecordError(span, "transfer commit error ", err)
	}

	n.postSettlementActions(ctx, transaction)

	return transaction, nil
}

// AdminDeposit credits an account from outside the modeled system. The credit
// is an atomic increment against the stored balance, so a stale in-memory
// balance can never be written back.
func (n *Nordgeld) AdminDeposit(ctx context.Context, req DepositRequest) (*model.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Applying admin deposit")
	defer span.End()

	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	destination, err := n.datasource.GetAccountByID(ctx, req.ToAccountID)
	if err != nil {
		return nil, logAndRecordError(span, "destination account error ", err)
	}

	now := time.Now()
	transaction := &model.Transaction{
		TransactionID: model.GenerateUUIDWithSuffix("txn"),
		Source:        model.SourceAdminDeposit,
		Destination:   destination.AccountID,
		Amount:        amount.InexactFloat64(),
		Currency:      destination.Currency,
		Description:   "Admin Deposit: " + req.Description,
		Type:          model.TypeDeposit,
		Status:        model.StatusCompleted,
		CreatedAt:     now,
		ProcessedAt:   now,
	}

	_, err = n.datasource.ApplyDeposit(ctx, transaction, destination.AccountID, amount.InexactFloat64())
	if err != nil {
		return nil, logAndRecordError(span, "deposit commit error ", err)
	}

	n.postSettlementActions(ctx, transaction)

	return transaction, nil
}

// GetTransaction retrieves a single transaction by ID.
func (n *Nordgeld) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	return n.datasource.GetTransaction(ctx, id)
}

// GetTransactionsForAccount lists every transaction touching an account, newest first.
func (n *Nordgeld) GetTransactionsForAccount(ctx context.Context, accountID string) ([]model.Transaction, error) {
	return n.datasource.GetTransactionsForAccount(ctx, accountID)
}

// GetAllTransactions lists transactions with pagination.
func (n *Nordgeld) GetAllTransactions(ctx context.Context, limit, offset int) ([]model.Transaction, error) {
	return n.datasource.GetAllTransactions(ctx, limit, offset)
}
