package database

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/nordgeld/nordgeld/internal/apierror"
	"github.com/nordgeld/nordgeld/model"
)

func accountRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"account_id", "number", "iban", "account_type", "name", "balance", "currency", "owner_id", "owner_name", "is_active", "created_at", "updated_at"})
}

func TestCreateAccount_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	account := model.Account{
		Name:     "Girokonto",
		Number:   "1234567890",
		IBAN:     "DE89370400440532013000",
		Type:     "Girokonto",
		Balance:  250.00,
		Currency: "EUR",
		OwnerID:  "usr_1",
	}

	mock.ExpectExec("INSERT INTO nordgeld.accounts").
		WithArgs(sqlmock.AnyArg(), account.Number, account.IBAN, account.Type, account.Name, account.Balance, account.Currency, account.OwnerID, account.OwnerName, true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	createdAccount, err := ds.CreateAccount(context.Background(), account)
	assert.NoError(t, err)
	assert.NotEmpty(t, createdAccount.AccountID)
	assert.True(t, createdAccount.Active)
}

func TestCreateAccount_CoercesNaNBalance(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	account := model.Account{
		Name:     "Girokonto",
		Number:   "1234567890",
		Type:     "Girokonto",
		Balance:  math.NaN(),
		Currency: "EUR",
		OwnerID:  "usr_1",
	}

	mock.ExpectExec("INSERT INTO nordgeld.accounts").
		WithArgs(sqlmock.AnyArg(), account.Number, account.IBAN, account.Type, account.Name, float64(0), account.Currency, account.OwnerID, account.OwnerName, true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	created, err := ds.CreateAccount(context.Background(), account)
	assert.NoError(t, err)
	assert.Equal(t, float64(0), created.Balance)
}

func TestGetAccountByID_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	now := time.Now()
	row := accountRows().
		AddRow("acc_1", "1234567890", "DE89370400440532013000", "Girokonto", "Main", 250.00, "EUR", "usr_1", "Alex Example", true, now, now)

	mock.ExpectQuery("SELECT account_id, number").
		WithArgs("acc_1").
		WillReturnRows(row)

	account, err := ds.GetAccountByID(context.Background(), "acc_1")
	assert.NoError(t, err)
	assert.Equal(t, "acc_1", account.AccountID)
	assert.Equal(t, 250.00, account.Balance)

	err = mock.ExpectationsWereMet()
	assert.NoError(t, err)
}

func TestGetAccountByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT account_id, number").
		WithArgs("acc_missing").
		WillReturnRows(accountRows())

	_, err = ds.GetAccountByID(context.Background(), "acc_missing")
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrNotFound, apiErr.Code)
}

func TestGetAccountsByOwner_ActiveOnly(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	now := time.Now()
	rows := accountRows().
		AddRow("acc_1", "111", "", "Girokonto", "Main", 100.0, "EUR", "usr_1", "", true, now, now).
		AddRow("acc_2", "222", "", "Sparkonto", "Savings", 500.0, "EUR", "usr_1", "", true, now, now)

	mock.ExpectQuery("WHERE owner_id = \\$1 AND is_active = TRUE").
		WithArgs("usr_1").
		WillReturnRows(rows)

	accounts, err := ds.GetAccountsByOwner(context.Background(), "usr_1")
	assert.NoError(t, err)
	assert.Len(t, accounts, 2)
	assert.Equal(t, "acc_1", accounts[0].AccountID)
}

func TestGetAccountBalance_NullReadsAsZero(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT balance FROM nordgeld.accounts").
		WithArgs("acc_1").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(nil))

	balance, err := ds.GetAccountBalance(context.Background(), "acc_1")
	assert.NoError(t, err)
	assert.Equal(t, float64(0), balance)
}

func TestGetAccountBalance_NaNReadsAsZero(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT balance FROM nordgeld.accounts").
		WithArgs("acc_1").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(math.NaN()))

	balance, err := ds.GetAccountBalance(context.Background(), "acc_1")
	assert.NoError(t, err)
	assert.Equal(t, float64(0), balance)
}

func TestGetAccountBalance_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT balance FROM nordgeld.accounts").
		WithArgs("acc_missing").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}))

	_, err = ds.GetAccountBalance(context.Background(), "acc_missing")
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrNotFound, apiErr.Code)
}

func TestUpdateAccountBalance_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectExec("UPDATE nordgeld.accounts").
		WithArgs("acc_1", 750.50).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = ds.UpdateAccountBalance(context.Background(), "acc_1", 750.50)
	assert.NoError(t, err)
}

func TestUpdateAccountBalance_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectExec("UPDATE nordgeld.accounts").
		WithArgs("acc_missing", 750.50).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = ds.UpdateAccountBalance(context.Background(), "acc_missing", 750.50)
	assert.Error(t, err)
}

func TestAdjustAccountBalance_ReturnsNewBalance(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("UPDATE nordgeld.accounts").
		WithArgs("acc_1", 200.0).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(1200.0))

	newBalance, err := ds.AdjustAccountBalance(context.Background(), "acc_1", 200.0)
	assert.NoError(t, err)
	assert.Equal(t, 1200.0, newBalance)
}

func TestTransferBalances_CommitsBothLegsAndRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	txn := &model.Transaction{
		TransactionID: "txn_1",
		Source:        "acc_a",
		Destination:   "acc_b",
		Amount:        300,
		Currency:      "EUR",
		Type:          model.TypeTransfer,
		Status:        model.StatusCompleted,
		CreatedAt:     time.Now(),
		ProcessedAt:   time.Now(),
	}

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE nordgeld.accounts").
		WithArgs("acc_a", -300.0).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(700.0))
	mock.ExpectQuery("UPDATE nordgeld.accounts").
		WithArgs("acc_b", 300.0).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(300.0))
	mock.ExpectExec("INSERT INTO nordgeld.transactions").
		WithArgs(txn.TransactionID, txn.Source, txn.Destination, txn.Amount, txn.Currency, txn.Description, txn.Type, txn.Status, txn.CreatedAt, txn.ProcessedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	fromNew, toNew, err := ds.TransferBalances(context.Background(), txn, "acc_a", "acc_b", 300)
	assert.NoError(t, err)
	assert.Equal(t, 700.0, fromNew)
	assert.Equal(t, 300.0, toNew)

	err = mock.ExpectationsWereMet()
	assert.NoError(t, err)
}

func TestTransferBalances_RollsBackOnMissingDestination(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	txn := &model.Transaction{TransactionID: "txn_1", Source: "acc_a", Destination: "acc_missing", Amount: 300}

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE nordgeld.accounts").
		WithArgs("acc_a", -300.0).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(700.0))
	mock.ExpectQuery("UPDATE nordgeld.accounts").
		WithArgs("acc_missing", 300.0).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}))
	mock.ExpectRollback()

	_, _, err = ds.TransferBalances(context.Background(), txn, "acc_a", "acc_missing", 300)
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrNotFound, apiErr.Code)

	err = mock.ExpectationsWereMet()
	assert.NoError(t, err)
}

func TestApplyDeposit_CreditsAndRecords(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	txn := &model.Transaction{
		TransactionID: "txn_1",
		Source:        model.SourceAdminDeposit,
		Destination:   "acc_b",
		Amount:        150,
		Currency:      "EUR",
		Type:          model.TypeDeposit,
		Status:        model.StatusCompleted,
		CreatedAt:     time.Now(),
		ProcessedAt:   time.Now(),
	}

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE nordgeld.accounts").
		WithArgs("acc_b", 150.0).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(400.0))
	mock.ExpectExec("INSERT INTO nordgeld.transactions").
		WithArgs(txn.TransactionID, txn.Source, txn.Destination, txn.Amount, txn.Currency, txn.Description, txn.Type, txn.Status, txn.CreatedAt, txn.ProcessedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	newBalance, err := ds.ApplyDeposit(context.Background(), txn, "acc_b", 150)
	assert.NoError(t, err)
	assert.Equal(t, 400.0, newBalance)
}

func TestDeactivateAccount_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectExec("UPDATE nordgeld.accounts").
		WithArgs("acc_1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = ds.DeactivateAccount(context.Background(), "acc_1")
	assert.NoError(t, err)
}
