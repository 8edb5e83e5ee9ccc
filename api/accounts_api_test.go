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

package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordgeld/nordgeld/model"
)

func TestGetMyAccounts(t *testing.T) {
	router, mock := setupRouter(t)

	now := time.Now()
	mock.ExpectQuery("SELECT account_id, number").
		WithArgs("usr_1").
		WillReturnRows(accountRows().
			AddRow("acc_1", "100200", "DE1234", "Girokonto", "Main", 1000.0, "EUR", "usr_1", "Jan Becker", true, now, now).
			AddRow("acc_2", "100201", "DE1235", "Sparkonto", "Savings", 500.0, "EUR", "usr_1", "Jan Becker", true, now, now))

	var response []model.Account
	resp, err := SetUpTestRequest(TestRequest{
		Response: &response,
		Method:   "GET",
		Route:    "/accounts",
		Auth:     customerToken(t, "usr_1"),
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	require.Len(t, response, 2)
	assert.Equal(t, "acc_1", response[0].AccountID)
	assert.Equal(t, "usr_1", response[0].OwnerID)
}

func TestGetAccount_OwnedByOtherUser(t *testing.T) {
	router, mock := setupRouter(t)

	now := time.Now()
	mock.ExpectQuery("SELECT account_id, number").
		WithArgs("acc_9").
		WillReturnRows(accountRows().
			AddRow("acc_9", "900", "", "Girokonto", "Main", 50.0, "EUR", "usr_other", "", true, now, now))

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Response: &response,
		Method:   "GET",
		Route:    "/accounts/acc_9",
		Auth:     customerToken(t, "usr_1"),
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestGetAccount_AdminSeesAnyAccount(t *testing.T) {
	router, mock := setupRouter(t)

	now := time.Now()
	mock.ExpectQuery("SELECT account_id, number").
		WithArgs("acc_9").
		WillReturnRows(accountRows().
			AddRow("acc_9", "900", "", "Girokonto", "Main", 50.0, "EUR", "usr_other", "", true, now, now))

	var response model.Account
	resp, err := SetUpTestRequest(TestRequest{
		Response: &response,
		Method:   "GET",
		Route:    "/accounts/acc_9",
		Auth:     adminToken(t),
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "acc_9", response.AccountID)
}

func TestGetAccountTransactions_SignsAmounts(t *testing.T) {
	router, mock := setupRouter(t)

	now := time.Now()
	mock.ExpectQuery("SELECT account_id, number").
		WithArgs("acc_1").
		WillReturnRows(accountRows().
			AddRow("acc_1", "100200", "", "Girokonto", "Main", 1000.0, "EUR", "usr_1", "", true, now, now))
	mock.ExpectQuery("SELECT transaction_id").
		WithArgs("acc_1").
		WillReturnRows(transactionRows().
			AddRow("txn_out", "acc_1", "acc_x", 100.0, "EUR", "Rent", model.TypeTransfer, model.StatusCompleted, now, now).
			AddRow("txn_in", model.SourceAdminDeposit, "acc_1", 500.0, "EUR", "Admin Deposit: allowance", model.TypeDeposit, model.StatusCompleted, now, now))

	var response []model.Transaction
	resp, err := SetUpTestRequest(TestRequest{
		Response: &response,
		Method:   "GET",
		Route:    "/accounts/acc_1/transactions",
		Auth:     customerToken(t, "usr_1"),
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	require.Len(t, response, 2)
	assert.Equal(t, -100.0, response[0].Amount)
	assert.Equal(t, 500.0, response[1].Amount)
}

func TestGetAccountTransactions_EmptyListNotNull(t *testing.T) {
	router, mock := setupRouter(t)

	now := time.Now()
	mock.ExpectQuery("SELECT account_id, number").
		WithArgs("acc_1").
		WillReturnRows(accountRows().
			AddRow("acc_1", "100200", "", "Girokonto", "Main", 1000.0, "EUR", "usr_1", "", true, now, now))
	mock.ExpectQuery("SELECT transaction_id").
		WithArgs("acc_1").
		WillReturnRows(transactionRows())

	var response []model.Transaction
	resp, err := SetUpTestRequest(TestRequest{
		Response: &response,
		Method:   "GET",
		Route:    "/accounts/acc_1/transactions",
		Auth:     customerToken(t, "usr_1"),
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NotNil(t, response)
	assert.Len(t, response, 0)
}

func TestCreateAccount_AdminOnly(t *testing.T) {
	router, _ := setupRouter(t)

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  nil,
		Response: &response,
		Method:   "POST",
		Route:    "/accounts",
		Auth:     customerToken(t, "usr_1"),
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.Code)
}
