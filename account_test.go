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
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordgeld/nordgeld/model"
)

func TestCreateAccount_AppliesDefaults(t *testing.T) {
	n, mock, _ := newTestNordgeld(t)

	mock.ExpectQuery("SELECT user_id, email").
		WithArgs("usr_1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "email", "first_name", "last_name", "role", "accounts", "is_active", "created_at"}).
			AddRow("usr_1", "jan@example.com", "Jan", "Becker", model.RoleCustomer, pq.Array([]string{}), true, time.Now()))
	mock.ExpectExec("INSERT INTO nordgeld.accounts").
		WillReturnResult(sqlmock.NewResult(1, 1))

	account, err := n.CreateAccount(context.Background(), model.Account{
		Type:     "Girokonto",
		Currency: "EUR",
		OwnerID:  "usr_1",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, account.AccountID)
	assert.NotEmpty(t, account.Number)
	assert.Len(t, account.IBAN, 22)
	assert.Equal(t, "DE", account.IBAN[:2])
	assert.Equal(t, "Jan Becker", account.OwnerName)
	assert.Equal(t, "Girokonto", account.Name)
	assert.True(t, account.Active)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAccount_KeepsProvidedFields(t *testing.T) {
	n, mock, _ := newTestNordgeld(t)

	mock.ExpectExec("INSERT INTO nordgeld.accounts").
		WillReturnResult(sqlmock.NewResult(1, 1))

	account, err := n.CreateAccount(context.Background(), model.Account{
		Type:      "Sparkonto",
		Name:      "Holiday fund",
		Number:    "100200300",
		IBAN:      "DE44500105175407324931",
		Currency:  "EUR",
		OwnerID:   "usr_1",
		OwnerName: "Jan Becker",
	})
	require.NoError(t, err)

	assert.Equal(t, "Holiday fund", account.Name)
	assert.Equal(t, "100200300", account.Number)
	assert.Equal(t, "DE44500105175407324931", account.IBAN)
}

func TestCreateAccount_OwnerNotFound(t *testing.T) {
	n, mock, _ := newTestNordgeld(t)

	mock.ExpectQuery("SELECT user_id, email").
		WithArgs("usr_missing").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	_, err := n.CreateAccount(context.Background(), model.Account{
		Type:     "Girokonto",
		Currency: "EUR",
		OwnerID:  "usr_missing",
	})
	require.Error(t, err)
}
