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
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordgeld/nordgeld"
	"github.com/nordgeld/nordgeld/config"
	"github.com/nordgeld/nordgeld/database"
	"github.com/nordgeld/nordgeld/internal/request"
	"github.com/nordgeld/nordgeld/internal/session"
	"github.com/nordgeld/nordgeld/model"
)

type TestRequest struct {
	Payload  io.Reader
	Router   *gin.Engine
	Response interface{}
	Method   string
	Route    string
	Auth     string
	Header   map[string]string
}

func SetUpTestRequest(s TestRequest) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(s.Method, s.Route, s.Payload)
	for key, value := range s.Header {
		req.Header.Set(key, value)
	}
	if s.Auth != "" {
		req.Header.Set("Authorization", "Bearer "+s.Auth)
	}
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	s.Router.ServeHTTP(resp, req)

	err := json.NewDecoder(resp.Body).Decode(&s.Response)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func setupRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	config.MockConfig(&config.Configuration{
		Redis:   config.RedisConfig{Dns: mr.Addr()},
		Session: config.SessionConfig{SigningKey: "test-signing-key", TTLMinutes: 30},
	})

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	n, err := nordgeld.NewNordgeld(&database.Datasource{Conn: db})
	require.NoError(t, err)

	return NewAPI(n).Router(), mock
}

func customerToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := session.IssueToken(userID, model.RoleCustomer)
	require.NoError(t, err)
	return token
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := session.IssueToken("usr_admin", model.RoleAdmin)
	require.NoError(t, err)
	return token
}

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"user_id", "email", "first_name", "last_name", "role", "accounts", "is_active", "created_at"})
}

func accountRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"account_id", "number", "iban", "account_type", "name", "balance", "currency", "owner_id", "owner_name", "is_active", "created_at", "updated_at"})
}

func transactionRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"transaction_id", "source", "destination", "amount", "currency", "description", "type", "status", "created_at", "processed_at"})
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := setupRouter(t)

	var response string
	resp, err := SetUpTestRequest(TestRequest{
		Response: &response,
		Method:   "GET",
		Route:    "/",
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "server running...", response)
}

func TestRequiresSessionToken(t *testing.T) {
	router, _ := setupRouter(t)

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Response: &response,
		Method:   "GET",
		Route:    "/accounts",
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestRejectsInvalidToken(t *testing.T) {
	router, _ := setupRouter(t)

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Response: &response,
		Method:   "GET",
		Route:    "/accounts",
		Auth:     "not-a-token",
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestCustomerCannotAccessAdminRoutes(t *testing.T) {
	router, _ := setupRouter(t)

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Response: &response,
		Method:   "GET",
		Route:    "/admin/users",
		Auth:     customerToken(t, "usr_1"),
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestLogin(t *testing.T) {
	router, mock := setupRouter(t)

	mock.ExpectQuery("SELECT user_id, email").
		WithArgs("jan@example.com").
		WillReturnRows(userRows().
			AddRow("usr_1", "jan@example.com", "Jan", "Becker", model.RoleCustomer, pq.Array([]string{}), true, time.Now()))

	payload, _ := request.ToJsonReq(map[string]string{"email": "jan@example.com"})
	var response struct {
		Token string     `json:"token"`
		User  model.User `json:"user"`
	}
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  payload,
		Response: &response,
		Method:   "POST",
		Route:    "/auth/login",
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NotEmpty(t, response.Token)
	assert.Equal(t, "usr_1", response.User.UserID)

	identity, err := session.ParseToken(response.Token)
	require.NoError(t, err)
	assert.Equal(t, "usr_1", identity.UserID)
	assert.False(t, identity.IsAdmin())
}

func TestLogin_DeactivatedUser(t *testing.T) {
	router, mock := setupRouter(t)

	mock.ExpectQuery("SELECT user_id, email").
		WithArgs("gone@example.com").
		WillReturnRows(userRows().
			AddRow("usr_2", "gone@example.com", "Ed", "Weber", model.RoleCustomer, pq.Array([]string{}), false, time.Now()))

	payload, _ := request.ToJsonReq(map[string]string{"email": "gone@example.com"})
	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  payload,
		Response: &response,
		Method:   "POST",
		Route:    "/auth/login",
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLogin_InvalidEmail(t *testing.T) {
	router, _ := setupRouter(t)

	payload, _ := request.ToJsonReq(map[string]string{"email": "not-an-email"})
	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  payload,
		Response: &response,
		Method:   "POST",
		Route:    "/auth/login",
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
