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

	"github.com/nordgeld/nordgeld/internal/apierror"
	"github.com/nordgeld/nordgeld/model"
)

const userColumns = `user_id, email, first_name, last_name, role, accounts, is_active, created_at`

// CreateUser inserts a new user record into the `nordgeld.users` table.
func (d Datasource) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	user.UserID = model.GenerateUUIDWithSuffix("usr")
	user.CreatedAt = time.Now()
	user.Active = true
	if user.Role == "" {
		user.Role = model.RoleCustomer
	}
	if user.Accounts == nil {
		user.Accounts = []string{}
	}

	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO nordgeld.users (user_id, email, first_name, last_name, role, accounts, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, user.UserID, user.Email, user.FirstName, user.LastName, user.Role, pq.Array(user.Accounts), user.Active, user.CreatedAt)

	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return model.User{}, apierror.NewAPIError(apierror.ErrConflict, "User with this email already exists", err)
			default:
				return model.User{}, apierror.NewAPIError(apierror.ErrInternalServer, "Database error occurred", err)
			}
		}
		return model.User{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create user", err)
	}

	return user, nil
}

// GetUserByID retrieves a user by ID.
func (d Datasource) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM nordgeld.users
		WHERE user_id = $1
	`, id)
	return scanUserRow(row, fmt.Sprintf("User with ID '%s' not found", id))
}

// GetUserByEmail retrieves a user by email. Login resolves users through here.
func (d Datasource) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM nordgeld.users
		WHERE email = $1
	`, email)
	return scanUserRow(row, fmt.Sprintf("User with email '%s' not found", email))
}

// GetAllUsers retrieves every user, newest first.
func (d Datasource) GetAllUsers(ctx context.Context) ([]model.User, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM nordgeld.users
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve users", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var users []model.User
	for rows.Next() {
		user := model.User{}
		err := rows.Scan(&user.UserID, &user.Email, &user.FirstName, &user.LastName, &user.Role, pq.Array(&user.Accounts), &user.Active, &user.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan user data", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating users", err)
	}
	return users, nil
}

// DeactivateUser flips the active flag off. Users are never deleted.
func (d Datasource) DeactivateUser(ctx context.Context, id string) error {
	result, err := d.Conn.ExecContext(ctx, `
		UPDATE nordgeld.users
		SET is_active = FALSE
		WHERE user_id = $1
	`, id)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to deactivate user", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("User with ID '%s' not found", id), nil)
	}
	return nil
}

func scanUserRow(row *sql.Row, notFoundMsg string) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(&user.UserID, &user.Email, &user.FirstName, &user.LastName, &user.Role, pq.Array(&user.Accounts), &user.Active, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, notFoundMsg, err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve user", err)
	}
	return user, nil
}
