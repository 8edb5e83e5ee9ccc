package nordgeld

import (
	"context"

	"github.com/nordgeld/nordgeld/internal/apierror"
	"github.com/nordgeld/nordgeld/internal/session"
	"github.com/nordgeld/nordgeld/model"
)

// CreateUser creates a new user in the database.
func (n Nordgeld) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	return n.datasource.CreateUser(ctx, user)
}

// GetUser retrieves a user from the database by ID.
func (n Nordgeld) GetUser(ctx context.Context, id string) (*model.User, error) {
	return n.datasource.GetUserByID(ctx, id)
}

// GetAllUsers retrieves all users from the database.
func (n Nordgeld) GetAllUsers(ctx context.Context) ([]model.User, error) {
	return n.datasource.GetAllUsers(ctx)
}

// DeactivateUser flips a user inactive.
func (n Nordgeld) DeactivateUser(ctx context.Context, id string) error {
	return n.datasource.DeactivateUser(ctx, id)
}

// Login resolves a user by email and issues a session token. Deactivated users
// cannot log in.
func (n Nordgeld) Login(ctx context.Context, email string) (string, *model.User, error) {
	user, err := n.datasource.GetUserByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if !user.Active {
		return "", nil, apierror.NewAPIError(apierror.ErrUnauthorized, "User account is deactivated", nil)
	}
	token, err := session.IssueToken(user.UserID, user.Role)
	if err != nil {
		return "", nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to issue session token", err)
	}
	return token, user, nil
}
