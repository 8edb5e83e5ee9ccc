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

// Package session resolves the current user from a signed token. Callers get an
// explicit Identity per request instead of subscribing to an auth-state stream.
package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nordgeld/nordgeld/config"
	"github.com/nordgeld/nordgeld/model"
)

// Identity is the resolved current user: id and role, nothing more.
type Identity struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == model.RoleAdmin
}

// IssueToken signs an HS256 session token for the given user.
func IssueToken(userID, role string) (string, error) {
	cnf, err := config.Fetch()
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{}
	claims["sub"] = userID
	claims["role"] = role
	claims["exp"] = time.Now().Add(time.Duration(cnf.Session.TTLMinutes) * time.Minute).Unix()
	claims["iat"] = time.Now().Unix()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cnf.Session.SigningKey))
}

// ParseToken validates a session token and returns the identity it carries.
func ParseToken(tokenStr string) (*Identity, error) {
	cnf, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	tkn, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cnf.Session.SigningKey), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := tkn.Claims.(jwt.MapClaims)
	if !ok || !tkn.Valid {
		return nil, errors.New("invalid session token")
	}

	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" {
		return nil, errors.New("session token missing subject")
	}
	return &Identity{UserID: sub, Role: role}, nil
}
