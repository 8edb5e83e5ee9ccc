package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordgeld/nordgeld/config"
	"github.com/nordgeld/nordgeld/model"
)

func TestIssueAndParseToken(t *testing.T) {
	config.MockConfig(&config.Configuration{
		Session: config.SessionConfig{SigningKey: "test-signing-key", TTLMinutes: 30},
	})

	token, err := IssueToken("usr_123", model.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "usr_123", identity.UserID)
	assert.Equal(t, model.RoleAdmin, identity.Role)
	assert.True(t, identity.IsAdmin())
}

func TestParseTokenRejectsWrongKey(t *testing.T) {
	config.MockConfig(&config.Configuration{
		Session: config.SessionConfig{SigningKey: "test-signing-key", TTLMinutes: 30},
	})

	claims := jwt.MapClaims{
		"sub":  "usr_123",
		"role": model.RoleCustomer,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-key"))
	require.NoError(t, err)

	_, err = ParseToken(forged)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	config.MockConfig(&config.Configuration{
		Session: config.SessionConfig{SigningKey: "test-signing-key", TTLMinutes: 30},
	})

	claims := jwt.MapClaims{
		"sub":  "usr_123",
		"role": model.RoleCustomer,
		"exp":  time.Now().Add(-time.Minute).Unix(),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	_, err = ParseToken(expired)
	assert.Error(t, err)
}

func TestParseTokenRequiresSubject(t *testing.T) {
	config.MockConfig(&config.Configuration{
		Session: config.SessionConfig{SigningKey: "test-signing-key", TTLMinutes: 30},
	})

	claims := jwt.MapClaims{
		"role": model.RoleCustomer,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.Error(t, err)
}
