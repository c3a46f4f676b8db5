package store

import (
	"encoding/hex"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/gatekeeper/internal/authz"
)

func TestGenerateAccessToken(t *testing.T) {
	token, err := generateAccessToken()
	require.NoError(t, err)
	assert.Len(t, token, AccessTokenLen)

	_, err = hex.DecodeString(token)
	assert.NoError(t, err, "token must be valid hex")

	other, err := generateAccessToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other, "tokens must not repeat")
}

func TestUserPrincipal(t *testing.T) {
	u := User{ID: uuid.New(), Username: "jdoe", Role: authz.RoleAdmin}
	p := u.Principal()
	assert.Equal(t, u.ID, p.ID)
	assert.Equal(t, authz.RoleAdmin, p.Role)
}
