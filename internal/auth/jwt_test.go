// File: internal/auth/jwt_test.go
package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-key")

func TestGenerateAndValidateRoundTrip(t *testing.T) {
	token, err := GenerateJWT("user-123", testSecret)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := ValidateToken(token, testSecret)
	require.NoError(t, err)
	require.Equal(t, "user-123", userID)
}

func TestGenerateRejectsEmptyUserID(t *testing.T) {
	_, err := GenerateJWT("", testSecret)
	require.Error(t, err)
}

func TestValidateRejectsWrongKey(t *testing.T) {
	token, err := GenerateJWT("user-123", testSecret)
	require.NoError(t, err)

	_, err = ValidateToken(token, []byte("other-key"))
	require.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not-a-token", testSecret)
	require.Error(t, err)
}
