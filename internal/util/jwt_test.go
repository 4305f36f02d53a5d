package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("ana@x.com", "secreto")
	require.NoError(t, err)

	claims, err := ValidateJWT(token, "secreto")
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", claims.Subject)
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT("ana@x.com", "secreto")
	require.NoError(t, err)

	_, err = ValidateJWT(token, "otro")
	assert.Error(t, err)
}

func TestJWTGarbage(t *testing.T) {
	_, err := ValidateJWT("no-es-un-token", "secreto")
	assert.Error(t, err)
}
