package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendflow/internal/auth"
)

func TestIssueAndParseLogin(t *testing.T) {
	tk := auth.NewTokens("attendflow-test", "key")

	token, err := tk.IssueLogin("user-1", "ADMIN", time.Hour)
	require.NoError(t, err)

	claims, err := tk.Parse(token, auth.PurposeLogin)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, "attendflow-test", claims.Issuer)
}

func TestParseRejectsPurposeMismatch(t *testing.T) {
	tk := auth.NewTokens("attendflow-test", "key")

	reset, err := tk.IssueReset("user-1", time.Hour)
	require.NoError(t, err)

	_, err = tk.Parse(reset, auth.PurposeLogin)
	assert.Error(t, err)

	_, err = tk.Parse(reset, auth.PurposeReset)
	assert.NoError(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	tk := auth.NewTokens("attendflow-test", "key")

	token, err := tk.IssueLogin("user-1", "ADMIN", -time.Minute)
	require.NoError(t, err)

	_, err = tk.Parse(token, auth.PurposeLogin)
	assert.Error(t, err)
}

func TestParseRejectsWrongKey(t *testing.T) {
	token, err := auth.NewTokens("attendflow-test", "key-a").IssueLogin("user-1", "ADMIN", time.Hour)
	require.NoError(t, err)

	_, err = auth.NewTokens("attendflow-test", "key-b").Parse(token, auth.PurposeLogin)
	assert.Error(t, err)
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	token, err := auth.NewTokens("someone-else", "key").IssueLogin("user-1", "ADMIN", time.Hour)
	require.NoError(t, err)

	_, err = auth.NewTokens("attendflow-test", "key").Parse(token, auth.PurposeLogin)
	assert.Error(t, err)
}
