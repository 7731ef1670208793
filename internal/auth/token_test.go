package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JooruBackend/jooru-backend-sub001/internal/auth"
	"github.com/JooruBackend/jooru-backend-sub001/internal/domain"
)

func TestIssueAndVerify(t *testing.T) {
	iss := auth.NewIssuer("secret", 30*time.Minute, 7*24*time.Hour)

	toks, err := iss.Issue(42, domain.RoleProfessional)
	require.NoError(t, err)
	assert.Equal(t, int((30 * time.Minute).Seconds()), toks.ExpiresIn)

	claims, err := iss.Verify(toks.AccessToken, "access")
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "professional", claims.Role)

	refresh, err := iss.Verify(toks.RefreshToken, "refresh")
	require.NoError(t, err)
	assert.Equal(t, int64(42), refresh.UserID)
}

func TestVerify_TypeMismatch(t *testing.T) {
	iss := auth.NewIssuer("secret", time.Minute, time.Hour)
	toks, err := iss.Issue(1, domain.RoleClient)
	require.NoError(t, err)

	_, err = iss.Verify(toks.AccessToken, "refresh")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = iss.Verify(toks.RefreshToken, "access")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestVerify_WrongSecret(t *testing.T) {
	toks, err := auth.NewIssuer("secret-a", time.Minute, time.Hour).Issue(1, domain.RoleClient)
	require.NoError(t, err)

	_, err = auth.NewIssuer("secret-b", time.Minute, time.Hour).Verify(toks.AccessToken, "access")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestVerify_Expired(t *testing.T) {
	iss := auth.NewIssuer("secret", -time.Minute, time.Hour)
	toks, err := iss.Issue(1, domain.RoleClient)
	require.NoError(t, err)

	_, err = iss.Verify(toks.AccessToken, "access")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
