package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/online-library/internal/entities"
)

func TestTokenIssuer_IssueAndParse(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-secret"), "online-library", time.Hour)
	user := &entities.User{ID: 42, Username: "frank", Role: entities.UserRoleAuthor}

	token, expiresAt, err := issuer.Issue(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, entities.UserRoleAuthor, claims.Role)
	assert.Equal(t, "online-library", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenIssuer_UniqueIDs(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-secret"), "online-library", time.Hour)
	user := &entities.User{ID: 1, Role: entities.UserRoleUser}

	a, _, err := issuer.Issue(user)
	require.NoError(t, err)
	b, _, err := issuer.Issue(user)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-secret"), "online-library", time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := issuer.Issue(&entities.User{ID: 1, Role: entities.UserRoleUser})
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Parse(token)
	assert.True(t, errors.Is(err, ErrTokenExpired), "got %v", err)
}

func TestTokenIssuer_RejectsForeignTokens(t *testing.T) {
	user := &entities.User{ID: 1, Role: entities.UserRoleUser}
	issuer := NewTokenIssuer([]byte("test-secret"), "online-library", time.Hour)

	otherKey := NewTokenIssuer([]byte("other-secret"), "online-library", time.Hour)
	token, _, err := otherKey.Issue(user)
	require.NoError(t, err)
	_, err = issuer.Parse(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	otherIssuer := NewTokenIssuer([]byte("test-secret"), "someone-else", time.Hour)
	token, _, err = otherIssuer.Issue(user)
	require.NoError(t, err)
	_, err = issuer.Parse(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	_, err = issuer.Parse("")
	assert.True(t, errors.Is(err, ErrInvalidToken))

	_, err = issuer.Parse("not.a.jwt")
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestClaims_UserID_Invalid(t *testing.T) {
	c := &Claims{}
	c.Subject = "abc"
	_, err := c.UserID()
	assert.True(t, errors.Is(err, ErrInvalidToken))

	c.Subject = "0"
	_, err = c.UserID()
	assert.True(t, errors.Is(err, ErrInvalidToken))
}
