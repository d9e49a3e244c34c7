package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	issuer := NewIssuer("access", "refresh", time.Hour, 24*time.Hour)
	userID := primitive.NewObjectID()

	signed, err := issuer.IssueAccess(userID)
	require.NoError(t, err)

	got, err := issuer.ParseAccess(signed)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestAccessAndRefreshSecretsAreNotInterchangeable(t *testing.T) {
	issuer := NewIssuer("access", "refresh", time.Hour, 24*time.Hour)
	userID := primitive.NewObjectID()

	refresh, err := issuer.IssueRefresh(userID)
	require.NoError(t, err)

	_, err = issuer.ParseAccess(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	got, err := issuer.ParseRefresh(refresh)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	issuer := NewIssuer("access", "refresh", time.Hour, 24*time.Hour)
	issued := time.Now().Add(-2 * time.Hour)
	issuer.now = func() time.Time { return issued }

	signed, err := issuer.IssueAccess(primitive.NewObjectID())
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.ParseAccess(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGarbageTokenIsRejected(t *testing.T) {
	issuer := NewIssuer("access", "refresh", time.Hour, time.Hour)
	_, err := issuer.ParseAccess("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHashIsStable(t *testing.T) {
	assert.Equal(t, Hash("abc"), Hash("abc"))
	assert.NotEqual(t, Hash("abc"), Hash("abd"))
	assert.Len(t, Hash("abc"), 64)
}
