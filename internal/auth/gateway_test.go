package auth

import (
	"context"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func issueToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validToken(t *testing.T) string {
	return issueToken(t, testSecret, jwt.MapClaims{
		"sub":  "user-1",
		"name": "Ada Lovelace",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
}

func TestSignInWithValidToken(t *testing.T) {
	g := NewGateway(testSecret)

	user, err := g.SignIn(context.Background(), validToken(t))
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "Ada Lovelace", user.DisplayName)
	assert.Equal(t, user, g.CurrentUser())
}

func TestSignInWithBadTokenLeavesSessionUnauthenticated(t *testing.T) {
	g := NewGateway(testSecret)

	_, err := g.SignIn(context.Background(), "not-a-token")
	assert.Error(t, err)
	assert.Nil(t, g.CurrentUser())

	// Wrong signing secret is rejected too.
	_, err = g.SignIn(context.Background(), issueToken(t, "other-secret", jwt.MapClaims{
		"name": "Mallory",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}))
	assert.Error(t, err)
	assert.Nil(t, g.CurrentUser())
}

func TestSignInRequiresDisplayName(t *testing.T) {
	g := NewGateway(testSecret)

	_, err := g.SignIn(context.Background(), issueToken(t, testSecret, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}))
	assert.Error(t, err)
}

func TestOnAuthStateChangedFiresImmediatelyAndOnTransitions(t *testing.T) {
	g := NewGateway(testSecret)

	var events []*User
	unsubscribe := g.OnAuthStateChanged(func(u *User) {
		events = append(events, u)
	})

	// Fires once immediately with the current (absent) state.
	require.Len(t, events, 1)
	assert.Nil(t, events[0])

	_, err := g.SignIn(context.Background(), validToken(t))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Ada Lovelace", events[1].DisplayName)

	g.SignOut()
	require.Len(t, events, 3)
	assert.Nil(t, events[2])

	// After unsubscribing no further events arrive.
	unsubscribe()
	_, err = g.SignIn(context.Background(), validToken(t))
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestFailedSignInDoesNotNotifyObservers(t *testing.T) {
	g := NewGateway(testSecret)

	calls := 0
	defer g.OnAuthStateChanged(func(*User) { calls++ })()
	require.Equal(t, 1, calls)

	_, err := g.SignIn(context.Background(), "garbage")
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}
