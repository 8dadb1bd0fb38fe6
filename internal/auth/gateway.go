package auth

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/dgrijalva/jwt-go"
)

// User represents an authenticated identity as reported by the external
// identity provider. DisplayName and presence are the only signals consumed
// downstream.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// Gateway delegates sign-in to an external identity provider that issues
// signed tokens. It holds the current identity for the process and notifies
// registered observers on every transition.
//
// One configured Gateway is constructed at process start and injected
// everywhere it is needed; there is no ambient global instance.
type Gateway struct {
	secret []byte

	mu        sync.Mutex
	current   *User
	nextID    int
	observers map[int]func(*User)
}

// NewGateway creates a gateway that verifies tokens signed with the given
// HMAC secret.
func NewGateway(secret string) *Gateway {
	return &Gateway{
		secret:    []byte(secret),
		observers: make(map[int]func(*User)),
	}
}

// SignIn verifies an externally issued identity token and, on success,
// transitions the session to authenticated and notifies observers. On
// failure the error is logged, the session stays unauthenticated, and the
// caller receives the error for transport-level handling only.
func (g *Gateway) SignIn(ctx context.Context, idToken string) (*User, error) {
	user, err := g.Verify(idToken)
	if err != nil {
		log.Printf("Error signing in: %v", err)
		return nil, err
	}

	g.mu.Lock()
	g.current = user
	observers := g.snapshotObservers()
	g.mu.Unlock()

	for _, cb := range observers {
		cb(user)
	}
	return user, nil
}

// SignOut terminates the session and notifies observers with an absent
// identity.
func (g *Gateway) SignOut() {
	g.mu.Lock()
	g.current = nil
	observers := g.snapshotObservers()
	g.mu.Unlock()

	for _, cb := range observers {
		cb(nil)
	}
}

// CurrentUser returns the signed-in identity, or nil.
func (g *Gateway) CurrentUser() *User {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

// OnAuthStateChanged registers a callback invoked once immediately with the
// current state and again on every subsequent transition. The returned
// unsubscribe handle must be called on teardown to avoid leaking the
// registration across re-mounts.
func (g *Gateway) OnAuthStateChanged(cb func(*User)) func() {
	g.mu.Lock()
	id := g.nextID
	g.nextID++
	g.observers[id] = cb
	current := g.current
	g.mu.Unlock()

	cb(current)

	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.observers, id)
	}
}

// Verify parses and validates an identity token, returning the user it
// describes. The provider puts the display name in the "name" claim.
func (g *Gateway) Verify(idToken string) (*User, error) {
	token, err := jwt.Parse(idToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return g.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid identity token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid identity token claims")
	}

	user := &User{}
	if sub, ok := claims["sub"].(string); ok {
		user.ID = sub
	}
	if name, ok := claims["name"].(string); ok {
		user.DisplayName = name
	}
	if user.DisplayName == "" {
		return nil, fmt.Errorf("identity token missing display name")
	}

	return user, nil
}

// callers must hold g.mu
func (g *Gateway) snapshotObservers() []func(*User) {
	out := make([]func(*User), 0, len(g.observers))
	for _, cb := range g.observers {
		out = append(out, cb)
	}
	return out
}
