// Package auth verifies bearer tokens and carries the resulting actor
// through request contexts. Tokens are issued elsewhere; services only
// check the HMAC signature, expiry and issuer.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"servly/pkg/scheduling"
	"strings"

	"github.com/golang-jwt/jwt"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
	ErrUnknownRole  = errors.New("token carries an unknown role")
)

// Actor is the authenticated caller. Every scheduling decision takes the
// actor explicitly.
type Actor struct {
	ID   string          `json:"id"`
	Role scheduling.Role `json:"role"`
}

func (a Actor) Is(role scheduling.Role) bool {
	return a.Role == role
}

type Claims struct {
	Role string `json:"role"`
	jwt.StandardClaims
}

type Verifier struct {
	secret []byte
	issuer string
}

func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer}
}

func (v *Verifier) Verify(tokenString string) (Actor, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return Actor{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return Actor{}, ErrInvalidToken
	}
	if v.issuer != "" && !claims.VerifyIssuer(v.issuer, true) {
		return Actor{}, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidToken, claims.Issuer)
	}
	if claims.Subject == "" {
		return Actor{}, fmt.Errorf("%w: empty subject", ErrInvalidToken)
	}

	role, err := scheduling.ParseRole(claims.Role)
	if err != nil {
		return Actor{}, fmt.Errorf("%w: %q", ErrUnknownRole, claims.Role)
	}

	return Actor{ID: claims.Subject, Role: role}, nil
}

// BearerToken extracts the token from an "Authorization: Bearer ..." header.
func BearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(token), nil
}

type actorKey struct{}
type tokenKey struct{}

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFrom(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok
}

// WithToken keeps the raw bearer token so it can be forwarded to other
// services on the caller's behalf.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}
