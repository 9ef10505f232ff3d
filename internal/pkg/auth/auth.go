// Package auth verifies the bearer tokens issued by the storefront's login
// service and exposes the identity they carry.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
)

// Role of an authenticated user.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleDistributor Role = "distributor"
	RoleDriver      Role = "driver"
	RoleAgent       Role = "agent"
	RoleCustomer    Role = "customer"
)

// ElevatedRoles may drive any order transition.
var ElevatedRoles = []Role{RoleAdmin, RoleDistributor}

// Claims is the token payload.
type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Identity is who a request or socket session acts as.
type Identity struct {
	UserID kernel.UUID
	Role   Role
}

func (i Identity) HasRole(roles ...Role) bool {
	return slices.Contains(roles, i.Role)
}

func (i Identity) IsElevated() bool {
	return i.HasRole(ElevatedRoles...)
}

// Verifier checks HS256 tokens against a shared secret.
type Verifier struct {
	secret []byte
	now    func() time.Time
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret), now: time.Now}
}

// Verify parses token and returns its identity. Any failure wraps
// errs.ErrAuthRequired.
func (v *Verifier) Verify(token string) (Identity, error) {
	if token == "" {
		return Identity{}, errs.ErrAuthRequired
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	}, jwt.WithTimeFunc(v.now))
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", errs.ErrAuthRequired, err)
	}
	if !parsed.Valid {
		return Identity{}, fmt.Errorf("%w: invalid token", errs.ErrAuthRequired)
	}

	userID, err := kernel.UUIDFromString(claims.UserID)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", errs.ErrAuthRequired, err)
	}
	if claims.Role == "" {
		return Identity{}, fmt.Errorf("%w: %w", errs.ErrAuthRequired, errors.New("token carries no role"))
	}

	return Identity{UserID: userID, Role: Role(claims.Role)}, nil
}

// Issue signs a token for identity. The login service owns issuing in
// production; this serves tooling and tests.
func (v *Verifier) Issue(identity Identity, ttl time.Duration) (string, error) {
	now := v.now()
	claims := &Claims{
		UserID: identity.UserID.String(),
		Role:   string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// TokenFromRequest reads the bearer token from the Authorization header, or
// from the token query parameter used by browser sockets.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.URL.Query().Get("token")
}
