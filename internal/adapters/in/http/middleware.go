package http

import (
	"fulfillment/internal/pkg/auth"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const identityKey = "identity"

// Authenticate resolves the bearer token when one is sent. Requests without a
// token pass through as guests; a bad token is rejected.
func Authenticate(verifier *auth.Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			token := auth.TokenFromRequest(ctx.Request())
			if token == "" {
				return next(ctx)
			}
			identity, err := verifier.Verify(token)
			if err != nil {
				return writeError(ctx, err)
			}
			ctx.Set(identityKey, identity)
			return next(ctx)
		}
	}
}

// RequireRoles rejects guests, and callers outside roles when any are given.
func RequireRoles(roles ...auth.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			identity, ok := identityFrom(ctx)
			if !ok {
				return writeError(ctx, errs.ErrAuthRequired)
			}
			if len(roles) > 0 && !identity.HasRole(roles...) {
				return writeError(ctx, errs.ErrUnauthorized)
			}
			return next(ctx)
		}
	}
}

func identityFrom(ctx echo.Context) (auth.Identity, bool) {
	identity, ok := ctx.Get(identityKey).(auth.Identity)
	return identity, ok
}
