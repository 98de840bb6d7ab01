package middleware // middleware contains reusable HTTP middleware functions

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// userIDKey is the echo context key the verified requester id is
// stored under.
const userIDKey = "user_id"

// Identity returns an Echo middleware that validates the Bearer token
// issued by the external auth collaborator and injects the verified
// user id into the request context. This service does not perform
// authentication itself; it only trusts the signed {userId} claim.
// The secret must match the one the auth service signs with.
func Identity(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				// Only HMAC-signed tokens are accepted; reject others.
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			id, ok := claimUserID(claims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user id claim"})
			}

			c.Set(userIDKey, id)
			return next(c)
		}
	}
}

// UserID returns the verified requester id stored by Identity. The
// second return is false when the request was not authenticated.
func UserID(c echo.Context) (uint64, bool) {
	v := c.Get(userIDKey)
	id, ok := v.(uint64)
	return id, ok
}

// claimUserID extracts the user id from the "sub" or "user_id" claim.
// Auth services serialize numeric ids either as JSON numbers or as
// strings, so both shapes are accepted.
func claimUserID(claims jwt.MapClaims) (uint64, bool) {
	for _, key := range []string{"sub", "user_id"} {
		switch v := claims[key].(type) {
		case float64:
			if v > 0 {
				return uint64(v), true
			}
		case string:
			if n, err := strconv.ParseUint(v, 10, 64); err == nil && n > 0 {
				return n, true
			}
		}
	}
	return 0, false
}
