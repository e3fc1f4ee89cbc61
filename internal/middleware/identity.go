package middleware

// identity.go defines helper functions shared across middleware files.
// JWT claims decode numbers as float64, so the user id stored by
// JWTAuth can arrive in several shapes depending on how the token was
// produced; contextUserID normalizes all of them.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// contextUserID extracts the authenticated user's ID from the Echo
// context.  The second return value is false when no usable id is
// present (unauthenticated request or malformed claim).
func contextUserID(c echo.Context) (uint64, bool) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, true
	case int64:
		return uint64(t), true
	case int:
		return uint64(t), true
	case float64:
		return uint64(t), true
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}
