package middleware

// identity.go holds the context keys the JWT middleware fills and the
// helpers handlers and other middleware use to read them back.

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/divyansh01440/nirvana-agency/internal/model"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// UserID returns the authenticated caller, or 0 for anonymous requests.
func UserID(c echo.Context) model.UserID {
	if id, ok := c.Get(ctxUserID).(model.UserID); ok {
		return id
	}
	return 0
}

// Role returns the role claim of the access token, "" when anonymous.
// It is a hint for routing only; services re-read the stored role.
func Role(c echo.Context) string {
	r, _ := c.Get(ctxRole).(string)
	return r
}

// identityKey identifies the caller in rate-limit keys.
func identityKey(c echo.Context) string {
	if id := UserID(c); id != 0 {
		return strconv.FormatUint(uint64(id), 10)
	}
	return "anon"
}
