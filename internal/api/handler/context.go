package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxUser extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call: a non-empty user_id
// proves the middleware ran and the token identifies an account.
func ctxUser(c echo.Context) (userID, role string, err error) {
	userID, _ = c.Get("user_id").(string)
	if userID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	role, _ = c.Get("role").(string)
	return userID, role, nil
}
