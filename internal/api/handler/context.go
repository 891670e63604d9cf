package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// identity is the requester snapshot carried by the JWT claims.
type identity struct {
	Username string
	Name     string
	Role     string
	Room     string
}

// ctxIdentity extracts the claims injected by the Auth middleware and
// performs a fast-fail check before any service call: role and name must be
// non-empty (presence proves the middleware ran and the token carries a
// usable requester snapshot).
func ctxIdentity(c echo.Context) (identity, error) {
	id := identity{}
	id.Username, _ = c.Get("username").(string)
	id.Name, _ = c.Get("name").(string)
	id.Role, _ = c.Get("role").(string)
	id.Room, _ = c.Get("room").(string)

	if id.Role == "" || id.Name == "" {
		return identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}
