package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// End-user identity is issued by an external identity provider and arrives as
// opaque headers; the services never see credentials.
const (
	XUserNameHeader = "X-User-Name"
	XUserRoleHeader = "X-User-Role"

	RoleAdmin = "admin"
)

var ErrNoUserName = errors.New("user identity is missing")

func MiddlewareUserName(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Header.Get(XUserNameHeader) == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, ErrNoUserName.Error())
		}
		return next(c)
	}
}

func MiddlewareAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		if req.Header.Get(XUserNameHeader) == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, ErrNoUserName.Error())
		}
		if req.Header.Get(XUserRoleHeader) != RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin role required")
		}
		return next(c)
	}
}

func GetUserName(c echo.Context) (string, error) {
	userName := c.Request().Header.Get(XUserNameHeader)
	if userName == "" {
		return "", ErrNoUserName
	}
	return userName, nil
}
