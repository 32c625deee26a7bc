package handler // handler defines http handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/divyansh01440/nirvana-agency/internal/service"
)

// HeaderAccessDenied tells clients why a guarded read came back empty.
const HeaderAccessDenied = "X-Access-Denied"

// dbTimeout bounds every request's storage work.
const dbTimeout = 5 * time.Second

func withTimeout(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

var statusByKind = []struct {
	kind   error
	status int
}{
	{service.ErrNotAuthenticated, http.StatusUnauthorized},
	{service.ErrNotAuthorized, http.StatusForbidden},
	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrConflict, http.StatusConflict},
	{service.ErrExpired, http.StatusGone},
	{service.ErrMismatch, http.StatusUnprocessableEntity},
	{service.ErrValidation, http.StatusBadRequest},
}

// respondErr writes a service error as {"error", "code"}.  Anything that
// is not a service error is logged and reported as a 500.
func respondErr(c echo.Context, log *zap.Logger, err error) error {
	for _, m := range statusByKind {
		if errors.Is(err, m.kind) {
			return c.JSON(m.status, echo.Map{"error": service.Message(err), "code": m.kind.Error()})
		}
	}
	log.Error("request failed",
		zap.String("route", c.Path()),
		zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error", "code": "internal"})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg, "code": "validation"})
}

// guardedList answers a guarded list read: 200 with the items, or 200
// with an empty list and the denial reason in a header.
func guardedList[T any](c echo.Context, g service.Guarded[[]T]) error {
	if !g.OK() {
		c.Response().Header().Set(HeaderAccessDenied, string(g.Denied))
	}
	if g.Value == nil {
		return c.JSON(http.StatusOK, []T{})
	}
	return c.JSON(http.StatusOK, g.Value)
}

// guardedValue is guardedList for single values; a denied value is null.
func guardedValue[T any](c echo.Context, g service.Guarded[T]) error {
	if !g.OK() {
		c.Response().Header().Set(HeaderAccessDenied, string(g.Denied))
	}
	return c.JSON(http.StatusOK, g.Value)
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}
