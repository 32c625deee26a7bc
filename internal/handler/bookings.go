package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/divyansh01440/nirvana-agency/internal/middleware"
	"github.com/divyansh01440/nirvana-agency/internal/model"
	"github.com/divyansh01440/nirvana-agency/internal/service"
)

// BookingHandler serves call bookings.
type BookingHandler struct {
	Bookings *service.BookingService
	Log      *zap.Logger
}

func NewBookingHandler(b *service.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{Bookings: b, Log: log}
}

type statusReq struct {
	Status string `json:"status"`
}

func (h *BookingHandler) Create(c echo.Context) error {
	var req service.BookingInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	id, err := h.Bookings.Create(ctx, middleware.UserID(c), req)
	if err != nil {
		return respondErr(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

func (h *BookingHandler) Mine(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	g, err := h.Bookings.ListMine(ctx, middleware.UserID(c))
	if err != nil {
		return respondErr(c, h.Log, err)
	}
	return guardedList(c, g)
}

// List supports ?status=<booking status>.
func (h *BookingHandler) List(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	g, err := h.Bookings.ListAll(ctx, middleware.UserID(c), c.QueryParam("status"))
	if err != nil {
		return respondErr(c, h.Log, err)
	}
	return guardedList(c, g)
}

func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid booking id")
	}
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	if err := h.Bookings.UpdateStatus(ctx, middleware.UserID(c), model.BookingID(id), req.Status); err != nil {
		return respondErr(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *BookingHandler) Stats(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	g, err := h.Bookings.Stats(ctx, middleware.UserID(c))
	if err != nil {
		return respondErr(c, h.Log, err)
	}
	return guardedValue(c, g)
}
