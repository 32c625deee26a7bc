package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/divyansh01440/nirvana-agency/internal/middleware"
	"github.com/divyansh01440/nirvana-agency/internal/model"
	"github.com/divyansh01440/nirvana-agency/internal/service"
)

// QueryHandler serves the contact form and its admin inbox.
type QueryHandler struct {
	Queries *service.QueryService
	Log     *zap.Logger
}

func NewQueryHandler(q *service.QueryService, log *zap.Logger) *QueryHandler {
	return &QueryHandler{Queries: q, Log: log}
}

func (h *QueryHandler) Create(c echo.Context) error {
	var req service.QueryInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	id, err := h.Queries.Create(ctx, middleware.UserID(c), req)
	if err != nil {
		return respondErr(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

func (h *QueryHandler) List(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	g, err := h.Queries.ListAll(ctx, middleware.UserID(c), c.QueryParam("status"))
	if err != nil {
		return respondErr(c, h.Log, err)
	}
	return guardedList(c, g)
}

func (h *QueryHandler) UpdateStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid query id")
	}
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	if err := h.Queries.UpdateStatus(ctx, middleware.UserID(c), model.QueryID(id), req.Status); err != nil {
		return respondErr(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *QueryHandler) Stats(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	g, err := h.Queries.Stats(ctx, middleware.UserID(c))
	if err != nil {
		return respondErr(c, h.Log, err)
	}
	return guardedValue(c, g)
}
