package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/divyansh01440/nirvana-agency/internal/middleware"
	"github.com/divyansh01440/nirvana-agency/internal/model"
	"github.com/divyansh01440/nirvana-agency/internal/service"
)

// ReviewHandler serves testimonials and their moderation.
type ReviewHandler struct {
	Reviews *service.ReviewService
	Log     *zap.Logger
}

func NewReviewHandler(r *service.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{Reviews: r, Log: log}
}

type approvalReq struct {
	Approved *bool `json:"approved"`
}

func (h *ReviewHandler) Create(c echo.Context) error {
	var req service.ReviewInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	id, err := h.Reviews.Create(ctx, middleware.UserID(c), req)
	if err != nil {
		return respondErr(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// Approved is public and cacheable.
func (h *ReviewHandler) Approved(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	rs, err := h.Reviews.ListApproved(ctx)
	if err != nil {
		return respondErr(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, rs)
}

// List supports ?approved=true|false.
func (h *ReviewHandler) List(c echo.Context) error {
	var approved *bool
	if raw := c.QueryParam("approved"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return badRequest(c, "approved must be true or false")
		}
		approved = &v
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	g, err := h.Reviews.ListAll(ctx, middleware.UserID(c), approved)
	if err != nil {
		return respondErr(c, h.Log, err)
	}
	return guardedList(c, g)
}

func (h *ReviewHandler) SetApproval(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid review id")
	}
	var req approvalReq
	if err := c.Bind(&req); err != nil || req.Approved == nil {
		return badRequest(c, "approved is required")
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	if err := h.Reviews.SetApproval(ctx, middleware.UserID(c), model.ReviewID(id), *req.Approved); err != nil {
		return respondErr(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *ReviewHandler) Eligible(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	g, err := h.Reviews.EligibleBookings(ctx, middleware.UserID(c))
	if err != nil {
		return respondErr(c, h.Log, err)
	}
	return guardedList(c, g)
}
