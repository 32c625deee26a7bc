package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/divyansh01440/nirvana-agency/internal/service"
)

// RecoveryHandler serves the hint-based password reset flow.  All routes
// are anonymous and sit behind the recovery rate limiter.
type RecoveryHandler struct {
	Recovery *service.RecoveryService
	Log      *zap.Logger
}

func NewRecoveryHandler(r *service.RecoveryService, log *zap.Logger) *RecoveryHandler {
	return &RecoveryHandler{Recovery: r, Log: log}
}

type emailReq struct {
	Email string `json:"email"`
}
type verifyReq struct {
	Token string `json:"token"`
	Hint  string `json:"hint"`
}

func (h *RecoveryHandler) Request(c echo.Context) error {
	var req emailReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	res, err := h.Recovery.RequestPasswordReset(ctx, req.Email)
	if err != nil {
		return respondErr(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *RecoveryHandler) Token(c echo.Context) error {
	var req emailReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	res, err := h.Recovery.GeneratePasswordResetToken(ctx, req.Email)
	if err != nil {
		return respondErr(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *RecoveryHandler) Verify(c echo.Context) error {
	var req verifyReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	res, err := h.Recovery.VerifyResetToken(ctx, req.Token, req.Hint)
	if err != nil {
		return respondErr(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *RecoveryHandler) Complete(c echo.Context) error {
	var req service.ResetInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	if err := h.Recovery.ResetPassword(ctx, req); err != nil {
		return respondErr(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
