package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/divyansh01440/nirvana-agency/internal/middleware"
	"github.com/divyansh01440/nirvana-agency/internal/model"
	"github.com/divyansh01440/nirvana-agency/internal/service"
)

// AdminHandler manages users and roles.
type AdminHandler struct {
	Directory *service.DirectoryService
	Log       *zap.Logger
}

func NewAdminHandler(d *service.DirectoryService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{Directory: d, Log: log}
}

type roleReq struct {
	Role string `json:"role"`
}

func (h *AdminHandler) Users(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	g, err := h.Directory.ListUsers(ctx, middleware.UserID(c))
	if err != nil {
		return respondErr(c, h.Log, err)
	}
	return guardedList(c, g)
}

func (h *AdminHandler) SetRole(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid user id")
	}
	var req roleReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	if err := h.Directory.SetRole(ctx, middleware.UserID(c), model.UserID(id), req.Role); err != nil {
		return respondErr(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid user id")
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	if err := h.Directory.DeleteUser(ctx, middleware.UserID(c), model.UserID(id)); err != nil {
		return respondErr(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
