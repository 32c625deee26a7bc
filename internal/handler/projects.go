package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/divyansh01440/nirvana-agency/internal/middleware"
	"github.com/divyansh01440/nirvana-agency/internal/model"
	"github.com/divyansh01440/nirvana-agency/internal/service"
)

// ProjectHandler serves the portfolio.
type ProjectHandler struct {
	Projects *service.ProjectService
	Log      *zap.Logger
}

func NewProjectHandler(p *service.ProjectService, log *zap.Logger) *ProjectHandler {
	return &ProjectHandler{Projects: p, Log: log}
}

func (h *ProjectHandler) List(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	ps, err := h.Projects.List(ctx)
	if err != nil {
		return respondErr(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, ps)
}

func (h *ProjectHandler) Create(c echo.Context) error {
	var req service.ProjectInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	id, err := h.Projects.Create(ctx, middleware.UserID(c), req)
	if err != nil {
		return respondErr(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

func (h *ProjectHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid project id")
	}
	var req model.ProjectPatch
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	p, err := h.Projects.Update(ctx, middleware.UserID(c), model.ProjectID(id), req)
	if err != nil {
		return respondErr(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProjectHandler) Remove(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid project id")
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	if err := h.Projects.Remove(ctx, middleware.UserID(c), model.ProjectID(id)); err != nil {
		return respondErr(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
