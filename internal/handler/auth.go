package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/divyansh01440/nirvana-agency/internal/middleware"
	"github.com/divyansh01440/nirvana-agency/internal/model"
	"github.com/divyansh01440/nirvana-agency/internal/service"
)

// AuthHandler serves sign-up, sign-in, sessions and the caller's profile.
type AuthHandler struct {
	Auth *service.AuthService
	Log  *zap.Logger
}

func NewAuthHandler(a *service.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{Auth: a, Log: log}
}

// ----- DTOs -----

type loginReq struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type authResp struct {
	User    *model.User `json:"user"`
	Access  tokenPart   `json:"access"`
	Refresh tokenPart   `json:"refresh"`
}

func sessionResp(s *service.Session) authResp {
	return authResp{
		User:    s.User,
		Access:  tokenPart{Token: s.Access.Token, Expires: s.Access.Exp},
		Refresh: tokenPart{Token: s.Refresh.Raw, Expires: s.Refresh.Exp}, // raw back to client
	}
}

// Register: create user and return tokens immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req service.RegisterInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	s, err := h.Auth.Register(ctx, req)
	if err != nil {
		return respondErr(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, sessionResp(s))
}

// Login: verify email or username and password, return a new pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	id := strings.TrimSpace(req.Identifier)
	if id == "" {
		id = strings.TrimSpace(req.Email)
	}
	if id == "" || req.Password == "" {
		return badRequest(c, "identifier/password required")
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	s, err := h.Auth.Login(ctx, id, req.Password)
	if err != nil {
		return respondErr(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, sessionResp(s))
}

// Refresh: validate by hash, revoke old, issue new.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	s, err := h.Auth.Refresh(ctx, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		return respondErr(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, sessionResp(s))
}

// RefreshAccess returns a new access token without rotating the refresh
// token.
func (h *AuthHandler) RefreshAccess(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	access, err := h.Auth.RefreshAccess(ctx, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		return respondErr(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"access": tokenPart{Token: access.Token, Expires: access.Exp}})
}

// Logout revokes the refresh token in the body.  With a bearer token and
// no body token it revokes every session of the caller.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	_ = c.Bind(&req)
	raw := strings.TrimSpace(req.RefreshToken)
	caller := middleware.UserID(c)

	ctx, cancel := withTimeout(c)
	defer cancel()
	if err := h.Auth.Logout(ctx, caller, raw, raw == "" && caller != 0); err != nil {
		return respondErr(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the caller's user record, or null when anonymous.
func (h *AuthHandler) Me(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	u, err := h.Auth.CurrentUser(ctx, middleware.UserID(c))
	if err != nil {
		return respondErr(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, u)
}

// UpdateProfile edits name, username, phone and password hint.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	var req service.ProfileInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	u, err := h.Auth.UpdateProfile(ctx, middleware.UserID(c), req)
	if err != nil {
		return respondErr(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": u})
}
