package handler

import (
	"net/http"

	"cardapio/internal/model"
	"cardapio/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	service service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

func (h *AuthHandler) userResponse(c *gin.Context, okStatus int, res service.UserResult) {
	respond(c, okStatus, res.Result, service.UserResult{Result: res.Result, User: publicUser(res.User)})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.userResponse(c, http.StatusCreated, h.service.Register(c.Request.Context(), req))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.userResponse(c, http.StatusOK, h.service.Login(c.Request.Context(), req.Email, req.Password))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	res := h.service.Logout(c.Request.Context())
	respond(c, http.StatusOK, res, res)
}

func (h *AuthHandler) Session(c *gin.Context) {
	status := h.service.CheckSession(c.Request.Context())
	status.User = publicUser(status.User)
	respond(c, http.StatusOK, status.Result, status)
}

func (h *AuthHandler) Me(c *gin.Context) {
	h.userResponse(c, http.StatusOK, h.service.CurrentUser(c.Request.Context()))
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var patch model.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	h.userResponse(c, http.StatusOK, h.service.UpdateProfile(c.Request.Context(), patch))
}

func (h *AuthHandler) RenewSession(c *gin.Context) {
	res := h.service.RenewSession(c.Request.Context())
	respond(c, http.StatusOK, res, res)
}

func (h *AuthHandler) RecoverPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res := h.service.RecoverPassword(c.Request.Context(), req.Email)
	respond(c, http.StatusAccepted, res, res)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req model.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res := h.service.ResetPassword(c.Request.Context(), req)
	respond(c, http.StatusOK, res, res)
}

// RegisterAuthRoutes registers auth routes
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, clientMW gin.HandlerFunc) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/logout", h.Logout)
		authGroup.POST("/recover", h.RecoverPassword)
		authGroup.POST("/reset", h.ResetPassword)
		authGroup.GET("/session", h.Session)
	}

	sessionGroup := rg.Group("/auth")
	sessionGroup.Use(authMW, clientMW)
	{
		sessionGroup.GET("/me", h.Me)
		sessionGroup.PUT("/profile", h.UpdateProfile)
		sessionGroup.POST("/session/renew", h.RenewSession)
	}
}
