package auth

import (
	"time"

	"github.com/Decaded/MSGA-server/internal/middleware"
	"github.com/Decaded/MSGA-server/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, limiter gin.HandlerFunc) {
	rg.POST("/register", limiter, h.register)
	rg.POST("/login", limiter, h.login)
	rg.POST("/logout", authMW, h.logout)
}

func (h *Handler) register(c *gin.Context) {
	var dto RegisterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.Register(&dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, u.Public())
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	token, err := h.svc.Login(dto.Username, dto.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, loginResponse{Token: token})
}

func (h *Handler) logout(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	expiresAt := time.Now()
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := h.svc.Revoke(claims.JTI(), expiresAt); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"success": true})
}
