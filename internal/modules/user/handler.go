package user

import (
	"strconv"

	"github.com/Decaded/MSGA-server/internal/middleware"
	"github.com/Decaded/MSGA-server/internal/pkg/apperr"
	"github.com/Decaded/MSGA-server/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	admin := rg.Group("/users", authMW, adminMW)
	admin.GET("", h.list)
	admin.PATCH("/:id/approve", h.approve)
	admin.DELETE("/:id", h.delete)

	self := rg.Group("/user", authMW)
	self.GET("/profile", h.profile)
	self.POST("/deletion-request", h.requestDeletion)
	self.GET("/deletion-requests", adminMW, h.listDeletionRequests)
}

func (h *Handler) list(c *gin.Context) {
	users, err := h.svc.List()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, users)
}

func (h *Handler) approve(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	u, err := h.svc.Approve(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, u.Public())
}

func (h *Handler) delete(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.svc.Delete(id, middleware.CurrentClaims(c).UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) profile(c *gin.Context) {
	u, err := h.svc.Get(middleware.CurrentClaims(c).UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, u.Public())
}

func (h *Handler) requestDeletion(c *gin.Context) {
	var dto DeletionRequestDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	claims := middleware.CurrentClaims(c)
	r, err := h.svc.RequestDeletion(claims.UserID, claims.Username, dto.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, r)
}

func (h *Handler) listDeletionRequests(c *gin.Context) {
	requests, err := h.svc.ListDeletionRequests()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, requests)
}

func paramID(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, apperr.New(apperr.KindValidation, "id must be an integer")
	}
	return id, nil
}
