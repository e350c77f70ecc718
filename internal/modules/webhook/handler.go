package webhook

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
	g := rg.Group("/webhooks", authMW, adminMW)
	g.GET("", h.list)
	g.POST("", h.create)
	g.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	hooks, err := h.svc.List()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, hooks)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	hook, err := h.svc.Create(&dto, middleware.CurrentUsername(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, hook)
}

func (h *Handler) delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Error(c, apperr.New(apperr.KindValidation, "id must be an integer"))
		return
	}
	if err := h.svc.Delete(id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
