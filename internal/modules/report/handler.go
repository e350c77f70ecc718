package report

import (
	"strconv"

	"github.com/Decaded/MSGA-server/internal/middleware"
	"github.com/Decaded/MSGA-server/internal/pkg/apperr"
	"github.com/Decaded/MSGA-server/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, optionalAuthMW, adminMW gin.HandlerFunc) {
	g := rg.Group("/" + h.svc.Kind().Collection)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", optionalAuthMW, h.create)
	g.PATCH("/:id", authMW, h.update)
	g.PATCH("/:id/status", authMW, h.updateStatus)
	g.PATCH("/:id/approve", authMW, h.approve)
	g.DELETE("/:id", authMW, adminMW, h.delete)
}

func (h *Handler) list(c *gin.Context) {
	reports, err := h.svc.List()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, reports)
}

func (h *Handler) get(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	r, err := h.svc.Get(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, r)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	r, err := h.svc.Create(&dto, middleware.CurrentUsername(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, r)
}

func (h *Handler) update(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var dto UpdateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	r, err := h.svc.UpdateFields(id, &dto, middleware.IsAdmin(c), middleware.CurrentUsername(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, r)
}

func (h *Handler) updateStatus(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var dto UpdateStatusDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	r, err := h.svc.UpdateStatus(id, dto.Status, middleware.CurrentUsername(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, r)
}

func (h *Handler) approve(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	r, err := h.svc.Approve(id, middleware.CurrentUsername(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, r)
}

func (h *Handler) delete(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.svc.Delete(id, middleware.CurrentUsername(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func paramID(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, apperr.New(apperr.KindValidation, "id must be an integer")
	}
	return id, nil
}
