package backup

import (
	"github.com/Decaded/MSGA-server/internal/pkg/apperr"
	"github.com/Decaded/MSGA-server/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

// NewHandler accepts a nil service; the route then reports that backups are
// not configured.
func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	rg.POST("/backup", authMW, adminMW, h.run)
}

func (h *Handler) run(c *gin.Context) {
	if h.svc == nil {
		response.Error(c, apperr.New(apperr.KindValidation, "backups are not configured"))
		return
	}
	key, err := h.svc.Run(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"key": key})
}
