package walkin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agendahub/agenda-api/internal/handler"
	"github.com/agendahub/agenda-api/internal/model"
	"github.com/agendahub/agenda-api/internal/service/walkin"
)

type Handler struct {
	service *walkin.Service
}

func NewHandler(service *walkin.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/walkins", h.AdmitWalkin)
}

func (h *Handler) AdmitWalkin(c *gin.Context) {
	var req model.AdmitWalkinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	apt, err := h.service.Admit(c.Request.Context(), walkin.AdmitParams{
		Name:      req.Name,
		CPF:       req.CPF,
		Phone:     req.Phone,
		ServiceID: req.ServiceID,
		StaffID:   req.StaffID,
	})
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(apt))
}
