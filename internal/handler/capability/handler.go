package capability

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agendahub/agenda-api/internal/handler"
	"github.com/agendahub/agenda-api/internal/model"
	"github.com/agendahub/agenda-api/internal/repository"
	"github.com/agendahub/agenda-api/internal/service/availability"
)

// Handler manages service-capability assignments. Writes invalidate
// the availability calculator's eligible-staff cache.
type Handler struct {
	repo            repository.CapabilityRepository
	availabilitySvc *availability.Service
}

func NewHandler(repo repository.CapabilityRepository, availabilitySvc *availability.Service) *Handler {
	return &Handler{repo: repo, availabilitySvc: availabilitySvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/capabilities")
	{
		group.POST("", h.CreateCapability)
		group.DELETE("", h.DeleteCapability)
		group.GET("/staff/:id", h.ListForStaff)
	}
}

func (h *Handler) CreateCapability(c *gin.Context) {
	var req model.CreateCapabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	cap := &model.Capability{
		StaffID:    req.StaffID,
		ServiceID:  req.ServiceID,
		LocationID: req.LocationID,
	}
	if err := h.repo.Create(c.Request.Context(), cap); err != nil {
		handler.RespondError(c, err)
		return
	}
	h.availabilitySvc.InvalidateEligibleStaff(req.ServiceID)

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(cap))
}

func (h *Handler) DeleteCapability(c *gin.Context) {
	var req model.CreateCapabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.repo.Delete(c.Request.Context(), req.StaffID, req.ServiceID, req.LocationID); err != nil {
		handler.RespondError(c, err)
		return
	}
	h.availabilitySvc.InvalidateEligibleStaff(req.ServiceID)

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListForStaff(c *gin.Context) {
	staffID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid staff ID"))
		return
	}

	caps, err := h.repo.ListForStaff(c.Request.Context(), staffID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(caps))
}
