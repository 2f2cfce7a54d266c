package availability

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agendahub/agenda-api/internal/handler"
	"github.com/agendahub/agenda-api/internal/service/availability"
)

const dateLayout = "2006-01-02"

type Handler struct {
	service *availability.Service
}

func NewHandler(service *availability.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/availability")
	{
		group.GET("/slots", h.ListTimeSlots)
		group.GET("/staff", h.ListEligibleStaff)
		group.GET("/staff/:id/free", h.ListFreeSlots)
	}
}

func (h *Handler) ListTimeSlots(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.service.ListTimeSlots()))
}

func (h *Handler) ListEligibleStaff(c *gin.Context) {
	serviceID, err := uuid.Parse(c.Query("service_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid service ID"))
		return
	}

	staff, err := h.service.ListEligibleStaff(c.Request.Context(), serviceID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(staff))
}

func (h *Handler) ListFreeSlots(c *gin.Context) {
	staffID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid staff ID"))
		return
	}

	date, err := time.Parse(dateLayout, c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid date format, expected YYYY-MM-DD"))
		return
	}

	slots, err := h.service.ListFreeSlots(c.Request.Context(), staffID, date)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(slots))
}
