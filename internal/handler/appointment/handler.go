package appointment

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agendahub/agenda-api/internal/handler"
	"github.com/agendahub/agenda-api/internal/middleware"
	"github.com/agendahub/agenda-api/internal/model"
	"github.com/agendahub/agenda-api/internal/service/booking"
	"github.com/agendahub/agenda-api/internal/service/lifecycle"
	"github.com/agendahub/agenda-api/internal/service/reschedule"
	apperrors "github.com/agendahub/agenda-api/pkg/errors"
)

const dateLayout = "2006-01-02"

type Handler struct {
	bookingSvc    *booking.Service
	lifecycleSvc  *lifecycle.Service
	rescheduleSvc *reschedule.Service
}

func NewHandler(bookingSvc *booking.Service, lifecycleSvc *lifecycle.Service, rescheduleSvc *reschedule.Service) *Handler {
	return &Handler{
		bookingSvc:    bookingSvc,
		lifecycleSvc:  lifecycleSvc,
		rescheduleSvc: rescheduleSvc,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PUT("/:id", h.UpdateAppointment)
		appointments.DELETE("/:id", h.PurgeAppointment)
		appointments.POST("/:id/cancel", h.CancelAppointment)
		appointments.POST("/:id/assign", h.AssignStaff)
		appointments.POST("/:id/reschedule", h.Reschedule)
		appointments.POST("/:id/confirm", h.Confirm)
		appointments.POST("/:id/start", h.StartService)
		appointments.POST("/:id/finish", h.FinishService)
		appointments.POST("/:id/no-show", h.MarkNoShow)
		appointments.PUT("/:id/status", h.ChangeStatus)
	}
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid date format, expected YYYY-MM-DD"))
		return
	}

	clientID := req.ClientID
	if actor, ok := middleware.ActorFrom(c); ok && actor.Role == model.RoleClient {
		clientID = actor.ID
	}

	apt, err := h.bookingSvc.Create(c.Request.Context(), booking.CreateParams{
		ClientID:  clientID,
		ServiceID: req.ServiceID,
		StaffID:   req.StaffID,
		Date:      date,
		SlotTime:  req.SlotTime,
		Notes:     req.Notes,
	})
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(apt))
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	apt, err := h.bookingSvc.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(apt))
}

func (h *Handler) ListAppointments(c *gin.Context) {
	filters := &model.AppointmentFilters{}

	if v := c.Query("staff_id"); v != "" {
		staffID, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid staff ID"))
			return
		}
		filters.StaffID = &staffID
	}
	if v := c.Query("client_id"); v != "" {
		clientID, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid client ID"))
			return
		}
		filters.ClientID = &clientID
	}
	if v := c.Query("status"); v != "" {
		status := model.Status(v)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid status"))
			return
		}
		filters.Status = &status
	}
	if v := c.Query("date_from"); v != "" {
		from, err := time.Parse(dateLayout, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid date_from"))
			return
		}
		filters.DateFrom = &from
	}
	if v := c.Query("date_to"); v != "" {
		to, err := time.Parse(dateLayout, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid date_to"))
			return
		}
		filters.DateTo = &to
	}

	appointments, err := h.bookingSvc.List(c.Request.Context(), filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	apt, err := h.bookingSvc.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	if req.Notes != nil {
		apt.Notes = *req.Notes
	}
	if req.StaffID != nil {
		apt.StaffID = req.StaffID
	}

	if err := h.bookingSvc.Update(c.Request.Context(), apt); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(apt))
}

// CancelAppointment goes through the lifecycle service rather than the
// booking engine so the queue display is told the waiting list shrank.
func (h *Handler) CancelAppointment(c *gin.Context) {
	h.transition(c, func(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
		return h.lifecycleSvc.ChangeStatus(ctx, id, model.StatusCancelado)
	})
}

func (h *Handler) PurgeAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	if err := h.bookingSvc.Purge(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) AssignStaff(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	var req struct {
		StaffID uuid.UUID `json:"staff_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	apt, err := h.bookingSvc.AssignStaff(c.Request.Context(), id, req.StaffID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(apt))
}

func (h *Handler) Reschedule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	var req model.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid date format, expected YYYY-MM-DD"))
		return
	}

	actor, ok := middleware.ActorFrom(c)
	if !ok {
		handler.RespondError(c, apperrors.Validation("missing caller identity"))
		return
	}

	apt, err := h.rescheduleSvc.Reschedule(c.Request.Context(), reschedule.Params{
		OriginalID:  id,
		RequesterID: actor.ID,
		NewStaffID:  req.StaffID,
		NewDate:     date,
		NewSlotTime: req.SlotTime,
		Notes:       req.Notes,
	})
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(apt))
}

func (h *Handler) Confirm(c *gin.Context) {
	h.transition(c, h.lifecycleSvc.Confirm)
}

func (h *Handler) StartService(c *gin.Context) {
	h.transition(c, h.lifecycleSvc.Start)
}

func (h *Handler) FinishService(c *gin.Context) {
	h.transition(c, h.lifecycleSvc.Finish)
}

func (h *Handler) MarkNoShow(c *gin.Context) {
	h.transition(c, h.lifecycleSvc.MarkNoShow)
}

func (h *Handler) ChangeStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	var req struct {
		Status model.Status `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	apt, err := h.lifecycleSvc.ChangeStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(apt))
}

func (h *Handler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*model.Appointment, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	apt, err := fn(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(apt))
}
