package queue

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agendahub/agenda-api/internal/broadcast"
	"github.com/agendahub/agenda-api/internal/handler"
	"github.com/agendahub/agenda-api/internal/service/queue"
)

type Handler struct {
	service *queue.Service
	hub     *broadcast.Hub
}

func NewHandler(service *queue.Service, hub *broadcast.Hub) *Handler {
	return &Handler{service: service, hub: hub}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/queue")
	{
		group.GET("/waiting", h.ListWaiting)
		group.GET("/in-service", h.ListInService)
	}
}

// RegisterDisplayRoutes exposes the public display endpoints; they are
// mounted outside the authenticated group.
func (h *Handler) RegisterDisplayRoutes(r *gin.RouterGroup) {
	group := r.Group("/display")
	{
		group.GET("/current", h.CurrentCall)
		group.GET("/events", h.StreamEvents)
	}
}

func (h *Handler) ListWaiting(c *gin.Context) {
	waiting, err := h.service.ListWaiting(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(waiting))
}

func (h *Handler) ListInService(c *gin.Context) {
	inService, err := h.service.ListInService(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(inService))
}

func (h *Handler) CurrentCall(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.hub.LastCall()))
}

// StreamEvents pushes queue events to a display client over
// server-sent events until it disconnects.
func (h *Handler) StreamEvents(c *gin.Context) {
	events, detach := h.hub.Register()
	defer detach()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(msg.Type, msg.Payload)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
