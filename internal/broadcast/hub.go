package broadcast

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agendahub/agenda-api/pkg/messaging"
	"github.com/agendahub/agenda-api/pkg/metrics"
)

const (
	channelCalls = "queue:calls"

	eventCall        = "call"
	eventQueueLength = "queue_length"
)

// Call is the "now serving" payload pushed to display clients.
type Call struct {
	DisplayName  string    `json:"display_name"`
	LocationName string    `json:"location_name"`
	QueueLength  int       `json:"queue_length"`
	CalledAt     time.Time `json:"called_at"`
}

// Sink receives queue-state notifications. All publishes are
// best-effort: failures are logged and dropped, never returned.
type Sink interface {
	PublishCall(ctx context.Context, displayName, locationName string, queueLength int)
	PublishQueueLength(ctx context.Context, queueLength int)
	Start() error
	Stop() error
}

// Hub fans queue events out to locally connected display sessions and
// mirrors them onto the message broker for display processes running
// elsewhere. It is injected wherever a Sink is needed; there is no
// package-level instance.
type Hub struct {
	broker messaging.Broker
	logger *zerolog.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]chan messaging.Message
	lastCall *Call
	started  bool
}

func NewHub(broker messaging.Broker, logger *zerolog.Logger) *Hub {
	return &Hub{
		broker:   broker,
		logger:   logger,
		sessions: make(map[uuid.UUID]chan messaging.Message),
	}
}

func (h *Hub) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started = true
	return nil
}

// Stop closes every connected session. Publishes after Stop are
// silently dropped.
func (h *Hub) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.sessions {
		close(ch)
		delete(h.sessions, id)
	}
	h.started = false
	return nil
}

// Register attaches a display session and returns its event channel
// together with a detach function.
func (h *Hub) Register() (<-chan messaging.Message, func()) {
	id := uuid.New()
	ch := make(chan messaging.Message, 16)

	h.mu.Lock()
	h.sessions[id] = ch
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if c, ok := h.sessions[id]; ok {
			close(c)
			delete(h.sessions, id)
		}
	}
}

// LastCall returns the most recent call, for sessions connecting after
// the fact.
func (h *Hub) LastCall() *Call {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.lastCall == nil {
		return nil
	}
	call := *h.lastCall
	return &call
}

func (h *Hub) PublishCall(ctx context.Context, displayName, locationName string, queueLength int) {
	call := Call{
		DisplayName:  displayName,
		LocationName: locationName,
		QueueLength:  queueLength,
		CalledAt:     time.Now(),
	}

	h.mu.Lock()
	h.lastCall = &call
	h.mu.Unlock()

	h.publish(ctx, messaging.Message{Type: eventCall, Payload: call})
}

func (h *Hub) PublishQueueLength(ctx context.Context, queueLength int) {
	h.publish(ctx, messaging.Message{Type: eventQueueLength, Payload: queueLength})
}

func (h *Hub) publish(ctx context.Context, msg messaging.Message) {
	h.mu.RLock()
	started := h.started
	for _, ch := range h.sessions {
		select {
		case ch <- msg:
		default:
			// Slow consumer, drop rather than block the caller.
		}
	}
	h.mu.RUnlock()

	metrics.QueueBroadcasts.Inc()

	if !started || h.broker == nil {
		return
	}
	if err := h.broker.Publish(ctx, channelCalls, msg); err != nil {
		h.logger.Warn().Err(err).Str("event", msg.Type).Msg("queue broadcast dropped")
	}
}
