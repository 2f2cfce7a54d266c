package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Domain counters, registered on the default registry.
var (
	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "agenda",
		Name:      "bookings_created_total",
		Help:      "Total number of appointments booked",
	})

	BookingConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "agenda",
		Name:      "booking_conflicts_total",
		Help:      "Total number of bookings rejected because the slot was taken",
	})

	WalkinsAdmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "agenda",
		Name:      "walkins_admitted_total",
		Help:      "Total number of walk-in clients admitted to the queue",
	})

	Reschedules = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "agenda",
		Name:      "reschedules_total",
		Help:      "Total number of appointments rescheduled",
	})

	StatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agenda",
		Name:      "status_transitions_total",
		Help:      "Total number of appointment status transitions",
	}, []string{"from", "to"})

	QueueBroadcasts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "agenda",
		Name:      "queue_broadcasts_total",
		Help:      "Total number of queue events pushed to the display sink",
	})
)
