package notification

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/agendahub/agenda-api/internal/email"
	"github.com/agendahub/agenda-api/internal/model"
	"github.com/agendahub/agenda-api/internal/repository"
)

// Notifier sends booking confirmations. Calls are fire-and-forget:
// failures are logged, never returned to the booking flow.
type Notifier interface {
	NotifyConfirmation(ctx context.Context, apt *model.Appointment)
}

type notifier struct {
	emailSvc   email.Service
	clientRepo repository.ClientRepository
	logger     *zerolog.Logger
}

func NewNotifier(emailSvc email.Service, clientRepo repository.ClientRepository, logger *zerolog.Logger) Notifier {
	return &notifier{
		emailSvc:   emailSvc,
		clientRepo: clientRepo,
		logger:     logger,
	}
}

func (n *notifier) NotifyConfirmation(ctx context.Context, apt *model.Appointment) {
	// Walk-ins are physically present, nothing to confirm by email.
	if apt.ClientID == nil {
		return
	}

	client, err := n.clientRepo.Get(ctx, *apt.ClientID)
	if err != nil {
		n.logger.Warn().Err(err).
			Stringer("appointment_id", apt.ID).
			Msg("confirmation email skipped: client lookup failed")
		return
	}
	if client.Email == "" {
		return
	}

	subject := "Agendamento confirmado"
	body := fmt.Sprintf(
		"<p>Olá %s,</p><p>Seu agendamento foi registrado para %s às %s.</p>",
		client.Name, apt.Date.Format("02/01/2006"), apt.SlotTime,
	)

	if err := n.emailSvc.Send(ctx, client.Email, subject, body); err != nil {
		n.logger.Warn().Err(err).
			Stringer("appointment_id", apt.ID).
			Msg("confirmation email failed")
	}
}
