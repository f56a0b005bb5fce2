package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pureiot/support-service/internal/domain"
	"github.com/pureiot/support-service/internal/mail"
	"github.com/pureiot/support-service/internal/observability"
	"github.com/pureiot/support-service/internal/render"
	apperrors "github.com/pureiot/support-service/pkg/util/errorutil"
)

const (
	contactASAPDisplay    = "ASAP - Available now"
	scheduledTimeLayout   = "02 Jan 2006, 15:04"
	deliveryKindNewTicket = "new_ticket"
)

// TicketCreatedNotice is everything the support email needs.
type TicketCreatedNotice struct {
	Ticket    domain.Ticket
	Requester RequesterInput
	UpdateURL string
}

// NotificationConfig names the sender and recipient of support emails.
type NotificationConfig struct {
	From         string
	SupportEmail string
	Location     *time.Location
}

// NotificationService composes support emails and hands them to a mail sender.
type NotificationService struct {
	sender   mail.Sender
	renderer *render.Renderer
	metrics  *observability.Metrics
	logger   *zap.Logger
	cfg      NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(sender mail.Sender, renderer *render.Renderer, metrics *observability.Metrics, logger *zap.Logger, cfg NotificationConfig) *NotificationService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &NotificationService{
		sender:   sender,
		renderer: renderer,
		metrics:  metrics,
		logger:   logger,
		cfg:      cfg,
	}
}

// NotifyTicketCreated sends one email to the support address. The submitter
// becomes the Reply-To when an email was given.
func (n *NotificationService) NotifyTicketCreated(ctx context.Context, notice TicketCreatedNotice) error {
	t := notice.Ticket
	r := notice.Requester

	body, err := n.renderer.TicketEmail(render.TicketEmailView{
		TicketNumber:   t.TicketNumber,
		Priority:       t.Priority,
		ContactDisplay: n.contactDisplay(t),
		UpdateURL:      notice.UpdateURL,
		Subject:        t.Subject,
		Description:    t.Description,
		FirstName:      r.FirstName,
		Surname:        r.Surname,
		CompanyName:    r.CompanyName,
		Phone:          r.Phone,
		Email:          r.Email,
		AnyDeskID:      r.AnyDeskID,
	})
	if err != nil {
		n.metrics.RecordDelivery(deliveryKindNewTicket, "failed")
		return apperrors.NewDeliveryError(err)
	}

	msg := mail.Message{
		From:    n.cfg.From,
		To:      n.cfg.SupportEmail,
		Subject: TicketEmailSubject(t.TicketNumber, r),
		HTML:    body,
		ReplyTo: r.Email,
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		n.metrics.RecordDelivery(deliveryKindNewTicket, "failed")
		return apperrors.NewDeliveryError(err)
	}

	n.metrics.RecordDelivery(deliveryKindNewTicket, "sent")
	n.logger.Debug("support notification sent",
		zap.String("ticket_id", t.ID),
		zap.String("to", msg.To))
	return nil
}

// TicketEmailSubject formats "[PIOT-X] Company - First Last - Support Request".
func TicketEmailSubject(ticketNumber string, r RequesterInput) string {
	return fmt.Sprintf("[%s] %s - %s %s - Support Request", ticketNumber, r.CompanyName, r.FirstName, r.Surname)
}

func (n *NotificationService) contactDisplay(t domain.Ticket) string {
	if t.ContactPreference == domain.ContactScheduled && t.ScheduledTime != nil {
		return "Scheduled: " + strings.TrimSpace(t.ScheduledTime.In(n.cfg.Location).Format(scheduledTimeLayout))
	}
	return contactASAPDisplay
}
