package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pureiot/support-service/internal/domain"
	"github.com/pureiot/support-service/internal/events"
	"github.com/pureiot/support-service/internal/repository"
	apperrors "github.com/pureiot/support-service/pkg/util/errorutil"
)

const ticketNumberPrefix = "PIOT-"

// TicketNotifier tells support staff about a newly created ticket.
type TicketNotifier interface {
	NotifyTicketCreated(ctx context.Context, notice TicketCreatedNotice) error
}

// TicketService coordinates ticket workflows.
type TicketService struct {
	store      repository.Store
	notifier   TicketNotifier
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	Store      repository.Store
	Notifier   TicketNotifier
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Clock      func() time.Time
}

// TicketInput describes the ticket half of a submission.
type TicketInput struct {
	Subject           string
	Description       string
	Priority          domain.TicketPriority
	ContactPreference domain.ContactPreference
	ScheduledTime     *time.Time
}

// RequesterInput describes the person submitting a ticket.
type RequesterInput struct {
	FirstName   string
	Surname     string
	Email       string
	Phone       string
	CompanyName string
	AnyDeskID   string
}

// CreateTicketResult is returned once the ticket row exists.
type CreateTicketResult struct {
	TicketID       string
	TicketNumber   string
	EmailDelivered bool
}

// UpdateFormData carries the display values of the status update form.
type UpdateFormData struct {
	Ticket      domain.Ticket
	UserName    string
	CompanyName string
}

// UpdateInput is a staff status update.
type UpdateInput struct {
	Status         string
	TechnicianName string
	Note           string
}

// UpdateResult reports the stored ticket, the history entries written and the
// note, if one was added.
type UpdateResult struct {
	Ticket  domain.Ticket
	Changes []domain.TicketHistory
	Comment *domain.TicketComment
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &TicketService{
		store:      deps.Store,
		notifier:   deps.Notifier,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        clock,
	}
}

// CreateTicket stores a new unassigned ticket and notifies support. A failed
// notification leaves the ticket in place and is reported through
// EmailDelivered.
func (s *TicketService) CreateTicket(ctx context.Context, input *TicketInput, requester *RequesterInput, baseURL string) (*CreateTicketResult, error) {
	if input == nil || requester == nil {
		return nil, apperrors.NewValidationError("Missing ticket or user data", nil)
	}

	ticket := &domain.Ticket{
		TicketNumber:      GenerateTicketNumber(s.now()),
		Subject:           input.Subject,
		Description:       input.Description,
		Priority:          input.Priority,
		Status:            domain.TicketStatusUnassigned,
		ContactPreference: input.ContactPreference,
		ScheduledTime:     input.ScheduledTime,
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}
	if ticket.ContactPreference == "" {
		ticket.ContactPreference = domain.ContactASAP
	}

	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		if requester.CompanyName != "" {
			company, err := repos.Companies.GetByName(ctx, requester.CompanyName)
			switch {
			case err == nil:
				ticket.CompanyID = &company.ID
			case !errors.Is(err, repository.ErrNotFound):
				return err
			}
		}
		if requester.Email != "" {
			profile, err := repos.Profiles.GetByEmail(ctx, requester.Email)
			switch {
			case err == nil:
				ticket.UserID = &profile.ID
			case !errors.Is(err, repository.ErrNotFound):
				return err
			}
		}
		return repos.Tickets.Create(ctx, ticket)
	})
	if err != nil {
		s.logger.Error("create ticket", zap.String("ticket_number", ticket.TicketNumber), zap.Error(err))
		return nil, apperrors.NewStorageError("Failed to create ticket", err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    strings.TrimSpace(requester.FirstName + " " + requester.Surname),
		Payload: events.TicketCreatedPayload{
			TicketNumber: ticket.TicketNumber,
			Priority:     ticket.Priority,
			CompanyID:    ticket.CompanyID,
			UserID:       ticket.UserID,
		},
	})

	result := &CreateTicketResult{TicketID: ticket.ID, TicketNumber: ticket.TicketNumber, EmailDelivered: true}
	if s.notifier != nil {
		notice := TicketCreatedNotice{
			Ticket:    *ticket,
			Requester: *requester,
			UpdateURL: UpdateURL(baseURL, ticket.ID),
		}
		if err := s.notifier.NotifyTicketCreated(ctx, notice); err != nil {
			s.logger.Warn("ticket stored but notification failed",
				zap.String("ticket_id", ticket.ID),
				zap.String("ticket_number", ticket.TicketNumber),
				zap.Error(err))
			result.EmailDelivered = false
		}
	}
	return result, nil
}

// GetUpdateForm loads a ticket with its owner and company for the update form.
func (s *TicketService) GetUpdateForm(ctx context.Context, ticketID string) (*UpdateFormData, error) {
	detail, err := s.store.Repos().Tickets.GetDetail(ctx, ticketID)
	if err != nil {
		return nil, s.lookupError(ticketID, err)
	}
	companyName := deref(detail.CompanyName)
	if companyName == "" {
		companyName = "Unknown"
	}
	return &UpdateFormData{
		Ticket:      detail.Ticket,
		UserName:    strings.TrimSpace(deref(detail.UserFirstName) + " " + deref(detail.UserSurname)),
		CompanyName: companyName,
	}, nil
}

// ApplyUpdate changes status and technician and appends the staff note. The
// ticket update and the note insert commit together or not at all.
func (s *TicketService) ApplyUpdate(ctx context.Context, ticketID string, input UpdateInput) (*UpdateResult, error) {
	var (
		result    UpdateResult
		oldStatus domain.TicketStatus
		oldTech   string
	)
	technician := strings.TrimSpace(input.TechnicianName)
	note := strings.TrimSpace(input.Note)

	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		ticket, err := repos.Tickets.GetByID(ctx, ticketID)
		if err != nil {
			return err
		}
		oldStatus, oldTech = ticket.Status, ticket.Technician()

		if input.Status != "" {
			status := domain.TicketStatus(input.Status)
			if !status.Valid() {
				return apperrors.NewValidationError("invalid status", map[string]any{"status": input.Status})
			}
			ticket.Status = status
		}
		if technician != "" {
			ticket.TechnicianName = &technician
		}
		ticket.UpdatedAt = s.now()
		if err := repos.Tickets.Update(ctx, ticket); err != nil {
			return err
		}
		result.Ticket = *ticket

		author := technician
		if author == "" {
			author = domain.DefaultCommentAuthor
		}
		changes := []domain.TicketHistory{}
		if ticket.Status != oldStatus {
			changes = append(changes, domain.TicketHistory{
				ChangeType: domain.ChangeTypeStatus,
				OldValue:   string(oldStatus),
				NewValue:   string(ticket.Status),
			})
		}
		if ticket.Technician() != oldTech {
			changes = append(changes, domain.TicketHistory{
				ChangeType: domain.ChangeTypeTechnician,
				OldValue:   oldTech,
				NewValue:   ticket.Technician(),
			})
		}
		for i := range changes {
			changes[i].TicketID = ticket.ID
			changes[i].ChangedBy = author
			if err := repos.History.Create(ctx, &changes[i]); err != nil {
				return err
			}
		}
		result.Changes = changes

		if note == "" {
			return nil
		}
		comment := &domain.TicketComment{
			TicketID:   ticket.ID,
			AuthorName: author,
			Text:       note,
			IsFromUser: false,
		}
		if err := repos.Comments.Create(ctx, comment); err != nil {
			return err
		}
		result.Comment = comment
		return nil
	})
	if err != nil {
		return nil, s.lookupError(ticketID, err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: ticketID,
		Actor:    technician,
		Payload: events.TicketUpdatedPayload{
			OldStatus:     oldStatus,
			NewStatus:     result.Ticket.Status,
			OldTechnician: oldTech,
			NewTechnician: result.Ticket.Technician(),
		},
	})
	if result.Comment != nil {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketCommentAdded,
			TicketID: ticketID,
			Actor:    result.Comment.AuthorName,
			Payload: events.TicketCommentAddedPayload{
				CommentID:   result.Comment.ID,
				AuthorName:  result.Comment.AuthorName,
				TextPreview: stringPreview(result.Comment.Text, 120),
			},
		})
	}
	return &result, nil
}

// ListUserTickets returns a user's tickets, newest first.
func (s *TicketService) ListUserTickets(ctx context.Context, userID string) ([]domain.Ticket, error) {
	tickets, err := s.store.Repos().Tickets.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("list user tickets", zap.String("user_id", userID), zap.Error(err))
		return nil, apperrors.NewStorageError("Failed to load tickets", err)
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return tickets, nil
}

// GetTicket fetches one ticket by id.
func (s *TicketService) GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.store.Repos().Tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, s.lookupError(ticketID, err)
	}
	return ticket, nil
}

// ListComments returns a ticket's comments, oldest first.
func (s *TicketService) ListComments(ctx context.Context, ticketID string) ([]domain.TicketComment, error) {
	comments, err := s.store.Repos().Comments.ListByTicket(ctx, ticketID)
	if err != nil {
		s.logger.Error("list comments", zap.String("ticket_id", ticketID), zap.Error(err))
		return nil, apperrors.NewStorageError("Failed to load comments", err)
	}
	if comments == nil {
		comments = []domain.TicketComment{}
	}
	return comments, nil
}

// ListHistory returns a ticket's status and technician changes, oldest first.
func (s *TicketService) ListHistory(ctx context.Context, ticketID string) ([]domain.TicketHistory, error) {
	history, err := s.store.Repos().History.ListByTicket(ctx, ticketID)
	if err != nil {
		s.logger.Error("list ticket history", zap.String("ticket_id", ticketID), zap.Error(err))
		return nil, apperrors.NewStorageError("Failed to load ticket history", err)
	}
	if history == nil {
		history = []domain.TicketHistory{}
	}
	return history, nil
}

// GenerateTicketNumber derives the human ticket number from a creation time.
func GenerateTicketNumber(t time.Time) string {
	return ticketNumberPrefix + strings.ToUpper(strconv.FormatInt(t.UnixMilli(), 36))
}

// UpdateURL is the staff deep link to a ticket's update form.
func UpdateURL(baseURL, ticketID string) string {
	return strings.TrimRight(baseURL, "/") + "/update/" + ticketID
}

func (s *TicketService) lookupError(ticketID string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("Ticket", map[string]any{"ticket_id": ticketID})
	}
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	s.logger.Error("ticket storage failure", zap.String("ticket_id", ticketID), zap.Error(err))
	return apperrors.NewStorageError("Failed to process ticket", err)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
