package dto

import (
	"time"

	"github.com/pureiot/support-service/internal/domain"
)

// SubmitTicketRequest is the body of POST /api/submit-ticket.
type SubmitTicketRequest struct {
	Ticket *TicketPayload `json:"ticket"`
	User   *UserPayload   `json:"user"`
}

// TicketPayload describes the issue being reported.
type TicketPayload struct {
	Subject           string  `json:"subject" validate:"required"`
	Description       string  `json:"description" validate:"required"`
	Priority          string  `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	ContactPreference string  `json:"contactPreference" validate:"omitempty,oneof=asap scheduled"`
	ScheduledTime     *string `json:"scheduledTime"`
}

// UserPayload describes the requester.
type UserPayload struct {
	FirstName   string `json:"firstName" validate:"required"`
	Surname     string `json:"surname" validate:"required"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone"`
	CompanyName string `json:"companyName"`
	AnyDeskID   string `json:"anyDeskId"`
}

// UpdateTicketRequest is the staff form post, form-encoded or JSON.
type UpdateTicketRequest struct {
	Status         string `json:"status" form:"status"`
	TechnicianName string `json:"technicianName" form:"technicianName"`
	Note           string `json:"note" form:"note"`
}

// TicketResponse mirrors the tickets table.
type TicketResponse struct {
	ID                string                   `json:"id"`
	TicketNumber      string                   `json:"ticket_number"`
	Subject           string                   `json:"subject"`
	Description       string                   `json:"description"`
	Priority          domain.TicketPriority    `json:"priority"`
	Status            domain.TicketStatus      `json:"status"`
	TechnicianName    *string                  `json:"technician_name"`
	ContactPreference domain.ContactPreference `json:"contact_preference"`
	ScheduledTime     *time.Time               `json:"scheduled_time"`
	UserID            *string                  `json:"user_id"`
	CompanyID         *string                  `json:"company_id"`
	CreatedAt         time.Time                `json:"created_at"`
	UpdatedAt         time.Time                `json:"updated_at"`
}

// CommentResponse mirrors the ticket_comments table.
type CommentResponse struct {
	ID         string    `json:"id"`
	TicketID   string    `json:"ticket_id"`
	AuthorName string    `json:"author_name"`
	Text       string    `json:"text"`
	IsFromUser bool      `json:"is_from_user"`
	CreatedAt  time.Time `json:"created_at"`
}

// HistoryResponse mirrors the ticket_history table.
type HistoryResponse struct {
	ID         string                  `json:"id"`
	TicketID   string                  `json:"ticket_id"`
	ChangedBy  string                  `json:"changed_by"`
	ChangeType domain.TicketChangeType `json:"change_type"`
	OldValue   string                  `json:"old_value"`
	NewValue   string                  `json:"new_value"`
	CreatedAt  time.Time               `json:"created_at"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:                t.ID,
		TicketNumber:      t.TicketNumber,
		Subject:           t.Subject,
		Description:       t.Description,
		Priority:          t.Priority,
		Status:            t.Status,
		TechnicianName:    t.TechnicianName,
		ContactPreference: t.ContactPreference,
		ScheduledTime:     t.ScheduledTime,
		UserID:            t.UserID,
		CompanyID:         t.CompanyID,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

// NewCommentResponses maps domain comments.
func NewCommentResponses(comments []domain.TicketComment) []CommentResponse {
	resp := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		resp = append(resp, CommentResponse{
			ID:         c.ID,
			TicketID:   c.TicketID,
			AuthorName: c.AuthorName,
			Text:       c.Text,
			IsFromUser: c.IsFromUser,
			CreatedAt:  c.CreatedAt,
		})
	}
	return resp
}

// NewHistoryResponses maps domain history entries.
func NewHistoryResponses(history []domain.TicketHistory) []HistoryResponse {
	resp := make([]HistoryResponse, 0, len(history))
	for _, h := range history {
		resp = append(resp, HistoryResponse{
			ID:         h.ID,
			TicketID:   h.TicketID,
			ChangedBy:  h.ChangedBy,
			ChangeType: h.ChangeType,
			OldValue:   h.OldValue,
			NewValue:   h.NewValue,
			CreatedAt:  h.CreatedAt,
		})
	}
	return resp
}
