package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pureiot/support-service/internal/api/dto"
	"github.com/pureiot/support-service/internal/domain"
	"github.com/pureiot/support-service/internal/service"
	apperrors "github.com/pureiot/support-service/pkg/util/errorutil"
)

// TicketsHandler serves the JSON ticket API.
type TicketsHandler struct {
	service *service.TicketService
	baseURL string
}

// NewTicketsHandler constructs handler. An empty baseURL means links are
// built from the request's Host header.
func NewTicketsHandler(ticketService *service.TicketService, baseURL string) *TicketsHandler {
	return &TicketsHandler{service: ticketService, baseURL: baseURL}
}

// Submit POST /api/submit-ticket.
func (h *TicketsHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Ticket == nil || req.User == nil {
		return apperrors.NewValidationError("Missing ticket or user data", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	input := &service.TicketInput{
		Subject:           req.Ticket.Subject,
		Description:       req.Ticket.Description,
		Priority:          domain.TicketPriority(req.Ticket.Priority),
		ContactPreference: domain.ContactPreference(req.Ticket.ContactPreference),
	}
	if req.Ticket.ScheduledTime != nil && strings.TrimSpace(*req.Ticket.ScheduledTime) != "" {
		scheduled, err := time.Parse(time.RFC3339, strings.TrimSpace(*req.Ticket.ScheduledTime))
		if err != nil {
			return apperrors.NewValidationError("scheduledTime must be an RFC 3339 timestamp", nil)
		}
		input.ScheduledTime = &scheduled
	}
	requester := &service.RequesterInput{
		FirstName:   req.User.FirstName,
		Surname:     req.User.Surname,
		Email:       req.User.Email,
		Phone:       req.User.Phone,
		CompanyName: req.User.CompanyName,
		AnyDeskID:   req.User.AnyDeskID,
	}

	result, err := h.service.CreateTicket(c.UserContext(), input, requester, BaseURL(c, h.baseURL))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":        true,
		"message":        "Ticket submitted successfully",
		"ticketId":       result.TicketID,
		"ticketNumber":   result.TicketNumber,
		"emailDelivered": result.EmailDelivered,
	})
}

// ListForUser GET /api/tickets/:userId.
func (h *TicketsHandler) ListForUser(c *fiber.Ctx) error {
	tickets, err := h.service.ListUserTickets(c.UserContext(), c.Params("userId"))
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.NewTicketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"success": true, "tickets": items})
}

// Get GET /api/ticket/:ticketId.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	ticketID := c.Params("ticketId")
	ticket, err := h.service.GetTicket(c.UserContext(), ticketID)
	if err != nil {
		return err
	}
	comments, err := h.service.ListComments(c.UserContext(), ticket.ID)
	if err != nil {
		return err
	}
	history, err := h.service.ListHistory(c.UserContext(), ticket.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"ticket":   dto.NewTicketResponse(ticket),
		"comments": dto.NewCommentResponses(comments),
		"history":  dto.NewHistoryResponses(history),
	})
}

// BaseURL returns the configured public URL or one derived from the Host header.
func BaseURL(c *fiber.Ctx, configured string) string {
	if configured != "" {
		return configured
	}
	return "https://" + c.Hostname()
}
