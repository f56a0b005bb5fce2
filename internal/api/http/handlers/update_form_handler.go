package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/pureiot/support-service/internal/api/dto"
	"github.com/pureiot/support-service/internal/render"
	"github.com/pureiot/support-service/internal/service"
	apperrors "github.com/pureiot/support-service/pkg/util/errorutil"
)

// UpdateFormHandler serves the HTML status update form linked from support emails.
type UpdateFormHandler struct {
	service  *service.TicketService
	renderer *render.Renderer
	logger   *zap.Logger
}

// NewUpdateFormHandler constructs handler.
func NewUpdateFormHandler(ticketService *service.TicketService, renderer *render.Renderer, logger *zap.Logger) *UpdateFormHandler {
	return &UpdateFormHandler{service: ticketService, renderer: renderer, logger: logger}
}

// Show GET /update/:ticketId.
func (h *UpdateFormHandler) Show(c *fiber.Ctx) error {
	ticketID := c.Params("ticketId")
	data, err := h.service.GetUpdateForm(c.UserContext(), ticketID)
	if err != nil {
		return h.errorPage(c, ticketID, err)
	}
	page, err := h.renderer.UpdateForm(render.UpdateFormView{
		TicketNumber: data.Ticket.TicketNumber,
		Subject:      data.Ticket.Subject,
		CompanyName:  data.CompanyName,
		UserName:     data.UserName,
		Status:       data.Ticket.Status,
		Technician:   data.Ticket.Technician(),
	})
	if err != nil {
		return err
	}
	return sendHTML(c, fiber.StatusOK, page)
}

// Submit POST /update/:ticketId. Bodies that cannot be parsed count as empty.
func (h *UpdateFormHandler) Submit(c *fiber.Ctx) error {
	ticketID := c.Params("ticketId")

	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		req = dto.UpdateTicketRequest{}
	}

	result, err := h.service.ApplyUpdate(c.UserContext(), ticketID, service.UpdateInput{
		Status:         req.Status,
		TechnicianName: req.TechnicianName,
		Note:           req.Note,
	})
	if err != nil {
		return h.errorPage(c, ticketID, err)
	}

	page, err := h.renderer.UpdateDone(render.UpdateDoneView{
		TicketID:     result.Ticket.ID,
		TicketNumber: result.Ticket.TicketNumber,
		Status:       result.Ticket.Status,
		Technician:   req.TechnicianName,
		NoteAdded:    result.Comment != nil,
	})
	if err != nil {
		return err
	}
	return sendHTML(c, fiber.StatusOK, page)
}

func (h *UpdateFormHandler) errorPage(c *fiber.Ctx, ticketID string, err error) error {
	domainErr := apperrors.ToDomainError(err)

	var (
		page       string
		renderErr  error
		statusCode = domainErr.HTTPStatus
	)
	switch domainErr.Code {
	case apperrors.CodeNotFound:
		page, renderErr = h.renderer.TicketNotFound(ticketID)
	case apperrors.CodeValidation:
		page, renderErr = h.renderer.Message("Invalid Update", domainErr.Message)
	default:
		h.logger.Error("ticket update page failed", zap.String("ticket_id", ticketID), zap.Error(err))
		statusCode = fiber.StatusInternalServerError
		page, renderErr = h.renderer.Message("Something Went Wrong", "The ticket could not be processed. Please try again.")
	}
	if renderErr != nil {
		return renderErr
	}
	return sendHTML(c, statusCode, page)
}

func sendHTML(c *fiber.Ctx, status int, page string) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).SendString(page)
}
