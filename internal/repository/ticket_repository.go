package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/pureiot/support-service/internal/domain"
)

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetDetail(ctx context.Context, id string) (*domain.TicketDetail, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Ticket, error)
}

type ticketRepository struct {
	db DBTX
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(db DBTX) TicketRepository {
	return &ticketRepository{db: db}
}

const ticketColumns = `t.id, t.ticket_number, t.subject, t.description, t.priority, t.status,
               t.technician_name, t.contact_preference, t.scheduled_time, t.user_id, t.company_id,
               t.created_at, t.updated_at`

// seq breaks created_at ties in insert order, matching the in-memory store.
const listByUserOrder = `ORDER BY t.created_at DESC, t.seq DESC`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (ticket_number, subject, description, priority, status, technician_name,
            contact_preference, scheduled_time, user_id, company_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		ticket.TicketNumber,
		ticket.Subject,
		ticket.Description,
		ticket.Priority,
		ticket.Status,
		ticket.TechnicianName,
		ticket.ContactPreference,
		ticket.ScheduledTime,
		ticket.UserID,
		ticket.CompanyID,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

// Update writes the mutable columns: status, technician and updated_at.
func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET status=$1, technician_name=$2, updated_at=$3
        WHERE id=$4`
	cmd, err := r.db.Exec(ctx, query,
		ticket.Status,
		ticket.TechnicianName,
		ticket.UpdatedAt,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets t WHERE t.id=$1`
	var ticket domain.Ticket
	if err := scanTicket(r.db.QueryRow(ctx, query, id), &ticket); err != nil {
		return nil, notFound(err)
	}
	return &ticket, nil
}

func (r *ticketRepository) GetDetail(ctx context.Context, id string) (*domain.TicketDetail, error) {
	query := `SELECT ` + ticketColumns + `, p.first_name, p.surname, c.name
             FROM tickets t
             LEFT JOIN profiles p ON p.id = t.user_id
             LEFT JOIN companies c ON c.id = t.company_id
             WHERE t.id=$1`
	var detail domain.TicketDetail
	t := &detail.Ticket
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID,
		&t.TicketNumber,
		&t.Subject,
		&t.Description,
		&t.Priority,
		&t.Status,
		&t.TechnicianName,
		&t.ContactPreference,
		&t.ScheduledTime,
		&t.UserID,
		&t.CompanyID,
		&t.CreatedAt,
		&t.UpdatedAt,
		&detail.UserFirstName,
		&detail.UserSurname,
		&detail.CompanyName,
	); err != nil {
		return nil, notFound(err)
	}
	return &detail, nil
}

func (r *ticketRepository) ListByUser(ctx context.Context, userID string) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets t WHERE t.user_id=$1 ` + listByUserOrder
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Ticket{}
	for rows.Next() {
		var ticket domain.Ticket
		if err := scanTicket(rows, &ticket); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func scanTicket(row pgx.Row, ticket *domain.Ticket) error {
	return row.Scan(
		&ticket.ID,
		&ticket.TicketNumber,
		&ticket.Subject,
		&ticket.Description,
		&ticket.Priority,
		&ticket.Status,
		&ticket.TechnicianName,
		&ticket.ContactPreference,
		&ticket.ScheduledTime,
		&ticket.UserID,
		&ticket.CompanyID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
}
