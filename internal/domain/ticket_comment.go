package domain

import "time"

// DefaultCommentAuthor signs staff notes submitted without a technician.
const DefaultCommentAuthor = "Support Team"

// TicketComment is a note appended to a ticket thread.
type TicketComment struct {
	ID         string
	TicketID   string
	AuthorName string
	Text       string
	IsFromUser bool
	CreatedAt  time.Time
}
