package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusUnassigned TicketStatus = "unassigned"
	TicketStatusAssigned   TicketStatus = "assigned"
	TicketStatusInProgress TicketStatus = "in-progress"
	TicketStatusCompleted  TicketStatus = "completed"
)

// TicketStatuses lists statuses in the order staff see them.
var TicketStatuses = []TicketStatus{
	TicketStatusUnassigned,
	TicketStatusAssigned,
	TicketStatusInProgress,
	TicketStatusCompleted,
}

// Valid reports whether s is one of the known statuses.
func (s TicketStatus) Valid() bool {
	for _, candidate := range TicketStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "low"
	TicketPriorityMedium   TicketPriority = "medium"
	TicketPriorityHigh     TicketPriority = "high"
	TicketPriorityCritical TicketPriority = "critical"
)

// ContactPreference records when the requester wants to be contacted.
type ContactPreference string

const (
	ContactASAP      ContactPreference = "asap"
	ContactScheduled ContactPreference = "scheduled"
)

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID                string
	TicketNumber      string
	Subject           string
	Description       string
	Priority          TicketPriority
	Status            TicketStatus
	TechnicianName    *string
	ContactPreference ContactPreference
	ScheduledTime     *time.Time
	UserID            *string
	CompanyID         *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Technician returns the assigned technician or an empty string.
func (t *Ticket) Technician() string {
	if t == nil || t.TechnicianName == nil {
		return ""
	}
	return *t.TechnicianName
}

// TicketDetail is a ticket joined with its owner profile and company.
type TicketDetail struct {
	Ticket
	UserFirstName *string
	UserSurname   *string
	CompanyName   *string
}
