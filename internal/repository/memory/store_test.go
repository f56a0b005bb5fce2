package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pureiot/support-service/internal/domain"
	"github.com/pureiot/support-service/internal/repository"
)

func steppingClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Minute)
		return current
	}
}

func TestWithinTx_CommitsOnSuccess(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	ticket := &domain.Ticket{TicketNumber: "PIOT-1", Status: domain.TicketStatusUnassigned}
	err := store.WithinTx(ctx, func(repos repository.Repositories) error {
		return repos.Tickets.Create(ctx, ticket)
	})
	require.NoError(t, err)
	require.NotEmpty(t, ticket.ID)

	got, err := store.Repos().Tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "PIOT-1", got.TicketNumber)
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	ticket := &domain.Ticket{TicketNumber: "PIOT-1", Status: domain.TicketStatusUnassigned}
	require.NoError(t, store.Repos().Tickets.Create(ctx, ticket))

	boom := errors.New("boom")
	err := store.WithinTx(ctx, func(repos repository.Repositories) error {
		updated := *ticket
		updated.Status = domain.TicketStatusCompleted
		if err := repos.Tickets.Update(ctx, &updated); err != nil {
			return err
		}
		if err := repos.Comments.Create(ctx, &domain.TicketComment{TicketID: ticket.ID, AuthorName: "Rob", Text: "done"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := store.Repos().Tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusUnassigned, got.Status)

	comments, err := store.Repos().Comments.ListByTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestUpdate_UnknownTicket(t *testing.T) {
	store := NewStore()
	err := store.Repos().Tickets.Update(context.Background(), &domain.Ticket{ID: "missing"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetByID_ReturnsCopy(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	tech := "Rob"
	ticket := &domain.Ticket{TicketNumber: "PIOT-1", TechnicianName: &tech}
	require.NoError(t, store.Repos().Tickets.Create(ctx, ticket))

	got, err := store.Repos().Tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	*got.TechnicianName = "Aiden"

	again, err := store.Repos().Tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rob", again.Technician())
}

func TestListByUser_NewestFirst(t *testing.T) {
	store := NewStore(WithClock(steppingClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))))
	ctx := context.Background()
	userID := "user-1"
	other := "user-2"

	var created []string
	for i := 0; i < 3; i++ {
		ticket := &domain.Ticket{UserID: &userID}
		require.NoError(t, store.Repos().Tickets.Create(ctx, ticket))
		created = append(created, ticket.ID)
	}
	require.NoError(t, store.Repos().Tickets.Create(ctx, &domain.Ticket{UserID: &other}))

	tickets, err := store.Repos().Tickets.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, tickets, 3)
	assert.Equal(t, created[2], tickets[0].ID)
	assert.Equal(t, created[0], tickets[2].ID)
}

func TestListByUser_SameTimestampUsesInsertOrder(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewStore(WithClock(func() time.Time { return at }))
	ctx := context.Background()
	userID := "user-1"

	first := &domain.Ticket{UserID: &userID}
	second := &domain.Ticket{UserID: &userID}
	require.NoError(t, store.Repos().Tickets.Create(ctx, first))
	require.NoError(t, store.Repos().Tickets.Create(ctx, second))

	tickets, err := store.Repos().Tickets.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, second.ID, tickets[0].ID)
}

func TestGetDetail_JoinsProfileAndCompany(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	profile := store.AddProfile(domain.Profile{FirstName: "Jane", Surname: "Doe", Email: "jane@acme.co.za"})
	company := store.AddCompany(domain.Company{Name: "Acme"})

	ticket := &domain.Ticket{UserID: &profile.ID, CompanyID: &company.ID}
	require.NoError(t, store.Repos().Tickets.Create(ctx, ticket))

	detail, err := store.Repos().Tickets.GetDetail(ctx, ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.CompanyName)
	assert.Equal(t, "Acme", *detail.CompanyName)
	require.NotNil(t, detail.UserFirstName)
	assert.Equal(t, "Jane", *detail.UserFirstName)

	_, err = store.Repos().Tickets.GetDetail(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestLookups(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	store.AddProfile(domain.Profile{Email: "jane@acme.co.za"})
	store.AddCompany(domain.Company{Name: "Acme"})

	_, err := store.Repos().Profiles.GetByEmail(ctx, "jane@acme.co.za")
	assert.NoError(t, err)
	_, err = store.Repos().Profiles.GetByEmail(ctx, "JANE@acme.co.za")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = store.Repos().Companies.GetByName(ctx, "Acme")
	assert.NoError(t, err)
	_, err = store.Repos().Companies.GetByName(ctx, "acme")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestWithinTx_CancelledContext(t *testing.T) {
	store := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := store.WithinTx(ctx, func(repository.Repositories) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
