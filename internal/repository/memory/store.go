// Package memory is an in-process Store used when no database is configured
// and by tests. Transactions run against a copy of the data set which is
// swapped in only when the callback succeeds.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pureiot/support-service/internal/domain"
	"github.com/pureiot/support-service/internal/repository"
)

type ticketRecord struct {
	ticket domain.Ticket
	seq    int64
}

type state struct {
	tickets   map[string]ticketRecord
	comments  []domain.TicketComment
	history   []domain.TicketHistory
	profiles  map[string]domain.Profile
	companies map[string]domain.Company
	seq       int64
}

func newState() *state {
	return &state{
		tickets:   make(map[string]ticketRecord),
		profiles:  make(map[string]domain.Profile),
		companies: make(map[string]domain.Company),
	}
}

func (s *state) clone() *state {
	out := newState()
	for k, v := range s.tickets {
		out.tickets[k] = ticketRecord{ticket: copyTicket(v.ticket), seq: v.seq}
	}
	out.comments = append(out.comments, s.comments...)
	out.history = append(out.history, s.history...)
	for k, v := range s.profiles {
		out.profiles[k] = v
	}
	for k, v := range s.companies {
		out.companies[k] = v
	}
	out.seq = s.seq
	return out
}

// db is one view over a state. mu is nil inside a transaction, where the
// owning Store already holds its write lock.
type db struct {
	mu  *sync.RWMutex
	st  *state
	now func() time.Time
}

func (d *db) rlock() func() {
	if d.mu == nil {
		return func() {}
	}
	d.mu.RLock()
	return d.mu.RUnlock
}

func (d *db) lock() func() {
	if d.mu == nil {
		return func() {}
	}
	d.mu.Lock()
	return d.mu.Unlock
}

// Store is a goroutine-safe in-memory repository.Store.
type Store struct {
	mu   sync.RWMutex
	live *db
}

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the timestamp source for created_at values.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.live.now = now
	}
}

// NewStore returns an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{}
	s.live = &db{mu: &s.mu, st: newState(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Repos returns repositories operating on the live data set.
func (s *Store) Repos() repository.Repositories {
	return reposFor(s.live)
}

// WithinTx runs fn against a private copy and commits it when fn returns nil.
func (s *Store) WithinTx(ctx context.Context, fn func(repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &db{st: s.live.st.clone(), now: s.live.now}
	if err := fn(reposFor(tx)); err != nil {
		return err
	}
	s.live.st = tx.st
	return nil
}

// AddProfile seeds a profile, assigning an id when empty.
func (s *Store) AddProfile(p domain.Profile) domain.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	s.live.st.profiles[p.ID] = p
	return p
}

// AddCompany seeds a company, assigning an id when empty.
func (s *Store) AddCompany(c domain.Company) domain.Company {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	s.live.st.companies[c.ID] = c
	return c
}

func reposFor(d *db) repository.Repositories {
	return repository.Repositories{
		Tickets:   &ticketRepo{d},
		Comments:  &commentRepo{d},
		History:   &historyRepo{d},
		Profiles:  &profileRepo{d},
		Companies: &companyRepo{d},
	}
}

type ticketRepo struct{ d *db }

func (r *ticketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	defer r.d.lock()()
	now := r.d.now()
	ticket.ID = uuid.NewString()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	r.d.st.seq++
	r.d.st.tickets[ticket.ID] = ticketRecord{ticket: copyTicket(*ticket), seq: r.d.st.seq}
	return nil
}

func (r *ticketRepo) Update(ctx context.Context, ticket *domain.Ticket) error {
	defer r.d.lock()()
	rec, ok := r.d.st.tickets[ticket.ID]
	if !ok {
		return repository.ErrNotFound
	}
	rec.ticket.Status = ticket.Status
	rec.ticket.TechnicianName = copyString(ticket.TechnicianName)
	rec.ticket.UpdatedAt = ticket.UpdatedAt
	r.d.st.tickets[ticket.ID] = rec
	return nil
}

func (r *ticketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	defer r.d.rlock()()
	rec, ok := r.d.st.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	t := copyTicket(rec.ticket)
	return &t, nil
}

func (r *ticketRepo) GetDetail(ctx context.Context, id string) (*domain.TicketDetail, error) {
	defer r.d.rlock()()
	rec, ok := r.d.st.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	detail := &domain.TicketDetail{Ticket: copyTicket(rec.ticket)}
	if rec.ticket.UserID != nil {
		if p, ok := r.d.st.profiles[*rec.ticket.UserID]; ok {
			detail.UserFirstName = &p.FirstName
			detail.UserSurname = &p.Surname
		}
	}
	if rec.ticket.CompanyID != nil {
		if c, ok := r.d.st.companies[*rec.ticket.CompanyID]; ok {
			detail.CompanyName = &c.Name
		}
	}
	return detail, nil
}

func (r *ticketRepo) ListByUser(ctx context.Context, userID string) ([]domain.Ticket, error) {
	defer r.d.rlock()()
	matched := make([]ticketRecord, 0)
	for _, rec := range r.d.st.tickets {
		if rec.ticket.UserID != nil && *rec.ticket.UserID == userID {
			matched = append(matched, rec)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.ticket.CreatedAt.Equal(b.ticket.CreatedAt) {
			return a.ticket.CreatedAt.After(b.ticket.CreatedAt)
		}
		return a.seq > b.seq
	})
	result := make([]domain.Ticket, 0, len(matched))
	for _, rec := range matched {
		result = append(result, copyTicket(rec.ticket))
	}
	return result, nil
}

type commentRepo struct{ d *db }

func (r *commentRepo) Create(ctx context.Context, comment *domain.TicketComment) error {
	defer r.d.lock()()
	comment.ID = uuid.NewString()
	comment.CreatedAt = r.d.now()
	r.d.st.comments = append(r.d.st.comments, *comment)
	return nil
}

func (r *commentRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketComment, error) {
	defer r.d.rlock()()
	result := []domain.TicketComment{}
	for _, c := range r.d.st.comments {
		if c.TicketID == ticketID {
			result = append(result, c)
		}
	}
	return result, nil
}

type historyRepo struct{ d *db }

func (r *historyRepo) Create(ctx context.Context, history *domain.TicketHistory) error {
	defer r.d.lock()()
	history.ID = uuid.NewString()
	history.CreatedAt = r.d.now()
	r.d.st.history = append(r.d.st.history, *history)
	return nil
}

func (r *historyRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketHistory, error) {
	defer r.d.rlock()()
	result := []domain.TicketHistory{}
	for _, h := range r.d.st.history {
		if h.TicketID == ticketID {
			result = append(result, h)
		}
	}
	return result, nil
}

type profileRepo struct{ d *db }

func (r *profileRepo) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	defer r.d.rlock()()
	for _, p := range r.d.st.profiles {
		if p.Email == email {
			found := p
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

type companyRepo struct{ d *db }

func (r *companyRepo) GetByName(ctx context.Context, name string) (*domain.Company, error) {
	defer r.d.rlock()()
	for _, c := range r.d.st.companies {
		if c.Name == name {
			found := c
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func copyTicket(t domain.Ticket) domain.Ticket {
	t.TechnicianName = copyString(t.TechnicianName)
	t.UserID = copyString(t.UserID)
	t.CompanyID = copyString(t.CompanyID)
	if t.ScheduledTime != nil {
		ts := *t.ScheduledTime
		t.ScheduledTime = &ts
	}
	return t
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
