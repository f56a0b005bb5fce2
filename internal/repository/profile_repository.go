package repository

import (
	"context"

	"github.com/pureiot/support-service/internal/domain"
)

// ProfileRepository reads end-user profiles.
type ProfileRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)
}

type profileRepository struct {
	db DBTX
}

// NewProfileRepository returns a Postgres-backed implementation.
func NewProfileRepository(db DBTX) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	const query = `
        SELECT id, first_name, surname, email, phone
        FROM profiles WHERE email=$1
        ORDER BY id LIMIT 1`

	var profile domain.Profile
	if err := r.db.QueryRow(ctx, query, email).Scan(
		&profile.ID,
		&profile.FirstName,
		&profile.Surname,
		&profile.Email,
		&profile.Phone,
	); err != nil {
		return nil, notFound(err)
	}
	return &profile, nil
}
