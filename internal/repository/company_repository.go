package repository

import (
	"context"

	"github.com/pureiot/support-service/internal/domain"
)

// CompanyRepository reads companies.
type CompanyRepository interface {
	GetByName(ctx context.Context, name string) (*domain.Company, error)
}

type companyRepository struct {
	db DBTX
}

// NewCompanyRepository builds the repository.
func NewCompanyRepository(db DBTX) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) GetByName(ctx context.Context, name string) (*domain.Company, error) {
	const query = `SELECT id, name FROM companies WHERE name=$1 ORDER BY id LIMIT 1`
	var company domain.Company
	if err := r.db.QueryRow(ctx, query, name).Scan(&company.ID, &company.Name); err != nil {
		return nil, notFound(err)
	}
	return &company, nil
}
