package company

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	internal "github.com/grupomivyca/mivyca-backend/internal"
)

// Repository is the data access contract for companies.
type Repository interface {
	Create(c *Company) error
	GetByID(id string) (*Company, error)
	GetBySlug(slug string) (*Company, error)
	ListActive() ([]*Company, error)
	Update(c *Company) error
	Delete(id string) error
	Exists(id string) (bool, error)
	Stats(id string) (*Stats, error)
	IsDuplicateKey(err error) bool
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) CreateCompany(dto CreateCompanyDTO) (*Company, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	c := &Company{
		ID:          uuid.NewString(),
		Slug:        dto.Slug,
		Name:        dto.Name,
		Description: dto.Description,
		Logo:        dto.Logo,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(c); err != nil {
		if s.repo.IsDuplicateKey(err) {
			return nil, internal.NewConflictError("slug already registered", internal.ErrCodeSlugTaken)
		}
		return nil, internal.NewInternalError("failed to create company", err)
	}

	s.logger.Info("company created", "company_id", c.ID, "slug", c.Slug)
	return c, nil
}

func (s *Service) GetCompany(id string) (*Company, error) {
	c, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load company", err)
	}
	if c == nil {
		return nil, internal.ErrCompanyNotFound
	}
	return c, nil
}

func (s *Service) GetCompanyBySlug(slug string) (*Company, error) {
	c, err := s.repo.GetBySlug(slug)
	if err != nil {
		return nil, internal.NewInternalError("failed to load company", err)
	}
	if c == nil {
		return nil, internal.ErrCompanyNotFound
	}
	return c, nil
}

// ListCompanies returns active companies ordered by name.
func (s *Service) ListCompanies() ([]*Company, error) {
	companies, err := s.repo.ListActive()
	if err != nil {
		return nil, internal.NewInternalError("failed to list companies", err)
	}
	return companies, nil
}

func (s *Service) UpdateCompany(id string, dto UpdateCompanyDTO) (*Company, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load company", err)
	}
	if c == nil {
		return nil, internal.ErrCompanyNotFound
	}

	if dto.Name != nil {
		c.Name = *dto.Name
	}
	if dto.Description != nil {
		c.Description = *dto.Description
	}
	if dto.Logo != nil {
		c.Logo = *dto.Logo
	}
	if dto.IsActive != nil {
		c.IsActive = *dto.IsActive
	}
	c.UpdatedAt = time.Now()

	if err := s.repo.Update(c); err != nil {
		return nil, internal.NewInternalError("failed to update company", err)
	}

	s.logger.Info("company updated", "company_id", c.ID)
	return c, nil
}

func (s *Service) DeleteCompany(id string) error {
	c, err := s.repo.GetByID(id)
	if err != nil {
		return internal.NewInternalError("failed to load company", err)
	}
	if c == nil {
		return internal.ErrCompanyNotFound
	}

	if err := s.repo.Delete(id); err != nil {
		return internal.NewInternalError("failed to delete company", err)
	}

	s.logger.Info("company deleted", "company_id", id)
	return nil
}

// CompanyStats counts the tenant's users, products, vehicles and orders.
// An empty tenant yields zero counts, never an error.
func (s *Service) CompanyStats(id string) (*Stats, error) {
	c, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load company", err)
	}
	if c == nil {
		return nil, internal.ErrCompanyNotFound
	}

	stats, err := s.repo.Stats(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to compute company stats", err)
	}
	stats.Name = c.Name
	return stats, nil
}

// CompanyExists implements access.CompanyDirectory.
func (s *Service) CompanyExists(id string) (bool, error) {
	return s.repo.Exists(id)
}
