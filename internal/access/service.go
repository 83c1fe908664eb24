package access

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	internal "github.com/grupomivyca/mivyca-backend/internal"
	"github.com/grupomivyca/mivyca-backend/internal/core/events"
)

// Repository is the data access contract for the company_access junction.
// Lookups return (nil, nil) when no row exists: absence of access is a
// normal outcome, not an error.
type Repository interface {
	GetByUserAndCompany(userID, companyID string) (*CompanyAccess, error)
	Save(a *CompanyAccess) error
	ListActiveByUser(userID string) ([]*CompanyAccess, error)
	ListActiveByCompany(companyID string) ([]*CompanyAccess, error)
}

// UserDirectory and CompanyDirectory let the resolver enforce referential
// integrity at the boundary without importing the user/company packages.
type UserDirectory interface {
	UserExists(id string) (bool, error)
}

type CompanyDirectory interface {
	CompanyExists(id string) (bool, error)
}

// Service is the access resolver: it answers who may act in which company
// and mutates grants.
type Service struct {
	repo      Repository
	users     UserDirectory
	companies CompanyDirectory
	bus       events.Publisher
	logger    *slog.Logger
}

func NewService(repo Repository, users UserDirectory, companies CompanyDirectory, bus events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		users:     users,
		companies: companies,
		bus:       bus,
		logger:    logger,
	}
}

// HasAccess reports whether an active access row exists for the pair.
func (s *Service) HasAccess(userID, companyID string) (bool, error) {
	a, err := s.repo.GetByUserAndCompany(userID, companyID)
	if err != nil {
		return false, internal.NewInternalError("failed to resolve access", err)
	}
	return a != nil && a.IsActive, nil
}

// RoleIn returns the role the user holds in the company, or nil when no
// active access exists.
func (s *Service) RoleIn(userID, companyID string) (*Role, error) {
	a, err := s.repo.GetByUserAndCompany(userID, companyID)
	if err != nil {
		return nil, internal.NewInternalError("failed to resolve role", err)
	}
	if a == nil || !a.IsActive {
		return nil, nil
	}
	role := a.Role
	return &role, nil
}

// Grant is an idempotent upsert: an existing row (active or not) is
// reactivated with its role overwritten, otherwise a new row is created.
// Re-granting the same access never errors.
func (s *Service) Grant(actor *internal.Principal, userID, companyID string, role Role) (*CompanyAccess, error) {
	if err := s.authorizeManage(actor, companyID); err != nil {
		return nil, err
	}

	if err := s.checkReferences(userID, companyID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByUserAndCompany(userID, companyID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load access row", err)
	}

	now := time.Now()
	if existing != nil {
		existing.Role = role
		existing.IsActive = true
		existing.UpdatedAt = now
		if err := s.repo.Save(existing); err != nil {
			return nil, internal.NewInternalError("failed to update access row", err)
		}
		s.logger.Info("company access regranted",
			"user_id", userID, "company_id", companyID, "role", role)
		return existing, nil
	}

	granted := &CompanyAccess{
		ID:        uuid.NewString(),
		UserID:    userID,
		CompanyID: companyID,
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Save(granted); err != nil {
		return nil, internal.NewInternalError("failed to create access row", err)
	}

	s.publish(events.NewAccessGrantedEvent(userID, companyID, string(role)))
	s.logger.Info("company access granted",
		"user_id", userID, "company_id", companyID, "role", role)
	return granted, nil
}

// GrantInitial performs the same upsert as Grant without an acting
// principal. It exists for registration and seeding, where no authenticated
// actor exists yet.
func (s *Service) GrantInitial(userID, companyID string, role Role) (*CompanyAccess, error) {
	if err := s.checkReferences(userID, companyID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByUserAndCompany(userID, companyID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load access row", err)
	}

	now := time.Now()
	if existing != nil {
		existing.Role = role
		existing.IsActive = true
		existing.UpdatedAt = now
		if err := s.repo.Save(existing); err != nil {
			return nil, internal.NewInternalError("failed to update access row", err)
		}
		return existing, nil
	}

	granted := &CompanyAccess{
		ID:        uuid.NewString(),
		UserID:    userID,
		CompanyID: companyID,
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Save(granted); err != nil {
		return nil, internal.NewInternalError("failed to create access row", err)
	}

	s.logger.Info("initial company access granted",
		"user_id", userID, "company_id", companyID, "role", role)
	return granted, nil
}

// Revoke flips the active flag off. The row stays for audit history and
// later reactivation; revoking an already-revoked grant is a no-op.
func (s *Service) Revoke(actor *internal.Principal, userID, companyID string) error {
	if err := s.authorizeManage(actor, companyID); err != nil {
		return err
	}

	existing, err := s.repo.GetByUserAndCompany(userID, companyID)
	if err != nil {
		return internal.NewInternalError("failed to load access row", err)
	}
	if existing == nil {
		return internal.ErrAccessNotFound
	}
	if !existing.IsActive {
		return nil
	}

	existing.IsActive = false
	existing.UpdatedAt = time.Now()
	if err := s.repo.Save(existing); err != nil {
		return internal.NewInternalError("failed to revoke access", err)
	}

	s.publish(events.NewAccessRevokedEvent(userID, companyID))
	s.logger.Info("company access revoked", "user_id", userID, "company_id", companyID)
	return nil
}

func (s *Service) publish(event events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(context.Background(), event); err != nil {
		s.logger.Warn("failed to publish access event", "event", event.Name(), "error", err)
	}
}

// ChangeRole presupposes a prior grant: it fails NotFound when no row exists
// at all, active or not. It does not touch the active flag.
func (s *Service) ChangeRole(actor *internal.Principal, userID, companyID string, role Role) (*CompanyAccess, error) {
	if err := s.authorizeManage(actor, companyID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByUserAndCompany(userID, companyID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load access row", err)
	}
	if existing == nil {
		return nil, internal.ErrAccessNotFound
	}

	existing.Role = role
	existing.UpdatedAt = time.Now()
	if err := s.repo.Save(existing); err != nil {
		return nil, internal.NewInternalError("failed to change role", err)
	}

	s.logger.Info("company role changed",
		"user_id", userID, "company_id", companyID, "role", role)
	return existing, nil
}

// ListForUser returns the user's active access rows.
func (s *Service) ListForUser(userID string) ([]*CompanyAccess, error) {
	rows, err := s.repo.ListActiveByUser(userID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list user access", err)
	}
	return rows, nil
}

// ListForCompany returns the active access rows of one company.
func (s *Service) ListForCompany(companyID string) ([]*CompanyAccess, error) {
	rows, err := s.repo.ListActiveByCompany(companyID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list company access", err)
	}
	return rows, nil
}

// authorizeManage requires the actor to hold a management-capable role in
// the target company. Grants are always company-scoped: there is no
// cross-company superuser.
func (s *Service) authorizeManage(actor *internal.Principal, companyID string) error {
	if actor == nil {
		return internal.ErrNotAuthenticated
	}
	if actor.CompanyID != companyID {
		return internal.ErrCrossTenant
	}
	if !Can(Role(actor.Role), ActionManageAccess) {
		return internal.ErrInsufficientRole
	}
	return nil
}

func (s *Service) checkReferences(userID, companyID string) error {
	userOK, err := s.users.UserExists(userID)
	if err != nil {
		return internal.NewInternalError("failed to look up user", err)
	}
	if !userOK {
		return internal.ErrUserNotFound
	}

	companyOK, err := s.companies.CompanyExists(companyID)
	if err != nil {
		return internal.NewInternalError("failed to look up company", err)
	}
	if !companyOK {
		return internal.ErrCompanyNotFound
	}
	return nil
}
