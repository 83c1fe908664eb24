package user

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	internal "github.com/grupomivyca/mivyca-backend/internal"
)

// Repository is the data access contract for users.
type Repository interface {
	Create(u *User) error
	GetByID(id string) (*User, error)
	GetByEmail(email string) (*User, error)
	List() ([]*User, error)
	ListByCompany(companyID string) ([]*User, error)
	Update(u *User) error
	Delete(id string) error
	Exists(id string) (bool, error)
	IsDuplicateKey(err error) bool
}

// PasswordHasher abstracts credential hashing so the user service does not
// depend on the auth package.
type PasswordHasher interface {
	HashPassword(plain string) (string, error)
}

type Service struct {
	repo   Repository
	hasher PasswordHasher
	logger *slog.Logger
}

func NewService(repo Repository, hasher PasswordHasher, logger *slog.Logger) *Service {
	return &Service{repo: repo, hasher: hasher, logger: logger}
}

func (s *Service) CreateUser(dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	now := time.Now()
	u := &User{
		ID:               uuid.NewString(),
		Email:            dto.Email,
		PasswordHash:     hash,
		FirstName:        dto.FirstName,
		LastName:         dto.LastName,
		IsActive:         true,
		EmailVerified:    false,
		DefaultCompanyID: dto.DefaultCompanyID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(u); err != nil {
		if s.repo.IsDuplicateKey(err) {
			return nil, internal.NewConflictError("email already registered", internal.ErrCodeEmailTaken)
		}
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user created", "user_id", u.ID)
	return u, nil
}

func (s *Service) GetUser(id string) (*User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load user", err)
	}
	if u == nil {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

func (s *Service) GetUserByEmail(email string) (*User, error) {
	u, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, internal.NewInternalError("failed to load user", err)
	}
	if u == nil {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

func (s *Service) ListUsers() ([]*User, error) {
	users, err := s.repo.List()
	if err != nil {
		return nil, internal.NewInternalError("failed to list users", err)
	}
	return users, nil
}

// ListUsersByCompany returns the users holding an active access row in the
// given company.
func (s *Service) ListUsersByCompany(companyID string) ([]*User, error) {
	users, err := s.repo.ListByCompany(companyID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list company users", err)
	}
	return users, nil
}

func (s *Service) UpdateUser(id string, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load user", err)
	}
	if u == nil {
		return nil, internal.ErrUserNotFound
	}

	if dto.FirstName != nil {
		u.FirstName = *dto.FirstName
	}
	if dto.LastName != nil {
		u.LastName = *dto.LastName
	}
	if dto.IsActive != nil {
		u.IsActive = *dto.IsActive
	}
	if dto.DefaultCompanyID != nil {
		u.DefaultCompanyID = dto.DefaultCompanyID
	}
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(u); err != nil {
		return nil, internal.NewInternalError("failed to update user", err)
	}

	s.logger.Info("user updated", "user_id", u.ID)
	return u, nil
}

func (s *Service) DeleteUser(id string) error {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return internal.NewInternalError("failed to load user", err)
	}
	if u == nil {
		return internal.ErrUserNotFound
	}

	if err := s.repo.Delete(id); err != nil {
		return internal.NewInternalError("failed to delete user", err)
	}

	s.logger.Info("user deleted", "user_id", id)
	return nil
}

// UserExists implements access.UserDirectory.
func (s *Service) UserExists(id string) (bool, error) {
	return s.repo.Exists(id)
}
