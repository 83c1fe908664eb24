package user

import (
	"strings"

	internal "github.com/grupomivyca/mivyca-backend/internal"
)

type CreateUserDTO struct {
	Email            string  `json:"email"`
	Password         string  `json:"password"`
	FirstName        string  `json:"firstName"`
	LastName         string  `json:"lastName"`
	DefaultCompanyID *string `json:"defaultCompanyId,omitempty"`
}

func (dto CreateUserDTO) Validate() error {
	if dto.Email == "" || !strings.Contains(dto.Email, "@") {
		return internal.NewValidationError("a valid email is required", internal.ErrCodeValidationFailed)
	}
	if len(dto.Password) < 8 {
		return internal.NewValidationError("password must be at least 8 characters", internal.ErrCodeValidationFailed)
	}
	if dto.FirstName == "" {
		return internal.NewValidationError("firstName is required", internal.ErrCodeValidationFailed)
	}
	if dto.LastName == "" {
		return internal.NewValidationError("lastName is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// UpdateUserDTO carries a partial patch; nil fields are left untouched.
// Email and password changes go through dedicated flows, not this patch.
type UpdateUserDTO struct {
	FirstName        *string `json:"firstName,omitempty"`
	LastName         *string `json:"lastName,omitempty"`
	IsActive         *bool   `json:"is_active,omitempty"`
	DefaultCompanyID *string `json:"defaultCompanyId,omitempty"`
}

func (dto UpdateUserDTO) Validate() error {
	if dto.FirstName != nil && *dto.FirstName == "" {
		return internal.NewValidationError("firstName cannot be empty", internal.ErrCodeValidationFailed)
	}
	if dto.LastName != nil && *dto.LastName == "" {
		return internal.NewValidationError("lastName cannot be empty", internal.ErrCodeValidationFailed)
	}
	return nil
}
