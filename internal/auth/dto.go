package auth

import (
	"strings"

	internal "github.com/grupomivyca/mivyca-backend/internal"
)

// LoginDTO selects the company to authenticate into. When CompanyID is
// empty, the user's default company is used.
type LoginDTO struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	CompanyID string `json:"companyId,omitempty"`
}

func (dto LoginDTO) Validate() error {
	if dto.Email == "" || !strings.Contains(dto.Email, "@") {
		return internal.NewValidationError("a valid email is required", internal.ErrCodeValidationFailed)
	}
	if dto.Password == "" {
		return internal.NewValidationError("password is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type RegisterDTO struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	CompanyID string `json:"companyId"`
}

func (dto RegisterDTO) Validate() error {
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
	if dto.CompanyID == "" {
		return internal.NewValidationError("companyId is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func (dto RefreshTokenDTO) Validate() error {
	if dto.RefreshToken == "" {
		return internal.NewValidationError("refresh_token is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// SessionUser is the user payload returned alongside tokens.
type SessionUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	CompanyID string `json:"company_id"`
	Role      string `json:"role"`
}

type SessionResponse struct {
	AuthTokens
	User SessionUser `json:"user"`
}
