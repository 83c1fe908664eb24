package company

import (
	internal "github.com/grupomivyca/mivyca-backend/internal"
)

type CreateCompanyDTO struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Logo        string `json:"logo"`
}

func (dto CreateCompanyDTO) Validate() error {
	if dto.Slug == "" {
		return internal.NewValidationError("slug is required", internal.ErrCodeValidationFailed)
	}
	if dto.Name == "" {
		return internal.NewValidationError("name is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// UpdateCompanyDTO carries a partial patch; nil fields are left untouched.
type UpdateCompanyDTO struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Logo        *string `json:"logo,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func (dto UpdateCompanyDTO) Validate() error {
	if dto.Name != nil && *dto.Name == "" {
		return internal.NewValidationError("name cannot be empty", internal.ErrCodeValidationFailed)
	}
	return nil
}
