package access

import (
	internal "github.com/grupomivyca/mivyca-backend/internal"
)

// GrantAccessDTO is the payload for POST /users/{id}/company-access.
type GrantAccessDTO struct {
	CompanyID string `json:"companyId"`
	Role      string `json:"role"`
}

func (dto GrantAccessDTO) Validate() error {
	if dto.CompanyID == "" {
		return internal.NewValidationError("companyId is required", internal.ErrCodeValidationFailed)
	}
	if dto.Role == "" {
		return internal.NewValidationError("role is required", internal.ErrCodeValidationFailed)
	}
	if _, ok := ParseRole(dto.Role); !ok {
		return internal.NewValidationError("unknown role: "+dto.Role, internal.ErrCodeInvalidRole)
	}
	return nil
}

// ChangeRoleDTO is the payload for PATCH /users/{id}/company/{companyId}/role.
type ChangeRoleDTO struct {
	Role string `json:"role"`
}

func (dto ChangeRoleDTO) Validate() error {
	if dto.Role == "" {
		return internal.NewValidationError("role is required", internal.ErrCodeValidationFailed)
	}
	if _, ok := ParseRole(dto.Role); !ok {
		return internal.NewValidationError("unknown role: "+dto.Role, internal.ErrCodeInvalidRole)
	}
	return nil
}

type HasAccessResponse struct {
	HasAccess bool `json:"hasAccess"`
}

type RoleResponse struct {
	Role *Role `json:"role"`
}
