package orders

import (
	"strings"

	internal "github.com/grupomivyca/mivyca-backend/internal"
)

type CreateOrderDTO struct {
	OrderNumber   string  `json:"orderNumber"`
	Total         float64 `json:"total"`
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail,omitempty"`
	CustomerPhone string  `json:"customerPhone,omitempty"`
	Notes         string  `json:"notes,omitempty"`
}

func (dto CreateOrderDTO) Validate() error {
	if dto.OrderNumber == "" {
		return internal.NewValidationError("orderNumber is required", internal.ErrCodeValidationFailed)
	}
	if dto.CustomerName == "" {
		return internal.NewValidationError("customerName is required", internal.ErrCodeValidationFailed)
	}
	if dto.Total < 0 {
		return internal.NewValidationError("total cannot be negative", internal.ErrCodeValidationFailed)
	}
	if dto.CustomerEmail != "" && !strings.Contains(dto.CustomerEmail, "@") {
		return internal.NewValidationError("customerEmail is not a valid email", internal.ErrCodeValidationFailed)
	}
	return nil
}

// UpdateOrderDTO carries a partial patch; nil fields are left untouched.
// Status changes go through the transition endpoint, not this patch.
type UpdateOrderDTO struct {
	Total         *float64 `json:"total,omitempty"`
	CustomerName  *string  `json:"customerName,omitempty"`
	CustomerEmail *string  `json:"customerEmail,omitempty"`
	CustomerPhone *string  `json:"customerPhone,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
}

func (dto UpdateOrderDTO) Validate() error {
	if dto.Total != nil && *dto.Total < 0 {
		return internal.NewValidationError("total cannot be negative", internal.ErrCodeValidationFailed)
	}
	if dto.CustomerName != nil && *dto.CustomerName == "" {
		return internal.NewValidationError("customerName cannot be empty", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UpdateStatusDTO struct {
	Status string `json:"status"`
}

func (dto UpdateStatusDTO) Validate() error {
	if _, ok := ParseOrderStatus(dto.Status); !ok {
		return internal.NewValidationError("invalid order status", internal.ErrCodeInvalidStatus)
	}
	return nil
}
