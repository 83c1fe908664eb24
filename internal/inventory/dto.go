package inventory

import (
	internal "github.com/grupomivyca/mivyca-backend/internal"
)

type CreateProductDTO struct {
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
}

func (dto CreateProductDTO) Validate() error {
	if dto.SKU == "" {
		return internal.NewValidationError("sku is required", internal.ErrCodeValidationFailed)
	}
	if dto.Name == "" {
		return internal.NewValidationError("name is required", internal.ErrCodeValidationFailed)
	}
	if dto.Price < 0 {
		return internal.NewValidationError("price cannot be negative", internal.ErrCodeValidationFailed)
	}
	if dto.Stock < 0 {
		return internal.NewValidationError("stock cannot be negative", internal.ErrCodeValidationFailed)
	}
	return nil
}

// UpdateProductDTO carries a partial patch; nil fields are left untouched.
// SKU is immutable after creation.
type UpdateProductDTO struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

func (dto UpdateProductDTO) Validate() error {
	if dto.Name != nil && *dto.Name == "" {
		return internal.NewValidationError("name cannot be empty", internal.ErrCodeValidationFailed)
	}
	if dto.Price != nil && *dto.Price < 0 {
		return internal.NewValidationError("price cannot be negative", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UpdateStockDTO struct {
	Stock int `json:"stock"`
}

func (dto UpdateStockDTO) Validate() error {
	if dto.Stock < 0 {
		return internal.NewValidationError("stock cannot be negative", internal.ErrCodeValidationFailed)
	}
	return nil
}
