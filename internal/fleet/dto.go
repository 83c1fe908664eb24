package fleet

import (
	"time"

	internal "github.com/grupomivyca/mivyca-backend/internal"
)

type CreateVehicleDTO struct {
	Plate    string `json:"plate"`
	Brand    string `json:"brand"`
	Model    string `json:"model"`
	Year     int    `json:"year"`
	Type     string `json:"type"`
	Status   string `json:"status,omitempty"`
	FuelType string `json:"fuelType,omitempty"`
	Capacity string `json:"capacity,omitempty"`
}

func (dto CreateVehicleDTO) Validate() error {
	if dto.Plate == "" {
		return internal.NewValidationError("plate is required", internal.ErrCodeValidationFailed)
	}
	if dto.Brand == "" {
		return internal.NewValidationError("brand is required", internal.ErrCodeValidationFailed)
	}
	if dto.Model == "" {
		return internal.NewValidationError("model is required", internal.ErrCodeValidationFailed)
	}
	if dto.Year != 0 && (dto.Year < 1950 || dto.Year > time.Now().Year()+1) {
		return internal.NewValidationError("year is out of range", internal.ErrCodeValidationFailed)
	}
	if _, ok := ParseVehicleType(dto.Type); !ok {
		return internal.NewValidationError("invalid vehicle type", internal.ErrCodeValidationFailed)
	}
	if dto.Status != "" {
		if _, ok := ParseVehicleStatus(dto.Status); !ok {
			return internal.NewValidationError("invalid vehicle status", internal.ErrCodeInvalidStatus)
		}
	}
	return nil
}

// UpdateVehicleDTO carries a partial patch; nil fields are left untouched.
// Plate is immutable after creation.
type UpdateVehicleDTO struct {
	Brand    *string `json:"brand,omitempty"`
	Model    *string `json:"model,omitempty"`
	Year     *int    `json:"year,omitempty"`
	Type     *string `json:"type,omitempty"`
	Status   *string `json:"status,omitempty"`
	FuelType *string `json:"fuelType,omitempty"`
	Capacity *string `json:"capacity,omitempty"`
}

func (dto UpdateVehicleDTO) Validate() error {
	if dto.Brand != nil && *dto.Brand == "" {
		return internal.NewValidationError("brand cannot be empty", internal.ErrCodeValidationFailed)
	}
	if dto.Model != nil && *dto.Model == "" {
		return internal.NewValidationError("model cannot be empty", internal.ErrCodeValidationFailed)
	}
	if dto.Type != nil {
		if _, ok := ParseVehicleType(*dto.Type); !ok {
			return internal.NewValidationError("invalid vehicle type", internal.ErrCodeValidationFailed)
		}
	}
	if dto.Status != nil {
		if _, ok := ParseVehicleStatus(*dto.Status); !ok {
			return internal.NewValidationError("invalid vehicle status", internal.ErrCodeInvalidStatus)
		}
	}
	return nil
}
