package fleet

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	internal "github.com/grupomivyca/mivyca-backend/internal"
	"github.com/grupomivyca/mivyca-backend/internal/access"
)

// Repository is the data access contract for vehicles.
type Repository interface {
	Create(v *Vehicle) error
	GetByID(id string) (*Vehicle, error)
	ListByCompany(companyID string, status VehicleStatus) ([]*Vehicle, error)
	Update(v *Vehicle) error
	Delete(id string) error
	Stats(companyID string) (*Stats, error)
	IsDuplicateKey(err error) bool
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) CreateVehicle(principal *internal.Principal, dto CreateVehicleDTO) (*Vehicle, error) {
	if err := access.Require(principal, access.ActionWriteResource); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	status := StatusAvailable
	if dto.Status != "" {
		status, _ = ParseVehicleStatus(dto.Status)
	}
	vehicleType, _ := ParseVehicleType(dto.Type)

	now := time.Now()
	v := &Vehicle{
		ID:        uuid.NewString(),
		CompanyID: principal.CompanyID,
		Plate:     dto.Plate,
		Brand:     dto.Brand,
		Model:     dto.Model,
		Year:      dto.Year,
		Type:      vehicleType,
		Status:    status,
		FuelType:  dto.FuelType,
		Capacity:  dto.Capacity,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(v); err != nil {
		if s.repo.IsDuplicateKey(err) {
			return nil, internal.NewConflictError("plate already registered", internal.ErrCodePlateTaken)
		}
		return nil, internal.NewInternalError("failed to create vehicle", err)
	}

	s.logger.Info("vehicle created", "vehicle_id", v.ID, "company_id", v.CompanyID, "plate", v.Plate)
	return v, nil
}

func (s *Service) GetVehicle(principal *internal.Principal, id string) (*Vehicle, error) {
	if err := access.Require(principal, access.ActionReadResource); err != nil {
		return nil, err
	}
	return s.ownedVehicle(principal, id)
}

// ListVehicles returns the company's vehicles ordered by plate, optionally
// filtered by status.
func (s *Service) ListVehicles(principal *internal.Principal, status string) ([]*Vehicle, error) {
	if err := access.Require(principal, access.ActionReadResource); err != nil {
		return nil, err
	}

	var statusFilter VehicleStatus
	if status != "" {
		parsed, ok := ParseVehicleStatus(status)
		if !ok {
			return nil, internal.NewValidationError("invalid vehicle status", internal.ErrCodeInvalidStatus)
		}
		statusFilter = parsed
	}

	vehicles, err := s.repo.ListByCompany(principal.CompanyID, statusFilter)
	if err != nil {
		return nil, internal.NewInternalError("failed to list vehicles", err)
	}
	return vehicles, nil
}

func (s *Service) UpdateVehicle(principal *internal.Principal, id string, dto UpdateVehicleDTO) (*Vehicle, error) {
	if err := access.Require(principal, access.ActionWriteResource); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	v, err := s.ownedVehicle(principal, id)
	if err != nil {
		return nil, err
	}

	if dto.Brand != nil {
		v.Brand = *dto.Brand
	}
	if dto.Model != nil {
		v.Model = *dto.Model
	}
	if dto.Year != nil {
		v.Year = *dto.Year
	}
	if dto.Type != nil {
		v.Type, _ = ParseVehicleType(*dto.Type)
	}
	if dto.Status != nil {
		v.Status, _ = ParseVehicleStatus(*dto.Status)
	}
	if dto.FuelType != nil {
		v.FuelType = *dto.FuelType
	}
	if dto.Capacity != nil {
		v.Capacity = *dto.Capacity
	}
	v.UpdatedAt = time.Now()

	if err := s.repo.Update(v); err != nil {
		return nil, internal.NewInternalError("failed to update vehicle", err)
	}

	s.logger.Info("vehicle updated", "vehicle_id", v.ID, "company_id", v.CompanyID)
	return v, nil
}

func (s *Service) DeleteVehicle(principal *internal.Principal, id string) error {
	if err := access.Require(principal, access.ActionWriteResource); err != nil {
		return err
	}

	v, err := s.ownedVehicle(principal, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(v.ID); err != nil {
		return internal.NewInternalError("failed to delete vehicle", err)
	}

	s.logger.Info("vehicle deleted", "vehicle_id", v.ID, "company_id", v.CompanyID)
	return nil
}

// FleetStats summarizes the company's fleet. An empty fleet yields zero
// counts, never an error.
func (s *Service) FleetStats(principal *internal.Principal) (*Stats, error) {
	if err := access.Require(principal, access.ActionViewStats); err != nil {
		return nil, err
	}

	stats, err := s.repo.Stats(principal.CompanyID)
	if err != nil {
		return nil, internal.NewInternalError("failed to compute fleet stats", err)
	}
	return stats, nil
}

func (s *Service) ownedVehicle(principal *internal.Principal, id string) (*Vehicle, error) {
	if principal == nil {
		return nil, internal.ErrNotAuthenticated
	}

	v, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load vehicle", err)
	}
	if v == nil {
		return nil, internal.NewNotFoundError("vehicle not found", internal.ErrCodeVehicleNotFound)
	}
	if v.CompanyID != principal.CompanyID {
		return nil, internal.ErrCrossTenant
	}
	return v, nil
}
