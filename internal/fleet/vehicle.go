package fleet

import (
	"time"
)

type VehicleStatus string

const (
	StatusAvailable   VehicleStatus = "AVAILABLE"
	StatusInUse       VehicleStatus = "IN_USE"
	StatusMaintenance VehicleStatus = "MAINTENANCE"
)

func ParseVehicleStatus(s string) (VehicleStatus, bool) {
	switch VehicleStatus(s) {
	case StatusAvailable, StatusInUse, StatusMaintenance:
		return VehicleStatus(s), true
	}
	return "", false
}

type VehicleType string

const (
	TypeTruck      VehicleType = "TRUCK"
	TypeVan        VehicleType = "VAN"
	TypeCar        VehicleType = "CAR"
	TypeMotorcycle VehicleType = "MOTORCYCLE"
)

func ParseVehicleType(s string) (VehicleType, bool) {
	switch VehicleType(s) {
	case TypeTruck, TypeVan, TypeCar, TypeMotorcycle:
		return VehicleType(s), true
	}
	return "", false
}

// Vehicle is a tenant-scoped fleet unit. Plate is unique within a company.
type Vehicle struct {
	ID        string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CompanyID string        `json:"company_id" gorm:"column:company_id;type:varchar(36);uniqueIndex:idx_company_plate;not null"`
	Plate     string        `json:"plate" gorm:"column:plate;uniqueIndex:idx_company_plate;not null"`
	Brand     string        `json:"brand" gorm:"column:brand;not null"`
	Model     string        `json:"model" gorm:"column:model;not null"`
	Year      int           `json:"year" gorm:"column:year"`
	Type      VehicleType   `json:"type" gorm:"column:type;type:varchar(20);not null"`
	Status    VehicleStatus `json:"status" gorm:"column:status;type:varchar(20);not null;default:AVAILABLE"`
	FuelType  string        `json:"fuel_type" gorm:"column:fuel_type"`
	Capacity  string        `json:"capacity" gorm:"column:capacity"`
	CreatedAt time.Time     `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time     `json:"updated_at" gorm:"column:updated_at"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}

// StatusTypeCount is one cell of the status/type breakdown.
type StatusTypeCount struct {
	Status VehicleStatus `json:"status"`
	Type   VehicleType   `json:"type"`
	Count  int64         `json:"count"`
}

// Stats summarizes one company's fleet grouped by status and type.
type Stats struct {
	CompanyID         string            `json:"company_id"`
	TotalVehicles     int64             `json:"total_vehicles"`
	AvailableVehicles int64             `json:"available_vehicles"`
	FleetByStatusType []StatusTypeCount `json:"fleet_by_status_and_type"`
}
