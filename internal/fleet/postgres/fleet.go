package postgres

import (
	"errors"
	"time"

	"github.com/grupomivyca/mivyca-backend/internal/fleet"
	"github.com/grupomivyca/mivyca-backend/internal/metrics"
	"gorm.io/gorm"
)

// VehicleRepository implements fleet.Repository using GORM.
type VehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) fleet.Repository {
	return &VehicleRepository{db: db}
}

func (r *VehicleRepository) Create(v *fleet.Vehicle) error {
	defer metrics.TrackDBOperation("insert_vehicle")(time.Now())
	return r.db.Create(v).Error
}

func (r *VehicleRepository) GetByID(id string) (*fleet.Vehicle, error) {
	var v fleet.Vehicle
	err := r.db.Where("id = ?", id).First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *VehicleRepository) ListByCompany(companyID string, status fleet.VehicleStatus) ([]*fleet.Vehicle, error) {
	var vehicles []*fleet.Vehicle
	q := r.db.Where("company_id = ?", companyID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("plate ASC").Find(&vehicles).Error
	return vehicles, err
}

func (r *VehicleRepository) Update(v *fleet.Vehicle) error {
	defer metrics.TrackDBOperation("update_vehicle")(time.Now())
	return r.db.Save(v).Error
}

func (r *VehicleRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&fleet.Vehicle{}).Error
}

// Stats groups the fleet by (status, type) and derives the totals from the
// grouped rows.
func (r *VehicleRepository) Stats(companyID string) (*fleet.Stats, error) {
	stats := &fleet.Stats{
		CompanyID:         companyID,
		FleetByStatusType: []fleet.StatusTypeCount{},
	}

	var rows []fleet.StatusTypeCount
	err := r.db.Model(&fleet.Vehicle{}).
		Select("status, type, COUNT(*) AS count").
		Where("company_id = ?", companyID).
		Group("status, type").
		Order("status ASC, type ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		stats.TotalVehicles += row.Count
		if row.Status == fleet.StatusAvailable {
			stats.AvailableVehicles += row.Count
		}
	}
	if rows != nil {
		stats.FleetByStatusType = rows
	}

	return stats, nil
}

func (r *VehicleRepository) IsDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
