package postgres

import (
	"errors"

	"github.com/grupomivyca/mivyca-backend/internal/access"
	"gorm.io/gorm"
)

// AccessRepository implements access.Repository using GORM.
type AccessRepository struct {
	db *gorm.DB
}

func NewAccessRepository(db *gorm.DB) access.Repository {
	return &AccessRepository{db: db}
}

// GetByUserAndCompany returns the junction row for the pair regardless of
// the active flag, or nil when none exists.
func (r *AccessRepository) GetByUserAndCompany(userID, companyID string) (*access.CompanyAccess, error) {
	var a access.CompanyAccess
	err := r.db.Where("user_id = ? AND company_id = ?", userID, companyID).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// Save upserts the row. The unique (user_id, company_id) index makes a
// concurrent double-grant a last-write-wins race, which is acceptable for a
// rare administrative action.
func (r *AccessRepository) Save(a *access.CompanyAccess) error {
	return r.db.Save(a).Error
}

func (r *AccessRepository) ListActiveByUser(userID string) ([]*access.CompanyAccess, error) {
	var rows []*access.CompanyAccess
	err := r.db.Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *AccessRepository) ListActiveByCompany(companyID string) ([]*access.CompanyAccess, error) {
	var rows []*access.CompanyAccess
	err := r.db.Where("company_id = ? AND is_active = ?", companyID, true).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}
