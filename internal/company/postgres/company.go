package postgres

import (
	"errors"

	"github.com/grupomivyca/mivyca-backend/internal/company"
	"gorm.io/gorm"
)

// CompanyRepository implements company.Repository using GORM.
type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) company.Repository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) Create(c *company.Company) error {
	return r.db.Create(c).Error
}

func (r *CompanyRepository) GetByID(id string) (*company.Company, error) {
	var c company.Company
	err := r.db.Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CompanyRepository) GetBySlug(slug string) (*company.Company, error) {
	var c company.Company
	err := r.db.Where("slug = ?", slug).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CompanyRepository) ListActive() ([]*company.Company, error) {
	var companies []*company.Company
	err := r.db.Where("is_active = ?", true).
		Order("name ASC").
		Find(&companies).Error
	return companies, err
}

func (r *CompanyRepository) Update(c *company.Company) error {
	return r.db.Save(c).Error
}

func (r *CompanyRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&company.Company{}).Error
}

func (r *CompanyRepository) Exists(id string) (bool, error) {
	var count int64
	err := r.db.Model(&company.Company{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Stats counts tenant-scoped rows per table. Orders use the default scope,
// so soft-deleted orders are excluded from the count.
func (r *CompanyRepository) Stats(id string) (*company.Stats, error) {
	stats := &company.Stats{CompanyID: id}

	if err := r.db.Table("company_access").
		Where("company_id = ? AND is_active = ?", id, true).
		Count(&stats.Users).Error; err != nil {
		return nil, err
	}
	if err := r.db.Table("products").
		Where("company_id = ?", id).
		Count(&stats.Products).Error; err != nil {
		return nil, err
	}
	if err := r.db.Table("vehicles").
		Where("company_id = ?", id).
		Count(&stats.Vehicles).Error; err != nil {
		return nil, err
	}
	if err := r.db.Table("orders").
		Where("company_id = ? AND deleted_at IS NULL", id).
		Count(&stats.Orders).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *CompanyRepository) IsDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
