package postgres

import (
	"errors"
	"time"

	"github.com/grupomivyca/mivyca-backend/internal/inventory"
	"github.com/grupomivyca/mivyca-backend/internal/metrics"
	"gorm.io/gorm"
)

// ProductRepository implements inventory.Repository using GORM.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) inventory.Repository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(p *inventory.Product) error {
	defer metrics.TrackDBOperation("insert_product")(time.Now())
	return r.db.Create(p).Error
}

func (r *ProductRepository) GetByID(id string) (*inventory.Product, error) {
	var p inventory.Product
	err := r.db.Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) ListByCompany(companyID, category string) ([]*inventory.Product, error) {
	var products []*inventory.Product
	q := r.db.Where("company_id = ?", companyID)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	err := q.Order("name ASC").Find(&products).Error
	return products, err
}

func (r *ProductRepository) ListLowStock(companyID string, threshold int) ([]*inventory.Product, error) {
	var products []*inventory.Product
	err := r.db.
		Where("company_id = ? AND stock <= ?", companyID, threshold).
		Order("stock ASC").
		Find(&products).Error
	return products, err
}

func (r *ProductRepository) Update(p *inventory.Product) error {
	defer metrics.TrackDBOperation("update_product")(time.Now())
	return r.db.Save(p).Error
}

func (r *ProductRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&inventory.Product{}).Error
}

// Stats aggregates in a single scan plus a filtered count. AVG over an empty
// set is NULL, hence the COALESCE.
func (r *ProductRepository) Stats(companyID string, threshold int) (*inventory.Stats, error) {
	stats := &inventory.Stats{CompanyID: companyID}

	row := r.db.Model(&inventory.Product{}).
		Select("COUNT(*), COALESCE(SUM(stock), 0), COALESCE(AVG(price), 0)").
		Where("company_id = ?", companyID).
		Row()
	if err := row.Scan(&stats.TotalProducts, &stats.TotalStock, &stats.AveragePrice); err != nil {
		return nil, err
	}

	if err := r.db.Model(&inventory.Product{}).
		Where("company_id = ? AND stock <= ?", companyID, threshold).
		Count(&stats.LowStockProducts).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *ProductRepository) IsDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
