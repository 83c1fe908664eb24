package postgres

import (
	"errors"
	"time"

	"github.com/grupomivyca/mivyca-backend/internal/metrics"
	"github.com/grupomivyca/mivyca-backend/internal/orders"
	"gorm.io/gorm"
)

// OrderRepository implements orders.Repository using GORM. The model's
// gorm.DeletedAt field makes every query skip soft-deleted rows and turns
// Delete into an update.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) orders.Repository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(o *orders.Order) error {
	defer metrics.TrackDBOperation("insert_order")(time.Now())
	return r.db.Create(o).Error
}

func (r *OrderRepository) GetByID(id string) (*orders.Order, error) {
	var o orders.Order
	err := r.db.Where("id = ?", id).First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) ListByCompany(companyID string, status orders.OrderStatus) ([]*orders.Order, error) {
	var list []*orders.Order
	q := r.db.Where("company_id = ?", companyID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *OrderRepository) Update(o *orders.Order) error {
	defer metrics.TrackDBOperation("update_order")(time.Now())
	return r.db.Save(o).Error
}

func (r *OrderRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&orders.Order{}).Error
}

// Stats groups live orders by status and derives the totals from the
// grouped rows.
func (r *OrderRepository) Stats(companyID string) (*orders.Stats, error) {
	stats := &orders.Stats{
		CompanyID:      companyID,
		OrdersByStatus: []orders.StatusCount{},
	}

	var rows []orders.StatusCount
	err := r.db.Model(&orders.Order{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total), 0) AS total").
		Where("company_id = ?", companyID).
		Group("status").
		Order("status ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		stats.TotalOrders += row.Count
		stats.TotalRevenue += row.Total
	}
	if rows != nil {
		stats.OrdersByStatus = rows
	}

	return stats, nil
}

func (r *OrderRepository) IsDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
