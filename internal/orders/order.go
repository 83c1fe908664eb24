package orders

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusConfirmed  OrderStatus = "CONFIRMED"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusDelivered, StatusCancelled:
		return OrderStatus(s), true
	}
	return "", false
}

// transitions is the closed set of legal status moves. Cancellation is
// allowed from any non-terminal state; DELIVERED and CANCELLED are terminal.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusDelivered, StatusCancelled},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Order is a tenant-scoped customer order. OrderNumber is unique within a
// company. Orders soft-delete: cancelled history keeps its revenue trail.
type Order struct {
	ID            string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CompanyID     string         `json:"company_id" gorm:"column:company_id;type:varchar(36);uniqueIndex:idx_company_order_number;not null"`
	OrderNumber   string         `json:"order_number" gorm:"column:order_number;uniqueIndex:idx_company_order_number;not null"`
	Status        OrderStatus    `json:"status" gorm:"column:status;type:varchar(20);not null;default:PENDING"`
	Total         float64        `json:"total" gorm:"column:total;not null"`
	CustomerName  string         `json:"customer_name" gorm:"column:customer_name;not null"`
	CustomerEmail string         `json:"customer_email" gorm:"column:customer_email"`
	CustomerPhone string         `json:"customer_phone" gorm:"column:customer_phone"`
	Notes         string         `json:"notes" gorm:"column:notes"`
	CreatedAt     time.Time      `json:"created_at" gorm:"column:created_at"`
	UpdatedAt     time.Time      `json:"updated_at" gorm:"column:updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"column:deleted_at;index"`
}

func (Order) TableName() string {
	return "orders"
}

func (o *Order) IsTerminal() bool {
	return o.Status == StatusDelivered || o.Status == StatusCancelled
}

// StatusCount is one cell of the by-status breakdown.
type StatusCount struct {
	Status OrderStatus `json:"status"`
	Count  int64       `json:"count"`
	Total  float64     `json:"total"`
}

// Stats summarizes one company's orders. TotalRevenue sums order totals
// across every status, cancelled included.
type Stats struct {
	CompanyID      string        `json:"company_id"`
	TotalOrders    int64         `json:"total_orders"`
	TotalRevenue   float64       `json:"total_revenue"`
	OrdersByStatus []StatusCount `json:"orders_by_status"`
}
