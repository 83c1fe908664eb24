package company

import (
	"time"
)

// Company is a tenant: the unit of data isolation. Every tenant-scoped
// entity carries exactly one company reference.
type Company struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Slug        string    `json:"slug" gorm:"column:slug;uniqueIndex;not null"`
	Name        string    `json:"name" gorm:"column:name;not null"`
	Description string    `json:"description" gorm:"column:description"`
	Logo        string    `json:"logo" gorm:"column:logo"`
	IsActive    bool      `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Company) TableName() string {
	return "companies"
}

func (c *Company) Deactivate() {
	c.IsActive = false
	c.UpdatedAt = time.Now()
}

// Stats are the per-company entity counts shown on the dashboard.
type Stats struct {
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
	Users     int64  `json:"users"`
	Products  int64  `json:"products"`
	Vehicles  int64  `json:"vehicles"`
	Orders    int64  `json:"orders"`
}
