package user

import (
	"time"
)

// User is a global identity. It is not itself scoped to a company: company
// membership lives in the company_access junction, one row per (user,
// company) pair.
type User struct {
	ID               string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email            string    `json:"email" gorm:"column:email;uniqueIndex;not null"`
	PasswordHash     string    `json:"-" gorm:"column:password_hash;not null"`
	FirstName        string    `json:"first_name" gorm:"column:first_name;not null"`
	LastName         string    `json:"last_name" gorm:"column:last_name;not null"`
	IsActive         bool      `json:"is_active" gorm:"column:is_active;default:true"`
	EmailVerified    bool      `json:"email_verified" gorm:"column:email_verified;default:false"`
	DefaultCompanyID *string   `json:"default_company_id,omitempty" gorm:"column:default_company_id;type:varchar(36)"`
	CreatedAt        time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt        time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (u *User) Deactivate() {
	u.IsActive = false
	u.UpdatedAt = time.Now()
}
