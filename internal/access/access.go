package access

import (
	"time"

	internal "github.com/grupomivyca/mivyca-backend/internal"
)

// Role is the privilege a user holds inside one company. Every row of the
// company_access junction is independently authoritative: SUPER_ADMIN in one
// company grants nothing in another.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleManager    Role = "MANAGER"
	RoleSupervisor Role = "SUPERVISOR"
	RoleUser       Role = "USER"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleSuperAdmin, RoleAdmin, RoleManager, RoleSupervisor, RoleUser:
		return Role(s), true
	}
	return "", false
}

// CompanyAccess links one user to one company with a role. The
// (user, company) pair is unique: changing role is an update, never a new
// row. Rows are soft-removed via IsActive so grant history survives.
type CompanyAccess struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"column:user_id;type:varchar(36);not null;uniqueIndex:idx_user_company"`
	CompanyID string    `json:"company_id" gorm:"column:company_id;type:varchar(36);not null;uniqueIndex:idx_user_company"`
	Role      Role      `json:"role" gorm:"column:role;type:varchar(20);not null"`
	IsActive  bool      `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (CompanyAccess) TableName() string {
	return "company_access"
}

// Action names one thing a caller may do inside a company context.
type Action string

const (
	ActionManageCompany Action = "manage_company"
	ActionManageUsers   Action = "manage_users"
	ActionManageAccess  Action = "manage_access"
	ActionWriteResource Action = "write_resource"
	ActionReadResource  Action = "read_resource"
	ActionViewStats     Action = "view_stats"
)

// rolePermissions is the single source of truth for role checks. Endpoints
// consult Can instead of comparing role names ad hoc.
var rolePermissions = map[Role][]Action{
	RoleSuperAdmin: {
		ActionManageCompany, ActionManageUsers, ActionManageAccess,
		ActionWriteResource, ActionReadResource, ActionViewStats,
	},
	RoleAdmin: {
		ActionManageCompany, ActionManageUsers, ActionManageAccess,
		ActionWriteResource, ActionReadResource, ActionViewStats,
	},
	RoleManager: {
		ActionWriteResource, ActionReadResource, ActionViewStats,
	},
	RoleSupervisor: {
		ActionReadResource, ActionViewStats,
	},
	RoleUser: {
		ActionReadResource,
	},
}

// Can reports whether a role is allowed to perform an action. Unknown roles
// can do nothing.
func Can(role Role, action Action) bool {
	for _, a := range rolePermissions[role] {
		if a == action {
			return true
		}
	}
	return false
}

// Require is the service-side entry point to the matrix: it maps a missing
// principal to the authentication error and a disallowed action to the
// insufficient-role error.
func Require(principal *internal.Principal, action Action) error {
	if principal == nil {
		return internal.ErrNotAuthenticated
	}
	if !Can(Role(principal.Role), action) {
		return internal.ErrInsufficientRole
	}
	return nil
}
