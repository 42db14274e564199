package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"
	RoleHR       UserRole = "HR"
	RoleManager  UserRole = "MANAGER"
	RoleEmployee UserRole = "EMPLOYEE"
)

// User represents an employee record in the users table. Manager assignments
// drive approver resolution when a request is created.
type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	Role         UserRole   `db:"role" json:"role"`
	ManagerID    *string    `db:"manager_id" json:"manager_id,omitempty"`
	Manager2ID   *string    `db:"manager2_id" json:"manager2_id,omitempty"`
	DepartmentID *string    `db:"department_id" json:"department_id,omitempty"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role      *UserRole
	Active    *bool
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// IsApprover reports whether the role may act on the manager tier.
func (r UserRole) IsApprover() bool {
	return r == RoleManager || r == RoleAdmin || r == RoleHR
}

// IsAdministrative reports whether the role may act on the final tier.
func (r UserRole) IsAdministrative() bool {
	return r == RoleAdmin || r == RoleHR
}
