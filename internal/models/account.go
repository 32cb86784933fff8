package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// UserRole identifies which login population an account belongs to.
type UserRole string

const (
	RoleStudent UserRole = "STUDENT"
	RoleTeacher UserRole = "TEACHER"
	RoleAdmin   UserRole = "ADMIN"
)

// Valid reports whether the role is one of the known populations.
func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// RoleCode accepts the legacy numeric role codes (1=student, 2=teacher,
// 3=admin) as well as string role names in JSON payloads.
type RoleCode struct {
	role UserRole
}

// NewRoleCode wraps a role name for request construction.
func NewRoleCode(role UserRole) RoleCode {
	return RoleCode{role: role}
}

// UnmarshalJSON decodes either a number or a string into a role.
func (rc *RoleCode) UnmarshalJSON(raw []byte) error {
	var code int
	if err := json.Unmarshal(raw, &code); err == nil {
		switch code {
		case 1:
			rc.role = RoleStudent
		case 2:
			rc.role = RoleTeacher
		case 3:
			rc.role = RoleAdmin
		default:
			return fmt.Errorf("unknown role code %d", code)
		}
		return nil
	}

	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return fmt.Errorf("role must be a code or a name")
	}
	role := UserRole(strings.ToUpper(strings.TrimSpace(name)))
	if !role.Valid() {
		return fmt.Errorf("unknown role %q", name)
	}
	rc.role = role
	return nil
}

// MarshalJSON renders the role name.
func (rc RoleCode) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(rc.role))
}

// Role returns the decoded role, empty when unset.
func (rc RoleCode) Role() UserRole {
	return rc.role
}

// Account is a login credential row. The account column holds the business
// key of the matching student/teacher record, or an admin login name.
type Account struct {
	ID           string    `db:"id" json:"id"`
	Account      string    `db:"account" json:"account"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
