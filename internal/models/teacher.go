package models

import "time"

// TeacherStatus tracks a teacher's employment standing.
type TeacherStatus string

const (
	TeacherStatusActive   TeacherStatus = "active"
	TeacherStatusOnLeave  TeacherStatus = "on_leave"
	TeacherStatusResigned TeacherStatus = "resigned"
)

// Teacher is keyed by its business teacher ID.
type Teacher struct {
	TeacherID    string        `db:"teacher_id" json:"teacher_id"`
	FullName     string        `db:"full_name" json:"full_name"`
	DepartmentID *string       `db:"department_id" json:"department_id,omitempty"`
	Rank         string        `db:"rank" json:"rank"`
	Email        string        `db:"email" json:"email"`
	Phone        string        `db:"phone" json:"phone"`
	Office       string        `db:"office" json:"office"`
	HireDate     *time.Time    `db:"hire_date" json:"hire_date,omitempty"`
	Status       TeacherStatus `db:"status" json:"status"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}

// TeacherFilter encapsulates search parameters for listing teachers.
type TeacherFilter struct {
	Search       string
	DepartmentID string
	Status       string
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}

// TeacherDetail joins the owning department name for read responses.
type TeacherDetail struct {
	Teacher
	DepartmentName *string `db:"department_name" json:"department_name,omitempty"`
}
