package models

import "time"

// StudentStatus tracks a student's standing.
type StudentStatus string

const (
	StudentStatusActive    StudentStatus = "active"
	StudentStatusSuspended StudentStatus = "suspended"
	StudentStatusGraduated StudentStatus = "graduated"
)

// Student is keyed by its business student ID rather than a surrogate key.
type Student struct {
	StudentID      string        `db:"student_id" json:"student_id"`
	FullName       string        `db:"full_name" json:"full_name"`
	DepartmentID   *string       `db:"department_id" json:"department_id,omitempty"`
	Major          string        `db:"major" json:"major"`
	Grade          string        `db:"grade" json:"grade"`
	ClassName      string        `db:"class_name" json:"class_name"`
	Email          string        `db:"email" json:"email"`
	Phone          string        `db:"phone" json:"phone"`
	EnrollmentDate *time.Time    `db:"enrollment_date" json:"enrollment_date,omitempty"`
	Status         StudentStatus `db:"status" json:"status"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at" json:"updated_at"`
}

// StudentFilter encapsulates search parameters for listing students.
type StudentFilter struct {
	Search       string
	DepartmentID string
	Status       string
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}

// StudentDetail joins the owning department name for read responses.
type StudentDetail struct {
	Student
	DepartmentName *string `db:"department_name" json:"department_name,omitempty"`
}
