package models

import "time"

// Department groups teachers, students and courses under one faculty unit.
type Department struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Code        string    `db:"code" json:"code"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// DepartmentFilter encapsulates search parameters for listing departments.
type DepartmentFilter struct {
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// DepartmentUsage counts the rows that still reference a department.
type DepartmentUsage struct {
	Students int `db:"students"`
	Teachers int `db:"teachers"`
	Courses  int `db:"courses"`
}

// Empty reports whether the department has no dependents.
func (u DepartmentUsage) Empty() bool {
	return u.Students == 0 && u.Teachers == 0 && u.Courses == 0
}
