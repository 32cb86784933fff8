package models

import "time"

// CourseStatus tracks whether a course is open for enrollment.
type CourseStatus string

const (
	CourseStatusActive   CourseStatus = "active"
	CourseStatusInactive CourseStatus = "inactive"
	CourseStatusPending  CourseStatus = "pending"
)

// Course is an offering taught by exactly one teacher.
type Course struct {
	ID           string       `db:"id" json:"id"`
	Code         string       `db:"code" json:"code"`
	Name         string       `db:"name" json:"name"`
	Description  string       `db:"description" json:"description"`
	Credits      int          `db:"credits" json:"credits"`
	TeacherID    string       `db:"teacher_id" json:"teacher_id"`
	DepartmentID string       `db:"department_id" json:"department_id"`
	Status       CourseStatus `db:"status" json:"status"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}

// ScheduleSlot is one weekly meeting of a course.
type ScheduleSlot struct {
	ID        string `db:"id" json:"id"`
	CourseID  string `db:"course_id" json:"-"`
	DayOfWeek string `db:"day_of_week" json:"day_of_week"`
	TimeRange string `db:"time_range" json:"time_range"`
	Location  string `db:"location" json:"location"`
}

// CourseFilter encapsulates search parameters for listing courses.
type CourseFilter struct {
	Search       string
	TeacherID    string
	DepartmentID string
	Status       string
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}

// CourseDetail joins teacher and department names and computes the roster
// size at read time; the count is never stored.
type CourseDetail struct {
	Course
	TeacherName    *string        `db:"teacher_name" json:"teacher_name,omitempty"`
	DepartmentName *string        `db:"department_name" json:"department_name,omitempty"`
	StudentCount   int            `db:"student_count" json:"student_count"`
	Schedule       []ScheduleSlot `json:"schedule,omitempty"`
}
