package models

import "time"

// Enrollment records that a student takes a course. The (student, course)
// pair is unique.
type Enrollment struct {
	ID         string    `db:"id" json:"id"`
	StudentID  string    `db:"student_id" json:"student_id"`
	CourseID   string    `db:"course_id" json:"course_id"`
	EnrolledAt time.Time `db:"enrolled_at" json:"enrolled_at"`
}

// RosterEntry is an enrollment joined with student identity for course
// roster reads.
type RosterEntry struct {
	Enrollment
	StudentName  string  `db:"student_name" json:"student_name"`
	StudentEmail string  `db:"student_email" json:"student_email"`
	Major        string  `db:"major" json:"major"`
	ClassName    string  `db:"class_name" json:"class_name"`
	Status       *string `db:"student_status" json:"student_status,omitempty"`
}
