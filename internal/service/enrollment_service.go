package service

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/goliter/classsight-api/internal/models"
	appErrors "github.com/goliter/classsight-api/pkg/errors"
)

type enrollmentRepository interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.RosterEntry, error)
	Exists(ctx context.Context, studentID, courseID string) (bool, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Delete(ctx context.Context, studentID, courseID string) (bool, error)
	ListCoursesByStudent(ctx context.Context, studentID string) ([]models.CourseDetail, error)
	ListCoursesByTeacher(ctx context.Context, teacherID string) ([]models.CourseDetail, error)
}

type studentReader interface {
	Exists(ctx context.Context, studentID string) (bool, error)
}

type courseReader interface {
	FindByID(ctx context.Context, id string) (*models.CourseDetail, error)
}

// EnrollmentService manages the (student, course) membership relation.
type EnrollmentService struct {
	repo     enrollmentRepository
	students studentReader
	courses  courseReader
	logger   *zap.Logger
}

// NewEnrollmentService constructs the enrollment service.
func NewEnrollmentService(repo enrollmentRepository, students studentReader, courses courseReader, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, students: students, courses: courses, logger: logger}
}

// Roster returns the enrolled students of a course.
func (s *EnrollmentService) Roster(ctx context.Context, courseID string) ([]models.RosterEntry, error) {
	if err := s.checkCourse(ctx, courseID); err != nil {
		return nil, err
	}
	roster, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	return roster, nil
}

// Enroll adds a student to a course. Enrolling the same pair twice is a
// conflict, unknown students or courses are not found.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID, courseID string) (*models.Enrollment, error) {
	exists, err := s.students.Exists(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate student")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	if err := s.checkCourse(ctx, courseID); err != nil {
		return nil, err
	}

	enrolled, err := s.repo.Exists(ctx, studentID, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if enrolled {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student already enrolled in course")
	}

	enrollment := &models.Enrollment{StudentID: studentID, CourseID: courseID}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll student")
	}
	s.logger.Info("student enrolled",
		zap.String("student_id", studentID),
		zap.String("course_id", courseID),
	)
	return enrollment, nil
}

// Unenroll removes a student from a course. A pair that was never enrolled
// is not found.
func (s *EnrollmentService) Unenroll(ctx context.Context, studentID, courseID string) error {
	removed, err := s.repo.Delete(ctx, studentID, courseID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unenroll student")
	}
	if !removed {
		return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
	}
	s.logger.Info("student unenrolled",
		zap.String("student_id", studentID),
		zap.String("course_id", courseID),
	)
	return nil
}

// CoursesByStudent returns the courses a student is enrolled in.
func (s *EnrollmentService) CoursesByStudent(ctx context.Context, studentID string) ([]models.CourseDetail, error) {
	exists, err := s.students.Exists(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate student")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	courses, err := s.repo.ListCoursesByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list student courses")
	}
	return courses, nil
}

// CoursesByTeacher returns the courses assigned to a teacher.
func (s *EnrollmentService) CoursesByTeacher(ctx context.Context, teacherID string) ([]models.CourseDetail, error) {
	courses, err := s.repo.ListCoursesByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teacher courses")
	}
	return courses, nil
}

func (s *EnrollmentService) checkCourse(ctx context.Context, courseID string) error {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return nil
}
