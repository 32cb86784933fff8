package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliter/classsight-api/internal/models"
	appErrors "github.com/goliter/classsight-api/pkg/errors"
)

type mockEnrollmentRepo struct {
	pairs   map[string]models.Enrollment
	created *models.Enrollment
}

func pairKey(studentID, courseID string) string {
	return studentID + "|" + courseID
}

func (m *mockEnrollmentRepo) ListByCourse(ctx context.Context, courseID string) ([]models.RosterEntry, error) {
	var roster []models.RosterEntry
	for _, e := range m.pairs {
		if e.CourseID == courseID {
			roster = append(roster, models.RosterEntry{Enrollment: e, StudentName: "Student " + e.StudentID})
		}
	}
	return roster, nil
}

func (m *mockEnrollmentRepo) Exists(ctx context.Context, studentID, courseID string) (bool, error) {
	_, ok := m.pairs[pairKey(studentID, courseID)]
	return ok, nil
}

func (m *mockEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if m.pairs == nil {
		m.pairs = make(map[string]models.Enrollment)
	}
	if enrollment.ID == "" {
		enrollment.ID = "enroll-1"
	}
	if enrollment.EnrolledAt.IsZero() {
		enrollment.EnrolledAt = time.Now()
	}
	m.pairs[pairKey(enrollment.StudentID, enrollment.CourseID)] = *enrollment
	m.created = enrollment
	return nil
}

func (m *mockEnrollmentRepo) Delete(ctx context.Context, studentID, courseID string) (bool, error) {
	key := pairKey(studentID, courseID)
	if _, ok := m.pairs[key]; !ok {
		return false, nil
	}
	delete(m.pairs, key)
	return true, nil
}

func (m *mockEnrollmentRepo) ListCoursesByStudent(ctx context.Context, studentID string) ([]models.CourseDetail, error) {
	var courses []models.CourseDetail
	for _, e := range m.pairs {
		if e.StudentID == studentID {
			courses = append(courses, models.CourseDetail{Course: models.Course{ID: e.CourseID}})
		}
	}
	return courses, nil
}

func (m *mockEnrollmentRepo) ListCoursesByTeacher(ctx context.Context, teacherID string) ([]models.CourseDetail, error) {
	return nil, nil
}

type mockStudentReader struct {
	ids map[string]bool
}

func (m *mockStudentReader) Exists(ctx context.Context, studentID string) (bool, error) {
	return m.ids[studentID], nil
}

type mockCourseReader struct {
	courses map[string]*models.CourseDetail
}

func (m *mockCourseReader) FindByID(ctx context.Context, id string) (*models.CourseDetail, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

func newEnrollmentFixture() (*EnrollmentService, *mockEnrollmentRepo) {
	repo := &mockEnrollmentRepo{}
	students := &mockStudentReader{ids: map[string]bool{"S001": true, "S002": true}}
	courses := &mockCourseReader{courses: map[string]*models.CourseDetail{
		"course-1": {Course: models.Course{ID: "course-1", Code: "CS101"}},
	}}
	return NewEnrollmentService(repo, students, courses, nil), repo
}

func TestEnrollCreatesPair(t *testing.T) {
	svc, repo := newEnrollmentFixture()

	enrollment, err := svc.Enroll(context.Background(), "S001", "course-1")
	require.NoError(t, err)
	assert.Equal(t, "S001", enrollment.StudentID)
	assert.Equal(t, "course-1", enrollment.CourseID)
	assert.False(t, enrollment.EnrolledAt.IsZero())
	require.NotNil(t, repo.created)
}

func TestEnrollDuplicateIsConflict(t *testing.T) {
	svc, _ := newEnrollmentFixture()

	_, err := svc.Enroll(context.Background(), "S001", "course-1")
	require.NoError(t, err)

	_, err = svc.Enroll(context.Background(), "S001", "course-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestEnrollUnknownStudentIsNotFound(t *testing.T) {
	svc, _ := newEnrollmentFixture()

	_, err := svc.Enroll(context.Background(), "ghost", "course-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestEnrollUnknownCourseIsNotFound(t *testing.T) {
	svc, _ := newEnrollmentFixture()

	_, err := svc.Enroll(context.Background(), "S001", "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestUnenrollMissingPairIsNotFound(t *testing.T) {
	svc, _ := newEnrollmentFixture()

	err := svc.Unenroll(context.Background(), "S001", "course-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestUnenrollRemovesPair(t *testing.T) {
	svc, repo := newEnrollmentFixture()

	_, err := svc.Enroll(context.Background(), "S002", "course-1")
	require.NoError(t, err)

	require.NoError(t, svc.Unenroll(context.Background(), "S002", "course-1"))
	assert.Empty(t, repo.pairs)
}

func TestRosterUnknownCourseIsNotFound(t *testing.T) {
	svc, _ := newEnrollmentFixture()

	_, err := svc.Roster(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCoursesByStudent(t *testing.T) {
	svc, _ := newEnrollmentFixture()

	_, err := svc.Enroll(context.Background(), "S001", "course-1")
	require.NoError(t, err)

	courses, err := svc.CoursesByStudent(context.Background(), "S001")
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "course-1", courses[0].ID)
}
