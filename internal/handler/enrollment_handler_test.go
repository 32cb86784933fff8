package handler

import (
	"bytes"
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliter/classsight-api/internal/models"
	"github.com/goliter/classsight-api/internal/service"
)

type fakeEnrollmentRepo struct {
	pairs map[string]bool
}

func pairKey(studentID, courseID string) string { return studentID + "|" + courseID }

func (f *fakeEnrollmentRepo) ListByCourse(ctx context.Context, courseID string) ([]models.RosterEntry, error) {
	return nil, nil
}

func (f *fakeEnrollmentRepo) Exists(ctx context.Context, studentID, courseID string) (bool, error) {
	return f.pairs[pairKey(studentID, courseID)], nil
}

func (f *fakeEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	f.pairs[pairKey(enrollment.StudentID, enrollment.CourseID)] = true
	return nil
}

func (f *fakeEnrollmentRepo) Delete(ctx context.Context, studentID, courseID string) (bool, error) {
	key := pairKey(studentID, courseID)
	if !f.pairs[key] {
		return false, nil
	}
	delete(f.pairs, key)
	return true, nil
}

func (f *fakeEnrollmentRepo) ListCoursesByStudent(ctx context.Context, studentID string) ([]models.CourseDetail, error) {
	return nil, nil
}

func (f *fakeEnrollmentRepo) ListCoursesByTeacher(ctx context.Context, teacherID string) ([]models.CourseDetail, error) {
	return nil, nil
}

type fakeStudentReader struct{ ids map[string]bool }

func (f *fakeStudentReader) Exists(ctx context.Context, studentID string) (bool, error) {
	return f.ids[studentID], nil
}

type fakeCourseReader struct{ ids map[string]bool }

func (f *fakeCourseReader) FindByID(ctx context.Context, id string) (*models.CourseDetail, error) {
	if f.ids[id] {
		return &models.CourseDetail{Course: models.Course{ID: id}}, nil
	}
	return nil, sql.ErrNoRows
}

func newEnrollmentHandlerFixture() (*EnrollmentHandler, *fakeEnrollmentRepo) {
	repo := &fakeEnrollmentRepo{pairs: make(map[string]bool)}
	students := &fakeStudentReader{ids: map[string]bool{"S001": true}}
	courses := &fakeCourseReader{ids: map[string]bool{"course-1": true}}
	svc := service.NewEnrollmentService(repo, students, courses, nil)
	return NewEnrollmentHandler(svc, nil), repo
}

func TestEnrollmentHandlerEnroll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo := newEnrollmentHandlerFixture()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/courses/course-1/students", bytes.NewBufferString(`{"student_id":"S001"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "course-1"}}

	handler.Enroll(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, repo.pairs[pairKey("S001", "course-1")])
}

func TestEnrollmentHandlerEnrollMissingStudentID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newEnrollmentHandlerFixture()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/courses/course-1/students", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "course-1"}}

	handler.Enroll(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEnrollmentHandlerEnrollDuplicate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo := newEnrollmentHandlerFixture()
	repo.pairs[pairKey("S001", "course-1")] = true

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/courses/course-1/students", bytes.NewBufferString(`{"student_id":"S001"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "course-1"}}

	handler.Enroll(c)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestEnrollmentHandlerEnrollUnknownCourse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newEnrollmentHandlerFixture()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/courses/ghost/students", bytes.NewBufferString(`{"student_id":"S001"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "ghost"}}

	handler.Enroll(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestEnrollmentHandlerUnenroll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo := newEnrollmentHandlerFixture()
	repo.pairs[pairKey("S001", "course-1")] = true

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/courses/course-1/students/S001", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "course-1"}, {Key: "studentId", Value: "S001"}}

	handler.Unenroll(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, repo.pairs)
}

func TestEnrollmentHandlerUnenrollMissingPair(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newEnrollmentHandlerFixture()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/courses/course-1/students/S001", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "course-1"}, {Key: "studentId", Value: "S001"}}

	handler.Unenroll(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}
