package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliter/classsight-api/internal/models"
	appErrors "github.com/goliter/classsight-api/pkg/errors"
)

type mockStudentRepo struct {
	students    map[string]*models.Student
	enrollments map[string]int
	deleted     []string
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{
		students:    make(map[string]*models.Student),
		enrollments: make(map[string]int),
	}
}

func (m *mockStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error) {
	var list []models.StudentDetail
	for _, s := range m.students {
		list = append(list, models.StudentDetail{Student: *s})
	}
	return list, len(list), nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, studentID string) (*models.StudentDetail, error) {
	if s, ok := m.students[studentID]; ok {
		return &models.StudentDetail{Student: *s}, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) Exists(ctx context.Context, studentID string) (bool, error) {
	_, ok := m.students[studentID]
	return ok, nil
}

func (m *mockStudentRepo) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	for _, s := range m.students {
		if s.Email == email && s.StudentID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	m.students[student.StudentID] = student
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	m.students[student.StudentID] = student
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, studentID string) error {
	delete(m.students, studentID)
	m.deleted = append(m.deleted, studentID)
	return nil
}

func (m *mockStudentRepo) CountEnrollments(ctx context.Context, studentID string) (int, error) {
	return m.enrollments[studentID], nil
}

type mockDepartmentReader struct {
	ids map[string]bool
}

func (m *mockDepartmentReader) FindByID(ctx context.Context, id string) (*models.Department, error) {
	if m.ids[id] {
		return &models.Department{ID: id}, nil
	}
	return nil, sql.ErrNoRows
}

func newStudentFixture() (*StudentService, *mockStudentRepo) {
	repo := newMockStudentRepo()
	departments := &mockDepartmentReader{ids: map[string]bool{"dept-cs": true}}
	return NewStudentService(repo, departments, nil, nil), repo
}

func TestStudentCreateDefaultsToActive(t *testing.T) {
	svc, _ := newStudentFixture()

	student, err := svc.Create(context.Background(), CreateStudentRequest{StudentID: "S001", FullName: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, models.StudentStatusActive, student.Status)
}

func TestStudentCreateDuplicateIDIsConflict(t *testing.T) {
	svc, _ := newStudentFixture()

	_, err := svc.Create(context.Background(), CreateStudentRequest{StudentID: "S001", FullName: "Ada"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateStudentRequest{StudentID: "S001", FullName: "Grace"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestStudentCreateDuplicateEmailIsConflict(t *testing.T) {
	svc, _ := newStudentFixture()

	_, err := svc.Create(context.Background(), CreateStudentRequest{StudentID: "S001", FullName: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateStudentRequest{StudentID: "S002", FullName: "Grace", Email: "ada@example.com"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestStudentCreateUnknownDepartmentIsNotFound(t *testing.T) {
	svc, _ := newStudentFixture()

	dept := "dept-ghost"
	_, err := svc.Create(context.Background(), CreateStudentRequest{StudentID: "S001", FullName: "Ada", DepartmentID: &dept})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestStudentCreateInvalidStatus(t *testing.T) {
	svc, _ := newStudentFixture()

	_, err := svc.Create(context.Background(), CreateStudentRequest{StudentID: "S001", FullName: "Ada", Status: "expelled"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStudentUpdateRoundTrip(t *testing.T) {
	svc, _ := newStudentFixture()

	_, err := svc.Create(context.Background(), CreateStudentRequest{StudentID: "S001", FullName: "Ada"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), "S001", UpdateStudentRequest{
		FullName: "Ada Lovelace",
		Major:    "Mathematics",
		Status:   "graduated",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", updated.FullName)
	assert.Equal(t, models.StudentStatusGraduated, updated.Status)

	found, err := svc.Get(context.Background(), "S001")
	require.NoError(t, err)
	assert.Equal(t, "Mathematics", found.Major)
}

func TestStudentDeleteRestrictedWhileEnrolled(t *testing.T) {
	svc, repo := newStudentFixture()

	_, err := svc.Create(context.Background(), CreateStudentRequest{StudentID: "S001", FullName: "Ada"})
	require.NoError(t, err)
	repo.enrollments["S001"] = 2

	err = svc.Delete(context.Background(), "S001")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.deleted)
}

func TestStudentDeleteThenGetIsNotFound(t *testing.T) {
	svc, _ := newStudentFixture()

	_, err := svc.Create(context.Background(), CreateStudentRequest{StudentID: "S001", FullName: "Ada"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "S001"))
	_, err = svc.Get(context.Background(), "S001")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
