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

type mockCourseRepo struct {
	courses     map[string]*models.CourseDetail
	schedules   map[string][]models.ScheduleSlot
	enrollments map[string]int
	deleted     []string
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{
		courses:     make(map[string]*models.CourseDetail),
		schedules:   make(map[string][]models.ScheduleSlot),
		enrollments: make(map[string]int),
	}
}

func (m *mockCourseRepo) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, int, error) {
	var list []models.CourseDetail
	for _, c := range m.courses {
		list = append(list, *c)
	}
	return list, len(list), nil
}

func (m *mockCourseRepo) FindByID(ctx context.Context, id string) (*models.CourseDetail, error) {
	if c, ok := m.courses[id]; ok {
		detail := *c
		detail.Schedule = m.schedules[id]
		detail.StudentCount = m.enrollments[id]
		return &detail, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseRepo) ExistsByCode(ctx context.Context, code string, excludeID string) (bool, error) {
	for _, c := range m.courses {
		if c.Code == code && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course, schedule []models.ScheduleSlot) error {
	if course.ID == "" {
		course.ID = "course-" + course.Code
	}
	m.courses[course.ID] = &models.CourseDetail{Course: *course}
	m.schedules[course.ID] = schedule
	return nil
}

func (m *mockCourseRepo) Update(ctx context.Context, course *models.Course, schedule []models.ScheduleSlot) error {
	m.courses[course.ID] = &models.CourseDetail{Course: *course}
	m.schedules[course.ID] = schedule
	return nil
}

func (m *mockCourseRepo) Delete(ctx context.Context, id string) error {
	delete(m.courses, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockCourseRepo) CountEnrollments(ctx context.Context, courseID string) (int, error) {
	return m.enrollments[courseID], nil
}

type mockTeacherReader struct {
	ids map[string]bool
}

func (m *mockTeacherReader) Exists(ctx context.Context, teacherID string) (bool, error) {
	return m.ids[teacherID], nil
}

func newCourseFixture() (*CourseService, *mockCourseRepo) {
	repo := newMockCourseRepo()
	teachers := &mockTeacherReader{ids: map[string]bool{"T001": true}}
	departments := &mockDepartmentReader{ids: map[string]bool{"dept-cs": true}}
	return NewCourseService(repo, teachers, departments, nil, nil), repo
}

func validCourseRequest() CreateCourseRequest {
	return CreateCourseRequest{
		Code:         "CS101",
		Name:         "Intro to Programming",
		Credits:      3,
		TeacherID:    "T001",
		DepartmentID: "dept-cs",
		Schedule: []ScheduleSlotRequest{
			{DayOfWeek: "Monday", TimeRange: "08:00-09:40", Location: "A-101"},
		},
	}
}

func TestCourseCreateRoundTrip(t *testing.T) {
	svc, _ := newCourseFixture()

	course, err := svc.Create(context.Background(), validCourseRequest())
	require.NoError(t, err)
	assert.Equal(t, "CS101", course.Code)
	assert.Equal(t, models.CourseStatusPending, course.Status)
	require.Len(t, course.Schedule, 1)
	assert.Equal(t, "Monday", course.Schedule[0].DayOfWeek)
}

func TestCourseCreateDuplicateCodeIsConflict(t *testing.T) {
	svc, _ := newCourseFixture()

	_, err := svc.Create(context.Background(), validCourseRequest())
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), validCourseRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestCourseCreateUnknownTeacherIsNotFound(t *testing.T) {
	svc, _ := newCourseFixture()

	req := validCourseRequest()
	req.TeacherID = "T999"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCourseCreateUnknownDepartmentIsNotFound(t *testing.T) {
	svc, _ := newCourseFixture()

	req := validCourseRequest()
	req.DepartmentID = "dept-ghost"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCourseUpdateReplacesSchedule(t *testing.T) {
	svc, _ := newCourseFixture()

	created, err := svc.Create(context.Background(), validCourseRequest())
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, UpdateCourseRequest{
		Code:         "CS101",
		Name:         "Intro to Programming",
		Credits:      4,
		TeacherID:    "T001",
		DepartmentID: "dept-cs",
		Status:       "active",
		Schedule: []ScheduleSlotRequest{
			{DayOfWeek: "Tuesday", TimeRange: "10:00-11:40", Location: "B-202"},
			{DayOfWeek: "Thursday", TimeRange: "10:00-11:40", Location: "B-202"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Credits)
	assert.Equal(t, models.CourseStatusActive, updated.Status)
	require.Len(t, updated.Schedule, 2)
}

func TestCourseDeleteRestrictedWhileEnrolled(t *testing.T) {
	svc, repo := newCourseFixture()

	created, err := svc.Create(context.Background(), validCourseRequest())
	require.NoError(t, err)
	repo.enrollments[created.ID] = 5

	err = svc.Delete(context.Background(), created.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.deleted)
}

func TestCourseDeleteThenGetIsNotFound(t *testing.T) {
	svc, _ := newCourseFixture()

	created, err := svc.Create(context.Background(), validCourseRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	_, err = svc.Get(context.Background(), created.ID)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
