package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliter/classsight-api/internal/models"
	appErrors "github.com/goliter/classsight-api/pkg/errors"
)

type mockRosterReader struct {
	roster []models.RosterEntry
}

func (m *mockRosterReader) Roster(ctx context.Context, courseID string) ([]models.RosterEntry, error) {
	return m.roster, nil
}

type mockCourseGetter struct {
	courses map[string]*models.CourseDetail
}

func (m *mockCourseGetter) Get(ctx context.Context, id string) (*models.CourseDetail, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
}

func newExportFixture(roster []models.RosterEntry) *ExportService {
	enrollments := &mockRosterReader{roster: roster}
	courses := &mockCourseGetter{courses: map[string]*models.CourseDetail{
		"course-1": {Course: models.Course{ID: "course-1", Code: "CS101", Name: "Intro to Programming"}},
	}}
	return NewExportService(enrollments, courses, 100, "Course Roster", nil)
}

func sampleRoster() []models.RosterEntry {
	status := "active"
	return []models.RosterEntry{
		{
			Enrollment: models.Enrollment{
				ID:         "enroll-1",
				StudentID:  "S001",
				CourseID:   "course-1",
				EnrolledAt: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
			},
			StudentName:  "Ada Lovelace",
			StudentEmail: "ada@example.com",
			Major:        "Mathematics",
			ClassName:    "CS-1A",
			Status:       &status,
		},
	}
}

func TestExportRosterCSV(t *testing.T) {
	svc := newExportFixture(sampleRoster())

	result, err := svc.Roster(context.Background(), "course-1", ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Equal(t, "roster_cs101.csv", result.Filename)

	content := string(result.Content)
	assert.True(t, strings.HasPrefix(content, "Student ID,Name,Email,Major,Class,Status,Enrolled At"))
	assert.Contains(t, content, "S001,Ada Lovelace,ada@example.com,Mathematics,CS-1A,active,2026-02-10")
}

func TestExportRosterPDF(t *testing.T) {
	svc := newExportFixture(sampleRoster())

	result, err := svc.Roster(context.Background(), "course-1", ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.Equal(t, "roster_cs101.pdf", result.Filename)
	assert.True(t, strings.HasPrefix(string(result.Content), "%PDF"))
}

func TestExportRosterUnknownFormat(t *testing.T) {
	svc := newExportFixture(sampleRoster())

	_, err := svc.Roster(context.Background(), "course-1", ExportFormat("xlsx"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportRosterUnknownCourse(t *testing.T) {
	svc := newExportFixture(nil)

	_, err := svc.Roster(context.Background(), "missing", ExportFormatCSV)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestExportRosterRowLimit(t *testing.T) {
	var roster []models.RosterEntry
	for i := 0; i < 101; i++ {
		roster = append(roster, sampleRoster()[0])
	}
	svc := newExportFixture(roster)

	_, err := svc.Roster(context.Background(), "course-1", ExportFormatCSV)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
