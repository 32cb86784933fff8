package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/goliter/classsight-api/internal/models"
)

// StatsRepository computes dashboard aggregations from live rows.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository constructs a StatsRepository.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

type overviewCounts struct {
	Departments int `db:"departments"`
	Students    int `db:"students"`
	Teachers    int `db:"teachers"`
	Courses     int `db:"courses"`
	Enrollments int `db:"enrollments"`
}

// Overview returns entity counts and status distributions.
func (r *StatsRepository) Overview(ctx context.Context) (*models.DashboardOverview, error) {
	const countsQuery = `SELECT
        (SELECT COUNT(*) FROM departments) AS departments,
        (SELECT COUNT(*) FROM students) AS students,
        (SELECT COUNT(*) FROM teachers) AS teachers,
        (SELECT COUNT(*) FROM courses) AS courses,
        (SELECT COUNT(*) FROM enrollments) AS enrollments`
	var counts overviewCounts
	if err := r.db.GetContext(ctx, &counts, countsQuery); err != nil {
		return nil, fmt.Errorf("overview counts: %w", err)
	}

	courseStatuses, err := r.statusCounts(ctx, "SELECT status, COUNT(*) AS count FROM courses GROUP BY status")
	if err != nil {
		return nil, err
	}
	studentStatuses, err := r.statusCounts(ctx, "SELECT status, COUNT(*) AS count FROM students GROUP BY status")
	if err != nil {
		return nil, err
	}

	return &models.DashboardOverview{
		Departments:     counts.Departments,
		Students:        counts.Students,
		Teachers:        counts.Teachers,
		Courses:         counts.Courses,
		Enrollments:     counts.Enrollments,
		CoursesByStatus: courseStatuses,
		StudentsByState: studentStatuses,
	}, nil
}

// DepartmentBreakdown returns per-department population counts.
func (r *StatsRepository) DepartmentBreakdown(ctx context.Context) ([]models.DepartmentBreakdown, error) {
	const query = `SELECT d.id AS department_id, d.name AS department_name, d.code,
        (SELECT COUNT(*) FROM students s WHERE s.department_id = d.id) AS students,
        (SELECT COUNT(*) FROM teachers t WHERE t.department_id = d.id) AS teachers,
        (SELECT COUNT(*) FROM courses c WHERE c.department_id = d.id) AS courses
        FROM departments d
        ORDER BY d.name ASC`
	var breakdown []models.DepartmentBreakdown
	if err := r.db.SelectContext(ctx, &breakdown, query); err != nil {
		return nil, fmt.Errorf("department breakdown: %w", err)
	}
	return breakdown, nil
}

func (r *StatsRepository) statusCounts(ctx context.Context, query string) (map[string]int, error) {
	var rows []models.StatusCount
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("status counts: %w", err)
	}
	result := make(map[string]int, len(rows))
	for _, row := range rows {
		result[row.Status] = row.Count
	}
	return result, nil
}
