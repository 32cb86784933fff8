package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/goliter/classsight-api/internal/models"
)

// CourseRepository manages persistence for courses and their schedules.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

const courseDetailColumns = `c.id, c.code, c.name, c.description, c.credits, c.teacher_id, c.department_id, c.status, c.created_at, c.updated_at,
        t.full_name AS teacher_name, d.name AS department_name,
        (SELECT COUNT(*) FROM enrollments e WHERE e.course_id = c.id) AS student_count`

const courseDetailJoins = `FROM courses c
        LEFT JOIN teachers t ON t.teacher_id = c.teacher_id
        LEFT JOIN departments d ON d.id = c.department_id`

// List returns course details matching the provided filters.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, int, error) {
	base := courseDetailJoins
	var args []interface{}
	conditions := []string{"1=1"}

	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("c.teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.DepartmentID != "" {
		conditions = append(conditions, fmt.Sprintf("c.department_id = $%d", len(args)+1))
		args = append(args, filter.DepartmentID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("c.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(c.name) LIKE $%d OR LOWER(c.code) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	allowedSorts := map[string]string{
		"name":       "c.name",
		"code":       "c.code",
		"credits":    "c.credits",
		"created_at": "c.created_at",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "c.created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", courseDetailColumns, base, column, order, size, offset)

	var courses []models.CourseDetail
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}
	return courses, total, nil
}

// FindByID fetches a course detail including its schedule slots.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.CourseDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE c.id = $1", courseDetailColumns, courseDetailJoins)
	var detail models.CourseDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	slots, err := r.ListSchedule(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.Schedule = slots
	return &detail, nil
}

// ExistsByCode checks course code uniqueness optionally excluding an ID.
func (r *CourseRepository) ExistsByCode(ctx context.Context, code string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM courses WHERE code = $1"
	args := []interface{}{code}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check course code: %w", err)
	}
	return true, nil
}

// Create inserts a course and its schedule slots.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course, schedule []models.ScheduleSlot) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create course: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const query = `INSERT INTO courses (id, code, name, description, credits, teacher_id, department_id, status, created_at, updated_at)
        VALUES (:id, :code, :name, :description, :credits, :teacher_id, :department_id, :status, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	if err := insertSchedule(ctx, tx, course.ID, schedule); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create course: %w", err)
	}
	return nil
}

// Update replaces the editable fields of a course and its schedule.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course, schedule []models.ScheduleSlot) error {
	course.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update course: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const query = `UPDATE courses SET code = :code, name = :name, description = :description, credits = :credits,
        teacher_id = :teacher_id, department_id = :department_id, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := tx.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM course_schedules WHERE course_id = $1", course.ID); err != nil {
		return fmt.Errorf("clear course schedule: %w", err)
	}
	if err := insertSchedule(ctx, tx, course.ID, schedule); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update course: %w", err)
	}
	return nil
}

// Delete removes a course and its schedule slots.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete course: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM course_schedules WHERE course_id = $1", id); err != nil {
		return fmt.Errorf("delete course schedule: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM courses WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete course: %w", err)
	}
	return nil
}

// ListSchedule loads schedule slots for one course.
func (r *CourseRepository) ListSchedule(ctx context.Context, courseID string) ([]models.ScheduleSlot, error) {
	const query = `SELECT id, course_id, day_of_week, time_range, location FROM course_schedules WHERE course_id = $1 ORDER BY day_of_week, time_range`
	var slots []models.ScheduleSlot
	if err := r.db.SelectContext(ctx, &slots, query, courseID); err != nil {
		return nil, fmt.Errorf("list course schedule: %w", err)
	}
	return slots, nil
}

// CountEnrollments returns the live roster size of a course.
func (r *CourseRepository) CountEnrollments(ctx context.Context, courseID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM enrollments WHERE course_id = $1", courseID); err != nil {
		return 0, fmt.Errorf("count course enrollments: %w", err)
	}
	return count, nil
}

func insertSchedule(ctx context.Context, tx *sqlx.Tx, courseID string, schedule []models.ScheduleSlot) error {
	for i := range schedule {
		slot := schedule[i]
		if slot.ID == "" {
			slot.ID = uuid.NewString()
		}
		slot.CourseID = courseID
		const query = `INSERT INTO course_schedules (id, course_id, day_of_week, time_range, location)
            VALUES (:id, :course_id, :day_of_week, :time_range, :location)`
		if _, err := tx.NamedExecContext(ctx, query, slot); err != nil {
			return fmt.Errorf("insert schedule slot: %w", err)
		}
	}
	return nil
}
