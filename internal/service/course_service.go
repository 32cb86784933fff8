package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/goliter/classsight-api/internal/models"
	appErrors "github.com/goliter/classsight-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.CourseDetail, error)
	ExistsByCode(ctx context.Context, code string, excludeID string) (bool, error)
	Create(ctx context.Context, course *models.Course, schedule []models.ScheduleSlot) error
	Update(ctx context.Context, course *models.Course, schedule []models.ScheduleSlot) error
	Delete(ctx context.Context, id string) error
	CountEnrollments(ctx context.Context, courseID string) (int, error)
}

type teacherReader interface {
	Exists(ctx context.Context, teacherID string) (bool, error)
}

// ScheduleSlotRequest is one weekly meeting in a course payload.
type ScheduleSlotRequest struct {
	DayOfWeek string `json:"day_of_week" validate:"required"`
	TimeRange string `json:"time_range" validate:"required"`
	Location  string `json:"location"`
}

// CreateCourseRequest holds payload for creating courses.
type CreateCourseRequest struct {
	Code         string                `json:"code" validate:"required"`
	Name         string                `json:"name" validate:"required"`
	Description  string                `json:"description"`
	Credits      int                   `json:"credits" validate:"gte=0,lte=30"`
	TeacherID    string                `json:"teacher_id" validate:"required"`
	DepartmentID string                `json:"department_id" validate:"required"`
	Status       string                `json:"status" validate:"omitempty,oneof=active inactive pending"`
	Schedule     []ScheduleSlotRequest `json:"schedule" validate:"dive"`
}

// UpdateCourseRequest holds payload for updating courses.
type UpdateCourseRequest struct {
	Code         string                `json:"code" validate:"required"`
	Name         string                `json:"name" validate:"required"`
	Description  string                `json:"description"`
	Credits      int                   `json:"credits" validate:"gte=0,lte=30"`
	TeacherID    string                `json:"teacher_id" validate:"required"`
	DepartmentID string                `json:"department_id" validate:"required"`
	Status       string                `json:"status" validate:"required,oneof=active inactive pending"`
	Schedule     []ScheduleSlotRequest `json:"schedule" validate:"dive"`
}

// CourseService handles course use-cases.
type CourseService struct {
	repo        courseRepository
	teachers    teacherReader
	departments departmentReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(repo courseRepository, teachers teacherReader, departments departmentReader, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, teachers: teachers, departments: departments, validator: validate, logger: logger}
}

// List returns course details and pagination metadata.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, *models.Pagination, error) {
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return courses, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a course detail with joined names, roster size and schedule.
func (s *CourseService) Get(ctx context.Context, id string) (*models.CourseDetail, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create registers a new course after validating its references.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.CourseDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	exists, err := s.repo.ExistsByCode(ctx, req.Code, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course code already used")
	}
	if err := s.checkReferences(ctx, req.TeacherID, req.DepartmentID); err != nil {
		return nil, err
	}

	status := models.CourseStatus(req.Status)
	if status == "" {
		status = models.CourseStatusPending
	}
	course := &models.Course{
		Code:         req.Code,
		Name:         req.Name,
		Description:  req.Description,
		Credits:      req.Credits,
		TeacherID:    req.TeacherID,
		DepartmentID: req.DepartmentID,
		Status:       status,
	}
	if err := s.repo.Create(ctx, course, slotsFromRequest(req.Schedule)); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	return s.Get(ctx, course.ID)
}

// Update replaces the editable fields of a course.
func (s *CourseService) Update(ctx context.Context, id string, req UpdateCourseRequest) (*models.CourseDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	exists, err := s.repo.ExistsByCode(ctx, req.Code, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course code already used")
	}
	if err := s.checkReferences(ctx, req.TeacherID, req.DepartmentID); err != nil {
		return nil, err
	}

	course := detail.Course
	course.Code = req.Code
	course.Name = req.Name
	course.Description = req.Description
	course.Credits = req.Credits
	course.TeacherID = req.TeacherID
	course.DepartmentID = req.DepartmentID
	course.Status = models.CourseStatus(req.Status)
	if err := s.repo.Update(ctx, &course, slotsFromRequest(req.Schedule)); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	return s.Get(ctx, id)
}

// Delete removes a course. Deletion is restricted while students remain
// enrolled.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	enrolled, err := s.repo.CountEnrollments(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollments")
	}
	if enrolled > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "course still has enrolled students")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	return nil
}

func (s *CourseService) checkReferences(ctx context.Context, teacherID, departmentID string) error {
	exists, err := s.teachers.Exists(ctx, teacherID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate teacher")
	}
	if !exists {
		return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}
	if _, err := s.departments.FindByID(ctx, departmentID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
	}
	return nil
}

func slotsFromRequest(slots []ScheduleSlotRequest) []models.ScheduleSlot {
	result := make([]models.ScheduleSlot, 0, len(slots))
	for _, slot := range slots {
		result = append(result, models.ScheduleSlot{
			DayOfWeek: slot.DayOfWeek,
			TimeRange: slot.TimeRange,
			Location:  slot.Location,
		})
	}
	return result
}
