package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/goliter/classsight-api/internal/models"
	appErrors "github.com/goliter/classsight-api/pkg/errors"
)

type teacherRepository interface {
	List(ctx context.Context, filter models.TeacherFilter) ([]models.TeacherDetail, int, error)
	FindByID(ctx context.Context, teacherID string) (*models.TeacherDetail, error)
	Exists(ctx context.Context, teacherID string) (bool, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	Create(ctx context.Context, teacher *models.Teacher) error
	Update(ctx context.Context, teacher *models.Teacher) error
	Delete(ctx context.Context, teacherID string) error
	CountCourses(ctx context.Context, teacherID string) (int, error)
}

// CreateTeacherRequest holds payload for creating teachers.
type CreateTeacherRequest struct {
	TeacherID    string     `json:"teacher_id" validate:"required"`
	FullName     string     `json:"full_name" validate:"required"`
	DepartmentID *string    `json:"department_id"`
	Rank         string     `json:"rank"`
	Email        string     `json:"email" validate:"omitempty,email"`
	Phone        string     `json:"phone"`
	Office       string     `json:"office"`
	HireDate     *time.Time `json:"hire_date"`
	Status       string     `json:"status" validate:"omitempty,oneof=active on_leave resigned"`
}

// UpdateTeacherRequest holds payload for updating teachers.
type UpdateTeacherRequest struct {
	FullName     string     `json:"full_name" validate:"required"`
	DepartmentID *string    `json:"department_id"`
	Rank         string     `json:"rank"`
	Email        string     `json:"email" validate:"omitempty,email"`
	Phone        string     `json:"phone"`
	Office       string     `json:"office"`
	HireDate     *time.Time `json:"hire_date"`
	Status       string     `json:"status" validate:"required,oneof=active on_leave resigned"`
}

// TeacherService handles teacher use-cases.
type TeacherService struct {
	repo        teacherRepository
	departments departmentReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewTeacherService constructs the teacher service.
func NewTeacherService(repo teacherRepository, departments departmentReader, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, departments: departments, validator: validate, logger: logger}
}

// List returns teachers and pagination metadata.
func (s *TeacherService) List(ctx context.Context, filter models.TeacherFilter) ([]models.TeacherDetail, *models.Pagination, error) {
	teachers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return teachers, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns detailed teacher information.
func (s *TeacherService) Get(ctx context.Context, teacherID string) (*models.TeacherDetail, error) {
	teacher, err := s.repo.FindByID(ctx, teacherID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	return teacher, nil
}

// Create registers a new teacher.
func (s *TeacherService) Create(ctx context.Context, req CreateTeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}
	exists, err := s.repo.Exists(ctx, req.TeacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate teacher id")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "teacher id already used")
	}
	if req.Email != "" {
		taken, err := s.repo.ExistsByEmail(ctx, req.Email, "")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate email")
		}
		if taken {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email already used")
		}
	}
	if err := s.checkDepartment(ctx, req.DepartmentID); err != nil {
		return nil, err
	}

	status := models.TeacherStatus(req.Status)
	if status == "" {
		status = models.TeacherStatusActive
	}
	teacher := &models.Teacher{
		TeacherID:    req.TeacherID,
		FullName:     req.FullName,
		DepartmentID: req.DepartmentID,
		Rank:         req.Rank,
		Email:        req.Email,
		Phone:        req.Phone,
		Office:       req.Office,
		HireDate:     req.HireDate,
		Status:       status,
	}
	if err := s.repo.Create(ctx, teacher); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher")
	}
	return teacher, nil
}

// Update replaces the editable fields of a teacher record.
func (s *TeacherService) Update(ctx context.Context, teacherID string, req UpdateTeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}
	detail, err := s.repo.FindByID(ctx, teacherID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	if req.Email != "" {
		taken, err := s.repo.ExistsByEmail(ctx, req.Email, teacherID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate email")
		}
		if taken {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email already used")
		}
	}
	if err := s.checkDepartment(ctx, req.DepartmentID); err != nil {
		return nil, err
	}

	teacher := detail.Teacher
	teacher.FullName = req.FullName
	teacher.DepartmentID = req.DepartmentID
	teacher.Rank = req.Rank
	teacher.Email = req.Email
	teacher.Phone = req.Phone
	teacher.Office = req.Office
	teacher.HireDate = req.HireDate
	teacher.Status = models.TeacherStatus(req.Status)
	if err := s.repo.Update(ctx, &teacher); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update teacher")
	}
	return &teacher, nil
}

// Delete removes a teacher. Deletion is restricted while courses still
// reference the teacher.
func (s *TeacherService) Delete(ctx context.Context, teacherID string) error {
	if _, err := s.repo.FindByID(ctx, teacherID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	courses, err := s.repo.CountCourses(ctx, teacherID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check courses")
	}
	if courses > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "teacher still assigned to courses")
	}
	if err := s.repo.Delete(ctx, teacherID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete teacher")
	}
	return nil
}

func (s *TeacherService) checkDepartment(ctx context.Context, departmentID *string) error {
	if departmentID == nil || *departmentID == "" {
		return nil
	}
	if _, err := s.departments.FindByID(ctx, *departmentID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
	}
	return nil
}
