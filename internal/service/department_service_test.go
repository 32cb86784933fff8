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

type mockDepartmentRepo struct {
	departments map[string]*models.Department
	usage       map[string]models.DepartmentUsage
	deleted     []string
}

func newMockDepartmentRepo() *mockDepartmentRepo {
	return &mockDepartmentRepo{
		departments: make(map[string]*models.Department),
		usage:       make(map[string]models.DepartmentUsage),
	}
}

func (m *mockDepartmentRepo) List(ctx context.Context, filter models.DepartmentFilter) ([]models.Department, int, error) {
	var list []models.Department
	for _, d := range m.departments {
		list = append(list, *d)
	}
	return list, len(list), nil
}

func (m *mockDepartmentRepo) FindByID(ctx context.Context, id string) (*models.Department, error) {
	if d, ok := m.departments[id]; ok {
		return d, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockDepartmentRepo) ExistsByCode(ctx context.Context, code string, excludeID string) (bool, error) {
	for _, d := range m.departments {
		if d.Code == code && d.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockDepartmentRepo) Create(ctx context.Context, department *models.Department) error {
	if department.ID == "" {
		department.ID = "dept-" + department.Code
	}
	m.departments[department.ID] = department
	return nil
}

func (m *mockDepartmentRepo) Update(ctx context.Context, department *models.Department) error {
	m.departments[department.ID] = department
	return nil
}

func (m *mockDepartmentRepo) Delete(ctx context.Context, id string) error {
	delete(m.departments, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockDepartmentRepo) Usage(ctx context.Context, id string) (*models.DepartmentUsage, error) {
	u := m.usage[id]
	return &u, nil
}

func TestDepartmentCreateAndGet(t *testing.T) {
	repo := newMockDepartmentRepo()
	svc := NewDepartmentService(repo, nil, nil)

	created, err := svc.Create(context.Background(), CreateDepartmentRequest{Name: "Computer Science", Code: "CS"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	found, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Computer Science", found.Name)
}

func TestDepartmentDuplicateCodeIsConflict(t *testing.T) {
	repo := newMockDepartmentRepo()
	svc := NewDepartmentService(repo, nil, nil)

	_, err := svc.Create(context.Background(), CreateDepartmentRequest{Name: "Computer Science", Code: "CS"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateDepartmentRequest{Name: "Cognitive Science", Code: "CS"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestDepartmentGetMissingIsNotFound(t *testing.T) {
	svc := NewDepartmentService(newMockDepartmentRepo(), nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestDepartmentDeleteRestrictedWhileReferenced(t *testing.T) {
	repo := newMockDepartmentRepo()
	svc := NewDepartmentService(repo, nil, nil)

	created, err := svc.Create(context.Background(), CreateDepartmentRequest{Name: "Computer Science", Code: "CS"})
	require.NoError(t, err)
	repo.usage[created.ID] = models.DepartmentUsage{Students: 3}

	err = svc.Delete(context.Background(), created.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.deleted)
}

func TestDepartmentDeleteWhenUnreferenced(t *testing.T) {
	repo := newMockDepartmentRepo()
	svc := NewDepartmentService(repo, nil, nil)

	created, err := svc.Create(context.Background(), CreateDepartmentRequest{Name: "Computer Science", Code: "CS"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	_, err = svc.Get(context.Background(), created.ID)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestDepartmentCreateValidation(t *testing.T) {
	svc := NewDepartmentService(newMockDepartmentRepo(), nil, nil)

	_, err := svc.Create(context.Background(), CreateDepartmentRequest{Name: "", Code: ""})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
