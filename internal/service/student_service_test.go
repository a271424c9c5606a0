package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/scholara/scholara-api/internal/models"
	"github.com/scholara/scholara-api/internal/scope"
	appErrors "github.com/scholara/scholara-api/pkg/errors"
)

type mockStudentRepo struct {
	students   map[string]*models.Student
	lastClause scope.Clause
	logins     []*models.User
}

func (m *mockStudentRepo) List(ctx context.Context, restrict scope.Clause, filter models.StudentFilter) ([]models.StudentDetail, int, error) {
	m.lastClause = restrict
	var out []models.StudentDetail
	for _, s := range m.students {
		out = append(out, models.StudentDetail{Student: *s})
	}
	return out, len(out), nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	if s, ok := m.students[id]; ok {
		return &models.StudentDetail{Student: *s}, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student, login *models.User) error {
	if m.students == nil {
		m.students = make(map[string]*models.Student)
	}
	student.ID = "generated"
	login.ID = student.ID
	copy := *student
	m.students[student.ID] = &copy
	m.logins = append(m.logins, login)
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	copy := *student
	m.students[student.ID] = &copy
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id string) error {
	delete(m.students, id)
	return nil
}

func birthday() time.Time {
	return time.Date(2010, 3, 4, 0, 0, 0, 0, time.UTC)
}

func TestStudentServiceListAppliesCallerScope(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]*models.Student{"s1": {ID: "s1"}}}
	svc := NewStudentService(repo, validator.New(), zap.NewNop())

	_, pagination, err := svc.List(context.Background(), claimsFor("teacher-1", models.RoleTeacher), models.StudentFilter{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, pagination.TotalCount)
	assert.Equal(t, models.PageSize, pagination.PageSize)
	require.False(t, repo.lastClause.Empty())
	assert.Contains(t, repo.lastClause.Cond, "l.teacher_id = ?")
	assert.Equal(t, []interface{}{"teacher-1"}, repo.lastClause.Args)
}

func TestStudentServiceListAdminUnrestricted(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]*models.Student{"s1": {ID: "s1"}}}
	svc := NewStudentService(repo, validator.New(), zap.NewNop())

	_, _, err := svc.List(context.Background(), claimsFor("admin-1", models.RoleAdmin), models.StudentFilter{Page: 1})
	require.NoError(t, err)
	assert.True(t, repo.lastClause.Empty())
}

func TestStudentServiceListRefusesUnknownRole(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := NewStudentService(repo, validator.New(), zap.NewNop())

	_, _, err := svc.List(context.Background(), &models.JWTClaims{UserID: "x", Role: "intruder"}, models.StudentFilter{Page: 1})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnknownRole.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceCreateHashesPassword(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := NewStudentService(repo, validator.New(), zap.NewNop())

	student, err := svc.Create(context.Background(), models.CreateStudentRequest{
		Username: "ada",
		Password: "correcthorse",
		Name:     "Ada",
		Surname:  "Lovelace",
		Address:  "12 Byron St",
		Sex:      "F",
		Birthday: birthday(),
		GradeID:  4,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, student.ID)
	require.Len(t, repo.logins, 1)
	assert.NotEqual(t, "correcthorse", repo.logins[0].PasswordHash)
	assert.True(t, repo.logins[0].Active)
}

func TestStudentServiceDeleteMissing(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]*models.Student{}}
	svc := NewStudentService(repo, validator.New(), zap.NewNop())

	err := svc.Delete(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
