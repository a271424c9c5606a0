package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/scholara/scholara-api/internal/models"
	"github.com/scholara/scholara-api/internal/repository"
	appErrors "github.com/scholara/scholara-api/pkg/errors"
)

type mockClassRequestRepo struct {
	requests map[int64]*models.ClassAssignmentRequest
	classes  map[string]int64
	nextID   int64
}

func newMockClassRequestRepo() *mockClassRequestRepo {
	return &mockClassRequestRepo{
		requests: make(map[int64]*models.ClassAssignmentRequest),
		classes:  make(map[string]int64),
	}
}

func (m *mockClassRequestRepo) Create(ctx context.Context, request *models.ClassAssignmentRequest) error {
	for _, existing := range m.requests {
		if existing.StudentID == request.StudentID && existing.Status == models.ClassRequestPending {
			return repository.ErrDuplicatePending
		}
	}
	m.nextID++
	request.ID = m.nextID
	request.Status = models.ClassRequestPending
	copy := *request
	m.requests[request.ID] = &copy
	return nil
}

func (m *mockClassRequestRepo) FindPending(ctx context.Context, studentID string) (*models.ClassAssignmentRequest, error) {
	for _, request := range m.requests {
		if request.StudentID == studentID && request.Status == models.ClassRequestPending {
			copy := *request
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *mockClassRequestRepo) FindByID(ctx context.Context, id int64) (*models.ClassAssignmentRequest, error) {
	if request, ok := m.requests[id]; ok {
		copy := *request
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockClassRequestRepo) List(ctx context.Context, status models.ClassRequestStatus, page int) ([]models.ClassAssignmentRequestDetail, int, error) {
	var out []models.ClassAssignmentRequestDetail
	for _, request := range m.requests {
		if status == "" || request.Status == status {
			out = append(out, models.ClassAssignmentRequestDetail{ClassAssignmentRequest: *request})
		}
	}
	return out, len(out), nil
}

func (m *mockClassRequestRepo) Approve(ctx context.Context, id int64, classID int64) (bool, error) {
	request, ok := m.requests[id]
	if !ok || request.Status != models.ClassRequestPending {
		return false, nil
	}
	request.Status = models.ClassRequestApproved
	m.classes[request.StudentID] = classID
	return true, nil
}

func (m *mockClassRequestRepo) Reject(ctx context.Context, id int64) (bool, error) {
	request, ok := m.requests[id]
	if !ok || request.Status != models.ClassRequestPending {
		return false, nil
	}
	request.Status = models.ClassRequestRejected
	return true, nil
}

func newClassRequestService(repo *mockClassRequestRepo) *ClassRequestService {
	return NewClassRequestService(repo, validator.New(), zap.NewNop())
}

func TestClassRequestServiceCreateStudentOnly(t *testing.T) {
	svc := newClassRequestService(newMockClassRequestRepo())

	_, err := svc.Create(context.Background(), claimsFor("teacher-1", models.RoleTeacher))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	request, err := svc.Create(context.Background(), claimsFor("student-1", models.RoleStudent))
	require.NoError(t, err)
	assert.Equal(t, models.ClassRequestPending, request.Status)
	assert.Equal(t, "student-1", request.StudentID)
}

func TestClassRequestServiceSecondPendingConflicts(t *testing.T) {
	svc := newClassRequestService(newMockClassRequestRepo())
	caller := claimsFor("student-1", models.RoleStudent)

	_, err := svc.Create(context.Background(), caller)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), caller)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrRequestPending.Code, appErrors.FromError(err).Code)
}

func TestClassRequestServiceApproveAssignsClass(t *testing.T) {
	repo := newMockClassRequestRepo()
	svc := newClassRequestService(repo)

	request, err := svc.Create(context.Background(), claimsFor("student-1", models.RoleStudent))
	require.NoError(t, err)

	classID := int64(3)
	resolved, err := svc.Decide(context.Background(), claimsFor("admin-1", models.RoleAdmin), request.ID, models.ClassRequestDecision{
		Action: "approve", ClassID: &classID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ClassRequestApproved, resolved.Status)
	assert.Equal(t, int64(3), repo.classes["student-1"])

	// terminal state, a later rejection must be refused
	_, err = svc.Decide(context.Background(), claimsFor("admin-1", models.RoleAdmin), request.ID, models.ClassRequestDecision{Action: "reject"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrRequestClosed.Code, appErrors.FromError(err).Code)
}

func TestClassRequestServiceApproveRequiresClass(t *testing.T) {
	svc := newClassRequestService(newMockClassRequestRepo())

	request, err := svc.Create(context.Background(), claimsFor("student-1", models.RoleStudent))
	require.NoError(t, err)

	_, err = svc.Decide(context.Background(), claimsFor("admin-1", models.RoleAdmin), request.ID, models.ClassRequestDecision{Action: "approve"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestClassRequestServiceDecideAdminOnly(t *testing.T) {
	svc := newClassRequestService(newMockClassRequestRepo())

	request, err := svc.Create(context.Background(), claimsFor("student-1", models.RoleStudent))
	require.NoError(t, err)

	_, err = svc.Decide(context.Background(), claimsFor("student-1", models.RoleStudent), request.ID, models.ClassRequestDecision{Action: "reject"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestClassRequestServicePendingGuard(t *testing.T) {
	svc := newClassRequestService(newMockClassRequestRepo())

	_, err := svc.Create(context.Background(), claimsFor("student-1", models.RoleStudent))
	require.NoError(t, err)

	pending, err := svc.Pending(context.Background(), claimsFor("student-1", models.RoleStudent), "student-1")
	require.NoError(t, err)
	require.NotNil(t, pending)

	_, err = svc.Pending(context.Background(), claimsFor("student-2", models.RoleStudent), "student-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
