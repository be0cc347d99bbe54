// File: internal/admin/service_test.go
package admin

import (
	"context"
	"errors"
	"testing"

	"unihome_backend/internal/common"
	"unihome_backend/internal/policy"
	"unihome_backend/internal/property"
	"unihome_backend/internal/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateFlag(ctx context.Context, flag *AdminFlag) error {
	args := m.Called(ctx, flag)
	return args.Error(0)
}

func (m *MockRepository) FindFlagByID(ctx context.Context, id uuid.UUID) (*AdminFlag, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*AdminFlag), args.Error(1)
}

func (m *MockRepository) ListFlags(ctx context.Context, resolved *bool, pq common.PaginationQuery) ([]AdminFlag, int64, error) {
	args := m.Called(ctx, resolved, pq)
	return args.Get(0).([]AdminFlag), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) ResolveFlag(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) CountUnresolved(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockUserAdmin struct {
	mock.Mock
}

func (m *MockUserAdmin) GetUserByID(ctx context.Context, id uuid.UUID) (*shared.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.User), args.Error(1)
}

func (m *MockUserAdmin) ListUsers(ctx context.Context, pq common.PaginationQuery) ([]shared.User, int64, error) {
	args := m.Called(ctx, pq)
	return args.Get(0).([]shared.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserAdmin) DeleteUser(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPropertyService struct {
	mock.Mock
}

func (m *MockPropertyService) Create(ctx context.Context, identity policy.Identity, req property.CreatePropertyRequest) (*property.Property, error) {
	args := m.Called(ctx, identity, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Property), args.Error(1)
}

func (m *MockPropertyService) GetByID(ctx context.Context, id uuid.UUID) (*property.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Property), args.Error(1)
}

func (m *MockPropertyService) Search(ctx context.Context, query property.SearchQuery, pq common.PaginationQuery) ([]property.Property, int64, error) {
	args := m.Called(ctx, query, pq)
	return args.Get(0).([]property.Property), args.Get(1).(int64), args.Error(2)
}

func (m *MockPropertyService) Update(ctx context.Context, identity policy.Identity, id uuid.UUID, req property.UpdatePropertyRequest) (*property.Property, error) {
	args := m.Called(ctx, identity, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Property), args.Error(1)
}

func (m *MockPropertyService) Delete(ctx context.Context, identity policy.Identity, id uuid.UUID) error {
	args := m.Called(ctx, identity, id)
	return args.Error(0)
}

func (m *MockPropertyService) ListMine(ctx context.Context, identity policy.Identity, pq common.PaginationQuery) ([]property.Property, int64, error) {
	args := m.Called(ctx, identity, pq)
	return args.Get(0).([]property.Property), args.Get(1).(int64), args.Error(2)
}

func (m *MockPropertyService) ReplaceAvailability(ctx context.Context, identity policy.Identity, id uuid.UUID, req property.ReplaceAvailabilityRequest) ([]property.Availability, error) {
	args := m.Called(ctx, identity, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]property.Availability), args.Error(1)
}

func (m *MockPropertyService) ListAvailability(ctx context.Context, id uuid.UUID) ([]property.Availability, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]property.Availability), args.Error(1)
}

func (m *MockPropertyService) AddMedia(ctx context.Context, identity policy.Identity, id uuid.UUID, req property.AddMediaRequest) (*property.PropertyMedia, error) {
	args := m.Called(ctx, identity, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.PropertyMedia), args.Error(1)
}

type staticCounter int64

func (c staticCounter) Count(context.Context) (int64, error) { return int64(c), nil }

func newTestService(t *testing.T) (Service, *MockRepository, *MockUserAdmin, *MockPropertyService) {
	t.Helper()
	repo := new(MockRepository)
	users := new(MockUserAdmin)
	props := new(MockPropertyService)
	counters := Counters{
		Users:           staticCounter(4),
		Properties:      staticCounter(3),
		ViewingRequests: staticCounter(2),
		Reviews:         staticCounter(1),
	}
	return NewService(repo, users, props, counters, zap.NewNop()), repo, users, props
}

func adminIdentity() policy.Identity {
	return policy.Identity{ID: uuid.New(), Role: common.RoleAdmin}
}

func TestGetStats_AggregatesEntityCounts(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	repo.On("CountUnresolved", mock.Anything).Return(int64(5), nil)

	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Users)
	assert.Equal(t, int64(3), stats.Properties)
	assert.Equal(t, int64(2), stats.ViewingRequests)
	assert.Equal(t, int64(1), stats.Reviews)
	assert.Equal(t, int64(5), stats.UnresolvedFlags)
}

func TestDeleteUser_SelfRejected(t *testing.T) {
	svc, _, users, _ := newTestService(t)

	identity := adminIdentity()
	err := svc.DeleteUser(context.Background(), identity, identity.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrBadRequest))
	users.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)
}

func TestDeleteUser_UnknownUser(t *testing.T) {
	svc, _, users, _ := newTestService(t)

	targetID := uuid.New()
	users.On("GetUserByID", mock.Anything, targetID).Return(nil, common.ErrNotFound)

	err := svc.DeleteUser(context.Background(), adminIdentity(), targetID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestDeleteUser_Success(t *testing.T) {
	svc, _, users, _ := newTestService(t)

	targetID := uuid.New()
	users.On("GetUserByID", mock.Anything, targetID).Return(&shared.User{ID: targetID, Role: common.RoleStudent}, nil)
	users.On("DeleteUser", mock.Anything, targetID).Return(nil)

	require.NoError(t, svc.DeleteUser(context.Background(), adminIdentity(), targetID))
	users.AssertExpectations(t)
}

func TestCreateFlag_ExactlyOneTargetRequired(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	propertyID := uuid.New()
	userID := uuid.New()
	cases := map[string]CreateFlagRequest{
		"no target":    {Reason: "spam"},
		"both targets": {PropertyID: &propertyID, UserID: &userID, Reason: "spam"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateFlag(context.Background(), adminIdentity(), req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrBadRequest))
		})
	}
}

func TestCreateFlag_MissingPropertyTarget(t *testing.T) {
	svc, _, _, props := newTestService(t)

	propertyID := uuid.New()
	props.On("GetByID", mock.Anything, propertyID).Return(nil, common.ErrNotFound)

	_, err := svc.CreateFlag(context.Background(), adminIdentity(), CreateFlagRequest{
		PropertyID: &propertyID,
		Reason:     "misleading photos",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestCreateFlag_PropertyTargetSuccess(t *testing.T) {
	svc, repo, _, props := newTestService(t)

	identity := adminIdentity()
	propertyID := uuid.New()
	props.On("GetByID", mock.Anything, propertyID).Return(&property.Property{}, nil)
	repo.On("CreateFlag", mock.Anything, mock.MatchedBy(func(f *AdminFlag) bool {
		return f.FlaggedBy == identity.ID && f.PropertyID != nil && *f.PropertyID == propertyID && f.UserID == nil
	})).Return(nil)

	flag, err := svc.CreateFlag(context.Background(), identity, CreateFlagRequest{
		PropertyID: &propertyID,
		Reason:     "misleading photos",
	})
	require.NoError(t, err)
	assert.False(t, flag.Resolved)
	repo.AssertExpectations(t)
}

func TestCreateFlag_UserTargetSuccess(t *testing.T) {
	svc, repo, users, _ := newTestService(t)

	userID := uuid.New()
	users.On("GetUserByID", mock.Anything, userID).Return(&shared.User{ID: userID}, nil)
	repo.On("CreateFlag", mock.Anything, mock.Anything).Return(nil)

	flag, err := svc.CreateFlag(context.Background(), adminIdentity(), CreateFlagRequest{
		UserID: &userID,
		Reason: "fake landlord account",
	})
	require.NoError(t, err)
	require.NotNil(t, flag.UserID)
	assert.Equal(t, userID, *flag.UserID)
}

func TestDeleteProperty_DelegatesWithAdminIdentity(t *testing.T) {
	svc, _, _, props := newTestService(t)

	identity := adminIdentity()
	propertyID := uuid.New()
	props.On("Delete", mock.Anything, identity, propertyID).Return(nil)

	require.NoError(t, svc.DeleteProperty(context.Background(), identity, propertyID))
	props.AssertExpectations(t)
}
