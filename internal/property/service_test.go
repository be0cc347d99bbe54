// File: internal/property/service_test.go
package property

import (
	"context"
	"errors"
	"testing"

	"unihome_backend/internal/common"
	"unihome_backend/internal/policy"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, p *Property) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, id uuid.UUID, preload bool) (*Property, error) {
	args := m.Called(ctx, id, preload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Property), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, p *Property) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) Search(ctx context.Context, query SearchQuery, pq common.PaginationQuery) ([]Property, int64, error) {
	args := m.Called(ctx, query, pq)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]Property), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) ListByLandlord(ctx context.Context, landlordID uuid.UUID, pq common.PaginationQuery) ([]Property, int64, error) {
	args := m.Called(ctx, landlordID, pq)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]Property), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) ReplaceAvailability(ctx context.Context, propertyID uuid.UUID, slots []Availability) error {
	args := m.Called(ctx, propertyID, slots)
	return args.Error(0)
}

func (m *MockRepository) ListAvailability(ctx context.Context, propertyID uuid.UUID) ([]Availability, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Availability), args.Error(1)
}

func (m *MockRepository) AddMedia(ctx context.Context, media *PropertyMedia) error {
	args := m.Called(ctx, media)
	return args.Error(0)
}

func (m *MockRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func landlordIdentity() policy.Identity {
	return policy.Identity{ID: uuid.New(), Role: common.RoleLandlord}
}

func validCreateRequest() CreatePropertyRequest {
	return CreatePropertyRequest{
		Title:    "Bright room near campus",
		Price:    650,
		Location: "Rotterdam",
		RoomType: RoomTypeSingle,
	}
}

func TestCreate_StudentForbidden(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())

	student := policy.Identity{ID: uuid.New(), Role: common.RoleStudent}
	_, err := svc.Create(context.Background(), student, validCreateRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrForbidden))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_SetsLandlordAndSlug(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())
	landlord := landlordIdentity()

	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *Property) bool {
		return p.LandlordID == landlord.ID && p.Slug != ""
	})).Return(nil)

	p, err := svc.Create(context.Background(), landlord, validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, landlord.ID, p.LandlordID)
	assert.Contains(t, p.Slug, "bright-room-near-campus")
	repo.AssertExpectations(t)
}

func TestUpdate_NonOwnerForbidden(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())

	owner := uuid.New()
	stored := &Property{LandlordID: owner, Title: "Original"}
	stored.ID = uuid.New()
	repo.On("FindByID", mock.Anything, stored.ID, false).Return(stored, nil)

	intruder := policy.Identity{ID: uuid.New(), Role: common.RoleLandlord}
	newTitle := "Hijacked"
	_, err := svc.Update(context.Background(), intruder, stored.ID, UpdatePropertyRequest{Title: &newTitle})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrForbidden))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDelete_NonOwnerForbidden(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())

	stored := &Property{LandlordID: uuid.New()}
	stored.ID = uuid.New()
	repo.On("FindByID", mock.Anything, stored.ID, false).Return(stored, nil)

	intruder := policy.Identity{ID: uuid.New(), Role: common.RoleLandlord}
	err := svc.Delete(context.Background(), intruder, stored.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrForbidden))
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDelete_AdminAllowed(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())

	stored := &Property{LandlordID: uuid.New()}
	stored.ID = uuid.New()
	repo.On("FindByID", mock.Anything, stored.ID, false).Return(stored, nil)
	repo.On("Delete", mock.Anything, stored.ID).Return(nil)

	admin := policy.Identity{ID: uuid.New(), Role: common.RoleAdmin}
	require.NoError(t, svc.Delete(context.Background(), admin, stored.ID))
	repo.AssertExpectations(t)
}

func TestSearch_InvalidPriceRange(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())

	minPrice, maxPrice := 900.0, 100.0
	_, _, err := svc.Search(context.Background(), SearchQuery{MinPrice: &minPrice, MaxPrice: &maxPrice}, common.PaginationQuery{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrBadRequest))
}

func TestReplaceAvailability_DuplicateDateRejected(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())

	owner := landlordIdentity()
	stored := &Property{LandlordID: owner.ID}
	stored.ID = uuid.New()
	repo.On("FindByID", mock.Anything, stored.ID, false).Return(stored, nil)

	yes := true
	_, err := svc.ReplaceAvailability(context.Background(), owner, stored.ID, ReplaceAvailabilityRequest{
		Slots: []AvailabilitySlot{
			{Date: "2026-09-01", IsAvailable: &yes},
			{Date: "2026-09-01", IsAvailable: &yes},
		},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrBadRequest))
	repo.AssertNotCalled(t, "ReplaceAvailability", mock.Anything, mock.Anything, mock.Anything)
}
