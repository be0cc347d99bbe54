// File: internal/user/service_test.go
package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"unihome_backend/internal/common"
	"unihome_backend/internal/config"
	"unihome_backend/internal/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) FindByProvider(ctx context.Context, provider, providerID string) (*User, error) {
	args := m.Called(ctx, provider, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) List(ctx context.Context, pq common.PaginationQuery) ([]User, int64, error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]User), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) CreateVerificationToken(ctx context.Context, token *VerificationToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockRepository) FindVerificationToken(ctx context.Context, token string) (*VerificationToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*VerificationToken), args.Error(1)
}

func (m *MockRepository) DeleteVerificationToken(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) DeleteExpiredVerificationTokens(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateAccessToken(u shared.UserDataForToken) (string, time.Time, error) {
	args := m.Called(u)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockTokenService) GenerateRefreshToken(u shared.UserDataForToken) (string, time.Time, error) {
	args := m.Called(u)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockTokenService) ValidateToken(tokenString string) (*shared.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Claims), args.Error(1)
}

func (m *MockTokenService) ParseRefreshToken(refreshTokenString string) (*shared.Claims, error) {
	args := m.Called(refreshTokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Claims), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendVerificationEmail(ctx context.Context, toEmail, verifyURL string) error {
	args := m.Called(ctx, toEmail, verifyURL)
	return args.Error(0)
}

// --- Helpers ---

func newTestService(t *testing.T) (*ServiceImplementation, *MockRepository, *MockTokenService, *MockMailer) {
	t.Helper()
	repo := new(MockRepository)
	tokens := new(MockTokenService)
	mailer := new(MockMailer)
	cfg := &config.Config{
		VerificationTokenLifetime: 24 * time.Hour,
		PublicBaseURL:             "http://localhost:8080",
	}
	svc := NewService(repo, tokens, mailer, cfg, zap.NewNop())
	return svc, repo, tokens, mailer
}

func strPtr(s string) *string { return &s }

// --- Register ---

func TestRegister_WeakPasswordRejected(t *testing.T) {
	svc, repo, _, _ := newTestService(t)

	weak := []string{"Sh0rt!a", "alllowercase1!", "ALLUPPERCASE1!", "NoDigitsHere!", "NoSpecial11A"}
	for _, pw := range weak {
		_, err := svc.Register(context.Background(), shared.CreateUserRequest{
			Email:    "student@example.com",
			Password: pw,
			Role:     common.RoleStudent,
		})
		require.Error(t, err, "password %q should be rejected", pw)
		apiErr, ok := common.IsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, 400, apiErr.StatusCode)
	}
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_DuplicateEmailConflict(t *testing.T) {
	svc, repo, _, _ := newTestService(t)

	existing := &User{Email: strPtr("taken@example.com")}
	repo.On("FindByEmail", mock.Anything, "taken@example.com").Return(existing, nil)

	_, err := svc.Register(context.Background(), shared.CreateUserRequest{
		Email:    "Taken@Example.com",
		Password: "Str0ngPass!",
		Role:     common.RoleLandlord,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrConflict))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_AdminRoleRejected(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Register(context.Background(), shared.CreateUserRequest{
		Email:    "sneaky@example.com",
		Password: "Str0ngPass!",
		Role:     common.RoleAdmin,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrBadRequest))
}

func TestRegister_CreatesUnverifiedAccountAndSendsToken(t *testing.T) {
	svc, repo, _, mailer := newTestService(t)

	repo.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, common.ErrNotFound)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *User) bool {
		return u.Email != nil && *u.Email == "new@example.com" &&
			u.Role == common.RoleStudent && !u.IsEmailVerified && u.PasswordHash != nil
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*User).ID = uuid.New()
	})
	repo.On("CreateVerificationToken", mock.Anything, mock.MatchedBy(func(vt *VerificationToken) bool {
		return vt.Token != "" && vt.ExpiresAt.After(time.Now())
	})).Return(nil)
	mailer.On("SendVerificationEmail", mock.Anything, "new@example.com", mock.Anything).Return(nil)

	svUser, err := svc.Register(context.Background(), shared.CreateUserRequest{
		Email:     "New@Example.com",
		Password:  "Str0ngPass!",
		FirstName: "Ada",
		Role:      common.RoleStudent,
	})
	require.NoError(t, err)
	assert.False(t, svUser.IsEmailVerified)
	assert.Equal(t, common.RoleStudent, svUser.Role)
	repo.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

// --- VerifyEmail ---

func TestVerifyEmail_UnknownToken(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	repo.On("FindVerificationToken", mock.Anything, "nope").Return(nil, common.ErrNotFound)

	_, err := svc.VerifyEmail(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestVerifyEmail_ExpiredToken(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	vt := &VerificationToken{
		Token:     "expired",
		UserID:    uuid.New(),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	repo.On("FindVerificationToken", mock.Anything, "expired").Return(vt, nil)

	_, err := svc.VerifyEmail(context.Background(), "expired")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrBadRequest))
}

func TestVerifyEmail_MarksAccountVerified(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	userID := uuid.New()
	vt := &VerificationToken{
		Token:     "good",
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	vt.ID = uuid.New()
	account := &User{Email: strPtr("v@example.com")}
	account.ID = userID

	repo.On("FindVerificationToken", mock.Anything, "good").Return(vt, nil)
	repo.On("FindByID", mock.Anything, userID).Return(account, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(u *User) bool {
		return u.IsEmailVerified
	})).Return(nil)
	repo.On("DeleteVerificationToken", mock.Anything, vt.ID).Return(nil)

	svUser, err := svc.VerifyEmail(context.Background(), "good")
	require.NoError(t, err)
	assert.True(t, svUser.IsEmailVerified)
	repo.AssertExpectations(t)
}

// --- Login ---

func TestLogin_UnknownEmailUnauthorized(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	repo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, common.ErrNotFound)

	_, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnauthorized))
}

func TestLogin_WrongPasswordUnauthorized(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	hash, err := common.HashPassword("Corr3ctPass!")
	require.NoError(t, err)
	account := &User{Email: strPtr("u@example.com"), PasswordHash: &hash, IsEmailVerified: true}

	repo.On("FindByEmail", mock.Anything, "u@example.com").Return(account, nil)

	_, _, err = svc.Login(context.Background(), "u@example.com", "Wr0ngPass!")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnauthorized))
}

func TestLogin_UnverifiedAccountForbidden(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	hash, err := common.HashPassword("Corr3ctPass!")
	require.NoError(t, err)
	account := &User{Email: strPtr("u@example.com"), PasswordHash: &hash, IsEmailVerified: false}

	repo.On("FindByEmail", mock.Anything, "u@example.com").Return(account, nil)

	_, _, err = svc.Login(context.Background(), "u@example.com", "Corr3ctPass!")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrForbidden))
}

func TestLogin_IssuesTokenPair(t *testing.T) {
	svc, repo, tokens, _ := newTestService(t)
	hash, err := common.HashPassword("Corr3ctPass!")
	require.NoError(t, err)
	account := &User{
		Email:           strPtr("u@example.com"),
		PasswordHash:    &hash,
		Role:            common.RoleStudent,
		IsEmailVerified: true,
	}
	account.ID = uuid.New()

	expiry := time.Now().Add(15 * time.Minute)
	repo.On("FindByEmail", mock.Anything, "u@example.com").Return(account, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(u *User) bool {
		return u.LastLoginAt != nil
	})).Return(nil)
	tokens.On("GenerateAccessToken", mock.Anything).Return("access-token", expiry, nil)
	tokens.On("GenerateRefreshToken", mock.Anything).Return("refresh-token", expiry.Add(7*24*time.Hour), nil)

	svUser, tokenResp, err := svc.Login(context.Background(), "U@Example.com", "Corr3ctPass!")
	require.NoError(t, err)
	assert.Equal(t, account.ID, svUser.ID)
	assert.Equal(t, "access-token", tokenResp.AccessToken)
	assert.Equal(t, "refresh-token", tokenResp.RefreshToken)
	tokens.AssertExpectations(t)
}

// --- OAuth ---

func TestFindOrCreateOrLinkOAuthUser_LinksVerifiedEmailAccount(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	account := &User{Email: strPtr("linked@example.com"), AuthProvider: "email", IsEmailVerified: true}
	account.ID = uuid.New()

	repo.On("FindByProvider", mock.Anything, "google", "goog-123").Return(nil, common.ErrNotFound)
	repo.On("FindByEmail", mock.Anything, "linked@example.com").Return(account, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(u *User) bool {
		return u.AuthProvider == "google" && u.ProviderID != nil && *u.ProviderID == "goog-123"
	})).Return(nil)

	svUser, created, err := svc.FindOrCreateOrLinkOAuthUser(context.Background(), shared.OAuthUserProfile{
		Provider:      "google",
		ProviderID:    "goog-123",
		Email:         "linked@example.com",
		EmailVerified: true,
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, account.ID, svUser.ID)
}

func TestFindOrCreateOrLinkOAuthUser_CreatesVerifiedStudent(t *testing.T) {
	svc, repo, _, _ := newTestService(t)

	repo.On("FindByProvider", mock.Anything, "google", "goog-999").Return(nil, common.ErrNotFound)
	repo.On("FindByEmail", mock.Anything, "fresh@example.com").Return(nil, common.ErrNotFound)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *User) bool {
		return u.Role == common.RoleStudent && u.IsEmailVerified && u.AuthProvider == "google"
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*User).ID = uuid.New()
	})

	svUser, created, err := svc.FindOrCreateOrLinkOAuthUser(context.Background(), shared.OAuthUserProfile{
		Provider:      "google",
		ProviderID:    "goog-999",
		Email:         "fresh@example.com",
		FirstName:     "Fresh",
		EmailVerified: true,
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, svUser.IsEmailVerified)
	assert.Equal(t, common.RoleStudent, svUser.Role)
}
