// File: internal/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"unihome_backend/internal/common"
	"unihome_backend/internal/config"
	"unihome_backend/internal/platform/crypto"
	"unihome_backend/internal/shared"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ServiceImplementation provides account management on top of the
// repository. It implements shared.Service.
type ServiceImplementation struct {
	repo         Repository
	tokenService shared.TokenService
	mailer       Mailer
	cfg          *config.Config
	logger       *zap.Logger
}

var _ shared.Service = (*ServiceImplementation)(nil)

// NewService creates a new user service.
func NewService(
	repo Repository,
	tokenService shared.TokenService,
	mailer Mailer,
	cfg *config.Config,
	logger *zap.Logger,
) *ServiceImplementation {
	return &ServiceImplementation{
		repo:         repo,
		tokenService: tokenService,
		mailer:       mailer,
		cfg:          cfg,
		logger:       logger.Named("user_service"),
	}
}

// Register creates a local account and mails a verification token.
// The account cannot log in until the token is consumed.
func (s *ServiceImplementation) Register(ctx context.Context, req shared.CreateUserRequest) (*shared.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := common.ValidatePasswordComplexity(req.Password); err != nil {
		return nil, err
	}
	role := req.Role
	if role == "" {
		role = common.RoleStudent
	}
	if !common.IsValidRole(role) || role == common.RoleAdmin {
		return nil, common.ErrBadRequest.WithDetails("role must be 'student' or 'landlord'")
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, common.ErrConflict.WithDetails("An account with this email already exists.")
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	hash, err := common.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("Failed to hash password during registration", zap.Error(err))
		return nil, common.ErrInternalServer
	}

	newUser := &User{
		Email:        &email,
		PasswordHash: &hash,
		FirstName:    trimmedOrNil(req.FirstName),
		LastName:     trimmedOrNil(req.LastName),
		Role:         role,
		AuthProvider: "email",
	}
	if err := s.repo.Create(ctx, newUser); err != nil {
		return nil, err
	}

	if err := s.issueVerificationToken(ctx, newUser); err != nil {
		// The account exists; the user can request a new token later.
		s.logger.Error("Failed to issue verification token",
			zap.String("userID", newUser.ID.String()), zap.Error(err))
	}

	s.logger.Info("User registered",
		zap.String("userID", newUser.ID.String()),
		zap.String("role", newUser.Role))
	return mapUserToSharedUser(newUser), nil
}

func (s *ServiceImplementation) issueVerificationToken(ctx context.Context, u *User) error {
	tokenValue, err := crypto.GenerateSecureRandomString(32)
	if err != nil {
		return fmt.Errorf("generating verification token: %w", err)
	}
	vt := &VerificationToken{
		Token:     tokenValue,
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(s.cfg.VerificationTokenLifetime),
	}
	if err := s.repo.CreateVerificationToken(ctx, vt); err != nil {
		return err
	}
	verifyURL := fmt.Sprintf("%s/api/v1/auth/verify?token=%s", s.cfg.PublicBaseURL, tokenValue)
	if u.Email == nil {
		return nil
	}
	return s.mailer.SendVerificationEmail(ctx, *u.Email, verifyURL)
}

// VerifyEmail consumes a verification token and marks the account verified.
func (s *ServiceImplementation) VerifyEmail(ctx context.Context, token string) (*shared.User, error) {
	vt, err := s.repo.FindVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound.WithDetails("Verification token not found.")
		}
		return nil, err
	}
	if time.Now().After(vt.ExpiresAt) {
		return nil, common.ErrBadRequest.WithDetails("Verification token has expired.")
	}

	u, err := s.repo.FindByID(ctx, vt.UserID)
	if err != nil {
		return nil, err
	}
	if !u.IsEmailVerified {
		u.IsEmailVerified = true
		if err := s.repo.Update(ctx, u); err != nil {
			return nil, err
		}
	}
	if err := s.repo.DeleteVerificationToken(ctx, vt.ID); err != nil {
		s.logger.Warn("Failed to delete consumed verification token",
			zap.String("tokenID", vt.ID.String()), zap.Error(err))
	}

	s.logger.Info("Email verified", zap.String("userID", u.ID.String()))
	return mapUserToSharedUser(u), nil
}

// Login checks credentials and issues a token pair. Unverified accounts
// are rejected with 403, bad credentials with 401.
func (s *ServiceImplementation) Login(ctx context.Context, email, password string) (*shared.User, *shared.TokenResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, common.ErrUnauthorized.WithDetails("Invalid email or password.")
		}
		return nil, nil, err
	}
	if u.PasswordHash == nil || !common.CheckPasswordHash(password, *u.PasswordHash) {
		return nil, nil, common.ErrUnauthorized.WithDetails("Invalid email or password.")
	}
	if !u.IsEmailVerified {
		return nil, nil, common.ErrForbidden.WithDetails("Email address has not been verified.")
	}

	now := time.Now()
	u.LastLoginAt = &now
	if err := s.repo.Update(ctx, u); err != nil {
		s.logger.Warn("Failed to record last login", zap.String("userID", u.ID.String()), zap.Error(err))
	}

	sv := mapUserToSharedUser(u)
	accessToken, expiresAt, err := s.tokenService.GenerateAccessToken(sv)
	if err != nil {
		s.logger.Error("Failed to generate access token", zap.Error(err))
		return nil, nil, common.ErrInternalServer
	}
	refreshToken, _, err := s.tokenService.GenerateRefreshToken(sv)
	if err != nil {
		s.logger.Error("Failed to generate refresh token", zap.Error(err))
		return nil, nil, common.ErrInternalServer
	}

	s.logger.Info("User logged in", zap.String("userID", u.ID.String()))
	return sv, &shared.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		TokenType:    common.AuthorizationTypeBearer,
	}, nil
}

// GetUserByID retrieves a user by their internal ID.
func (s *ServiceImplementation) GetUserByID(ctx context.Context, id uuid.UUID) (*shared.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapUserToSharedUser(u), nil
}

// GetUserByEmail retrieves a user by email.
func (s *ServiceImplementation) GetUserByEmail(ctx context.Context, email string) (*shared.User, error) {
	u, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	return mapUserToSharedUser(u), nil
}

// FindOrCreateOrLinkOAuthUser resolves an OAuth profile to a local
// account: match on provider id first, then link a verified-email
// account, otherwise create a fresh student account.
func (s *ServiceImplementation) FindOrCreateOrLinkOAuthUser(ctx context.Context, profile shared.OAuthUserProfile) (*shared.User, bool, error) {
	existing, err := s.repo.FindByProvider(ctx, profile.Provider, profile.ProviderID)
	if err == nil {
		now := time.Now()
		existing.LastLoginAt = &now
		if updErr := s.repo.Update(ctx, existing); updErr != nil {
			s.logger.Warn("Failed to record OAuth login", zap.Error(updErr))
		}
		return mapUserToSharedUser(existing), false, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, false, err
	}

	email := strings.ToLower(strings.TrimSpace(profile.Email))
	if email != "" {
		byEmail, emailErr := s.repo.FindByEmail(ctx, email)
		if emailErr == nil {
			// Link only when the provider vouches for the address.
			if !profile.EmailVerified {
				return nil, false, common.ErrConflict.WithDetails(
					"An account with this email exists but the provider did not verify the address.")
			}
			byEmail.AuthProvider = profile.Provider
			byEmail.ProviderID = &profile.ProviderID
			byEmail.IsEmailVerified = true
			now := time.Now()
			byEmail.LastLoginAt = &now
			if updErr := s.repo.Update(ctx, byEmail); updErr != nil {
				return nil, false, updErr
			}
			s.logger.Info("Linked OAuth provider to existing account",
				zap.String("userID", byEmail.ID.String()),
				zap.String("provider", profile.Provider))
			return mapUserToSharedUser(byEmail), false, nil
		}
		if !errors.Is(emailErr, common.ErrNotFound) {
			return nil, false, emailErr
		}
	}

	now := time.Now()
	newUser := &User{
		AuthProvider:    profile.Provider,
		ProviderID:      &profile.ProviderID,
		Role:            common.RoleStudent,
		IsEmailVerified: profile.EmailVerified,
		FirstName:       trimmedOrNil(profile.FirstName),
		LastName:        trimmedOrNil(profile.LastName),
		LastLoginAt:     &now,
	}
	if email != "" {
		newUser.Email = &email
	}
	if err := s.repo.Create(ctx, newUser); err != nil {
		return nil, false, err
	}
	s.logger.Info("Created account from OAuth profile",
		zap.String("userID", newUser.ID.String()),
		zap.String("provider", profile.Provider))
	return mapUserToSharedUser(newUser), true, nil
}

// ListUsers returns a paginated slice of accounts. Admin use only; the
// handler enforces the role.
func (s *ServiceImplementation) ListUsers(ctx context.Context, pq common.PaginationQuery) ([]shared.User, int64, error) {
	users, total, err := s.repo.List(ctx, pq)
	if err != nil {
		return nil, 0, err
	}
	out := make([]shared.User, 0, len(users))
	for i := range users {
		out = append(out, *mapUserToSharedUser(&users[i]))
	}
	return out, total, nil
}

// DeleteUser removes an account. Admin use only.
func (s *ServiceImplementation) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("User deleted", zap.String("userID", id.String()))
	return nil
}

func trimmedOrNil(s string) *string {
	t := strings.TrimSpace(s)
	if t == "" {
		return nil
	}
	return &t
}
