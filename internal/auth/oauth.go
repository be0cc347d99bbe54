// File: internal/auth/oauth.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"unihome_backend/internal/common"
	"unihome_backend/internal/config"
	"unihome_backend/internal/platform/crypto"
	"unihome_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const providerGoogle = "google"

// googleUserInfoURL is a variable so tests can point it at a stub server.
var googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// OAuthService defines the operations for third-party login.
type OAuthService interface {
	GetGoogleLoginURL(c *gin.Context) (string, error)
	HandleGoogleCallback(c *gin.Context, code, state string) (*shared.User, *shared.TokenResponse, error)
}

type oauthService struct {
	cfg          *config.Config
	userService  shared.Service
	tokenService shared.TokenService
	logger       *zap.Logger
}

// NewOAuthService creates a new OAuth service.
func NewOAuthService(
	cfg *config.Config,
	userService shared.Service,
	tokenService shared.TokenService,
	logger *zap.Logger,
) OAuthService {
	return &oauthService{
		cfg:          cfg,
		userService:  userService,
		tokenService: tokenService,
		logger:       logger.Named("oauth_service"),
	}
}

func getGoogleOAuthConfig(cfg *config.Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURI,
		Scopes:       []string{"openid", "profile", "email"},
		Endpoint:     google.Endpoint,
	}
}

// setOAuthStateCookie stores the CSRF state in a short-lived HttpOnly cookie.
func setOAuthStateCookie(c *gin.Context, cfg *config.Config, state string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cfg.OAuthStateCookieName,
		Value:    state,
		Path:     "/",
		Domain:   cfg.RefreshCookieDomain,
		MaxAge:   10 * 60,
		Secure:   cfg.RefreshCookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popOAuthStateCookie retrieves and clears the state cookie.
func popOAuthStateCookie(c *gin.Context, cfg *config.Config) (string, error) {
	cookie, err := c.Request.Cookie(cfg.OAuthStateCookieName)
	if err != nil {
		return "", fmt.Errorf("%s cookie not found: %w", cfg.OAuthStateCookieName, err)
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cfg.OAuthStateCookieName,
		Value:    "",
		Path:     "/",
		Domain:   cfg.RefreshCookieDomain,
		MaxAge:   -1,
		Secure:   cfg.RefreshCookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return cookie.Value, nil
}

// GetGoogleLoginURL generates the Google authorization URL and plants
// the CSRF state cookie.
func (s *oauthService) GetGoogleLoginURL(c *gin.Context) (string, error) {
	state, err := crypto.GenerateSecureRandomString(32)
	if err != nil {
		s.logger.Error("Failed to generate OAuth state", zap.Error(err))
		return "", common.ErrInternalServer.WithDetails("Could not initiate Google login.")
	}
	setOAuthStateCookie(c, s.cfg, state)

	googleCfg := getGoogleOAuthConfig(s.cfg)
	return googleCfg.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

// HandleGoogleCallback verifies state, exchanges the code, fetches the
// Google profile and resolves it to a local account with tokens.
func (s *oauthService) HandleGoogleCallback(c *gin.Context, code, state string) (*shared.User, *shared.TokenResponse, error) {
	storedState, err := popOAuthStateCookie(c, s.cfg)
	if err != nil {
		s.logger.Warn("OAuth state cookie missing on Google callback", zap.Error(err))
		return nil, nil, common.ErrBadRequest.WithDetails("Invalid session or state mismatch.")
	}
	if state != storedState {
		s.logger.Warn("Google OAuth state mismatch")
		return nil, nil, common.ErrBadRequest.WithDetails("OAuth state mismatch.")
	}

	googleCfg := getGoogleOAuthConfig(s.cfg)
	ctx := context.WithValue(c.Request.Context(), oauth2.HTTPClient, http.DefaultClient)

	token, err := googleCfg.Exchange(ctx, code)
	if err != nil {
		s.logger.Error("Failed to exchange Google auth code", zap.Error(err))
		return nil, nil, common.ErrServiceUnavailable.WithDetails("Could not exchange Google auth code.")
	}
	if !token.Valid() {
		return nil, nil, common.ErrServiceUnavailable.WithDetails("Received invalid token from Google.")
	}

	client := googleCfg.Client(ctx, token)
	userInfoResp, err := client.Get(googleUserInfoURL)
	if err != nil {
		s.logger.Error("Failed to fetch user info from Google", zap.Error(err))
		return nil, nil, common.ErrServiceUnavailable.WithDetails("Could not fetch user info from Google.")
	}
	defer userInfoResp.Body.Close()

	if userInfoResp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(userInfoResp.Body)
		s.logger.Error("Google user info request failed",
			zap.Int("status", userInfoResp.StatusCode),
			zap.ByteString("body", bodyBytes))
		return nil, nil, common.ErrServiceUnavailable.WithDetails(
			fmt.Sprintf("Google returned status %d for user info.", userInfoResp.StatusCode))
	}

	var googleUser struct {
		Sub           string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		GivenName     string `json:"given_name"`
		FamilyName    string `json:"family_name"`
	}
	if err := json.NewDecoder(userInfoResp.Body).Decode(&googleUser); err != nil {
		s.logger.Error("Failed to decode Google user info", zap.Error(err))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not process Google user information.")
	}

	profile := shared.OAuthUserProfile{
		Provider:      providerGoogle,
		ProviderID:    googleUser.Sub,
		Email:         strings.ToLower(googleUser.Email),
		FirstName:     googleUser.GivenName,
		LastName:      googleUser.FamilyName,
		EmailVerified: googleUser.EmailVerified,
	}

	appUser, _, err := s.userService.FindOrCreateOrLinkOAuthUser(c.Request.Context(), profile)
	if err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return nil, nil, err
		}
		s.logger.Error("Failed to resolve Google profile to a local account", zap.Error(err))
		return nil, nil, common.ErrInternalServer.WithDetails("Failed to process account after Google login.")
	}

	accessToken, accessExpiresAt, err := s.tokenService.GenerateAccessToken(appUser)
	if err != nil {
		s.logger.Error("Failed to generate access token after Google login",
			zap.Error(err), zap.String("userID", appUser.ID.String()))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not generate access token.")
	}
	refreshToken, _, err := s.tokenService.GenerateRefreshToken(appUser)
	if err != nil {
		s.logger.Error("Failed to generate refresh token after Google login",
			zap.Error(err), zap.String("userID", appUser.ID.String()))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not generate refresh token.")
	}

	s.logger.Info("Google OAuth login successful", zap.String("userID", appUser.ID.String()))
	return appUser, &shared.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    common.AuthorizationTypeBearer,
		ExpiresAt:    accessExpiresAt,
	}, nil
}
