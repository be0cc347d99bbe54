// File: internal/auth/handler.go
package auth

import (
	"errors"
	"net/http"

	"unihome_backend/internal/common"
	"unihome_backend/internal/config"
	"unihome_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for auth handlers.
type Handler struct {
	userService  shared.Service
	tokenService shared.TokenService
	oauthService OAuthService
	blocklist    TokenBlocklistService
	cfg          *config.Config
	logger       *zap.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(
	userService shared.Service,
	tokenService shared.TokenService,
	oauthService OAuthService,
	blocklist TokenBlocklistService,
	cfg *config.Config,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		userService:  userService,
		tokenService: tokenService,
		oauthService: oauthService,
		blocklist:    blocklist,
		cfg:          cfg,
		logger:       logger.Named("auth_handler"),
	}
}

// RegisterRoutes sets up the routes for authentication operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/signup", h.signup)
		authGroup.GET("/verify", h.verifyEmail)
		authGroup.POST("/login", h.login)
		authGroup.POST("/refresh-token", h.refreshToken)
		authGroup.POST("/logout", h.logout)
		authGroup.GET("/google", h.googleLogin)
		authGroup.GET("/google/callback", h.googleCallback)
	}
}

func (h *Handler) signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Signup: invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	newUser, err := h.userService.Register(c.Request.Context(), shared.CreateUserRequest{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	common.RespondCreated(c, "Account created. Check your email for a verification link.",
		shared.ToUserResponse(newUser))
}

func (h *Handler) verifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Missing verification token."))
		return
	}

	verifiedUser, err := h.userService.VerifyEmail(c.Request.Context(), token)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Email verified successfully.", shared.ToUserResponse(verifiedUser))
}

func (h *Handler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Login: invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	loggedInUser, tokenResponse, err := h.userService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	h.setRefreshCookie(c, tokenResponse.RefreshToken)

	response := gin.H{
		"user":  shared.ToUserResponse(loggedInUser),
		"token": tokenResponse,
	}
	common.RespondOK(c, "Login successful.", response)
}

// refreshToken rotates the token pair. The refresh token travels only in
// the HttpOnly cookie set at login.
func (h *Handler) refreshToken(c *gin.Context) {
	refreshToken, err := c.Cookie(h.cfg.RefreshCookieName)
	if err != nil || refreshToken == "" {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Missing refresh token."))
		return
	}

	claims, err := h.tokenService.ParseRefreshToken(refreshToken)
	if err != nil {
		h.logger.Warn("Refresh token validation failed", zap.Error(err))
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Invalid or expired refresh token."))
		return
	}

	if claims.ID != "" {
		blocked, blErr := h.blocklist.IsBlocklisted(c.Request.Context(), claims.ID)
		if blErr != nil {
			h.logger.Error("Blocklist lookup failed", zap.Error(blErr))
			common.RespondWithError(c, common.ErrInternalServer)
			return
		}
		if blocked {
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Refresh token has been revoked."))
			return
		}
	}

	u, err := h.userService.GetUserByID(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Warn("User not found for valid refresh token",
			zap.String("userID", claims.UserID.String()), zap.Error(err))
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Account associated with refresh token not found."))
		return
	}

	newAccessToken, newAccessExpiresAt, err := h.tokenService.GenerateAccessToken(u)
	if err != nil {
		h.logger.Error("Failed to generate access token during refresh", zap.Error(err))
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Could not generate new access token."))
		return
	}
	newRefreshToken, _, err := h.tokenService.GenerateRefreshToken(u)
	if err != nil {
		h.logger.Error("Failed to generate refresh token during refresh", zap.Error(err))
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Could not generate new refresh token."))
		return
	}

	// Revoke the old refresh token now that the pair has rotated.
	if claims.ID != "" && claims.ExpiresAt != nil {
		if blErr := h.blocklist.AddToBlocklist(c.Request.Context(), claims.ID, claims.ExpiresAt.Time); blErr != nil {
			h.logger.Warn("Failed to blocklist rotated refresh token", zap.Error(blErr))
		}
	}

	h.setRefreshCookie(c, newRefreshToken)

	common.RespondOK(c, "Token refreshed successfully.", &shared.TokenResponse{
		AccessToken: newAccessToken,
		TokenType:   common.AuthorizationTypeBearer,
		ExpiresAt:   newAccessExpiresAt,
	})
}

// logout revokes the refresh token and clears its cookie.
func (h *Handler) logout(c *gin.Context) {
	refreshToken, err := c.Cookie(h.cfg.RefreshCookieName)
	if err == nil && refreshToken != "" {
		if claims, parseErr := h.tokenService.ParseRefreshToken(refreshToken); parseErr == nil {
			if claims.ID != "" && claims.ExpiresAt != nil {
				if blErr := h.blocklist.AddToBlocklist(c.Request.Context(), claims.ID, claims.ExpiresAt.Time); blErr != nil {
					h.logger.Warn("Failed to blocklist refresh token on logout", zap.Error(blErr))
				}
			}
		}
	}
	h.clearRefreshCookie(c)
	common.RespondOK(c, "Logged out successfully.", nil)
}

func (h *Handler) googleLogin(c *gin.Context) {
	authURL, err := h.oauthService.GetGoogleLoginURL(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

func (h *Handler) googleCallback(c *gin.Context) {
	if errorParam := c.Query("error"); errorParam != "" {
		errorDesc := c.Query("error_description")
		h.logger.Warn("Google OAuth callback error",
			zap.String("error", errorParam), zap.String("description", errorDesc))
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Google login failed: "+errorDesc))
		return
	}

	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Missing authorization code or state from Google."))
		return
	}

	appUser, tokenResponse, err := h.oauthService.HandleGoogleCallback(c, code, state)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	h.setRefreshCookie(c, tokenResponse.RefreshToken)

	response := gin.H{
		"user":  shared.ToUserResponse(appUser),
		"token": tokenResponse,
	}
	common.RespondOK(c, "Login successful.", response)
}

func (h *Handler) setRefreshCookie(c *gin.Context, refreshToken string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     h.cfg.RefreshCookieName,
		Value:    refreshToken,
		Path:     "/api/v1/auth",
		Domain:   h.cfg.RefreshCookieDomain,
		MaxAge:   int(h.cfg.JWTRefreshTokenExpiry.Seconds()),
		Secure:   h.cfg.RefreshCookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearRefreshCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     h.cfg.RefreshCookieName,
		Value:    "",
		Path:     "/api/v1/auth",
		Domain:   h.cfg.RefreshCookieDomain,
		MaxAge:   -1,
		Secure:   h.cfg.RefreshCookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
