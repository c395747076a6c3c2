package handlers

import (
	"net/http"

	"gotransit/internal/config"
	"gotransit/internal/services"
	"gotransit/internal/utils"
	"gotransit/pkg/logger"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService services.AuthService
	security    *config.SecurityConfig
	debug       bool
	logger      *logger.Logger
}

func NewAuthHandler(authService services.AuthService, security *config.SecurityConfig, debug bool, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		security:    security,
		debug:       debug,
		logger:      logger,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var request services.RegisterRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &request)
	if err != nil {
		utils.HandleError(c, err, h.debug)
		return
	}

	utils.CreatedResponse(c, "Registered. Verify the OTP sent to your email.", gin.H{
		"user": user,
	})
}

func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var request services.VerifyOTPRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	auth, err := h.authService.VerifyOTP(c.Request.Context(), &request)
	if err != nil {
		utils.HandleError(c, err, h.debug)
		return
	}

	h.setTokenCookies(c, auth.Tokens.AccessToken, auth.Tokens.RefreshToken)

	utils.SuccessResponse(c, "Account verified", auth)
}

func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var request struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := h.authService.ResendOTP(c.Request.Context(), request.Email); err != nil {
		utils.HandleError(c, err, h.debug)
		return
	}

	utils.SuccessResponse(c, "OTP resent", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var request services.LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	auth, err := h.authService.Login(c.Request.Context(), &request)
	if err != nil {
		utils.HandleError(c, err, h.debug)
		return
	}

	h.setTokenCookies(c, auth.Tokens.AccessToken, auth.Tokens.RefreshToken)

	utils.SuccessResponse(c, "Logged in", auth)
}

// RefreshToken accepts the refresh token from the cookie or the body.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	token, _ := c.Cookie(utils.RefreshTokenCookie)
	if token == "" {
		var request struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.ShouldBindJSON(&request); err == nil {
			token = request.RefreshToken
		}
	}
	if token == "" {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Refresh token is required")
		return
	}

	auth, err := h.authService.RefreshToken(c.Request.Context(), token)
	if err != nil {
		utils.HandleError(c, err, h.debug)
		return
	}

	h.setTokenCookies(c, auth.Tokens.AccessToken, auth.Tokens.RefreshToken)

	utils.SuccessResponse(c, "Token refreshed", auth)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), userID); err != nil {
		utils.HandleError(c, err, h.debug)
		return
	}

	h.clearTokenCookies(c)

	utils.SuccessResponse(c, "Logged out", nil)
}

func (h *AuthHandler) SendResetOTP(c *gin.Context) {
	var request struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := h.authService.SendResetOTP(c.Request.Context(), request.Email); err != nil {
		utils.HandleError(c, err, h.debug)
		return
	}

	utils.SuccessResponse(c, "Reset OTP sent", nil)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var request services.ResetPasswordRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), &request); err != nil {
		utils.HandleError(c, err, h.debug)
		return
	}

	utils.SuccessResponse(c, "Password reset", nil)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var request services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), userID, &request); err != nil {
		utils.HandleError(c, err, h.debug)
		return
	}

	utils.SuccessResponse(c, "Password changed", nil)
}

func (h *AuthHandler) setTokenCookies(c *gin.Context, accessToken, refreshToken string) {
	accessMaxAge := int(h.security.JWTAccessTokenTTL.Seconds())
	refreshMaxAge := int(h.security.JWTRefreshTokenTTL.Seconds())

	c.SetCookie(utils.AccessTokenCookie, accessToken, accessMaxAge, "/", h.security.CookieDomain, h.security.CookieSecure, true)
	c.SetCookie(utils.RefreshTokenCookie, refreshToken, refreshMaxAge, "/", h.security.CookieDomain, h.security.CookieSecure, true)
}

func (h *AuthHandler) clearTokenCookies(c *gin.Context) {
	c.SetCookie(utils.AccessTokenCookie, "", -1, "/", h.security.CookieDomain, h.security.CookieSecure, true)
	c.SetCookie(utils.RefreshTokenCookie, "", -1, "/", h.security.CookieDomain, h.security.CookieSecure, true)
}
