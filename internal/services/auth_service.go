package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gotransit/internal/config"
	"gotransit/internal/models"
	"gotransit/internal/repositories/interfaces"
	"gotransit/internal/utils"
	"gotransit/pkg/cache"
	"gotransit/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, request *RegisterRequest) (*models.User, error)
	VerifyOTP(ctx context.Context, request *VerifyOTPRequest) (*AuthResponse, error)
	ResendOTP(ctx context.Context, email string) error
	Login(ctx context.Context, request *LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)
	Logout(ctx context.Context, userID primitive.ObjectID) error
	SendResetOTP(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, request *ResetPasswordRequest) error
	ChangePassword(ctx context.Context, userID primitive.ObjectID, request *ChangePasswordRequest) error
}

type authService struct {
	userRepo     interfaces.UserRepository
	cache        *cache.RedisCache
	emailService EmailService
	smsService   SMSService
	security     *config.SecurityConfig
	smsEnabled   bool
	logger       *logger.Logger
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=passenger driver admin"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

type AuthResponse struct {
	User   *models.User     `json:"user"`
	Tokens *utils.TokenPair `json:"tokens"`
}

func NewAuthService(
	userRepo interfaces.UserRepository,
	redisCache *cache.RedisCache,
	emailService EmailService,
	smsService SMSService,
	security *config.SecurityConfig,
	smsEnabled bool,
	logger *logger.Logger,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		cache:        redisCache,
		emailService: emailService,
		smsService:   smsService,
		security:     security,
		smsEnabled:   smsEnabled,
		logger:       logger,
	}
}

func (s *authService) Register(ctx context.Context, request *RegisterRequest) (*models.User, error) {
	email := utils.NormalizeEmail(request.Email)

	if !utils.IsValidPhone(request.Phone) {
		return nil, utils.NewValidationError("A valid phone number is required")
	}

	if existing, err := s.userRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, utils.NewConflict("User with this email already exists")
	}
	if existing, err := s.userRepo.GetByPhone(ctx, request.Phone); err == nil && existing != nil {
		return nil, utils.NewConflict("User with this phone already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, utils.NewInternal(fmt.Errorf("failed to hash password: %w", err))
	}

	code := utils.GenerateOTP(s.security.OTPLength)
	expiresAt := time.Now().Add(s.security.OTPExpiry)

	user := &models.User{
		Name:     request.Name,
		Email:    email,
		Phone:    request.Phone,
		Password: string(hash),
		Role:     models.UserRole(request.Role),
		OTP: &models.OTP{
			Code:      code,
			ExpiresAt: expiresAt,
		},
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, interfaces.ErrDuplicate) {
			return nil, utils.NewConflict("User with this email or phone already exists")
		}
		return nil, utils.NewInternal(err)
	}

	s.deliverOTP(ctx, user, code, expiresAt)

	s.logger.WithUserID(user.ID).Info("User registered, awaiting OTP verification")

	return user, nil
}

func (s *authService) VerifyOTP(ctx context.Context, request *VerifyOTPRequest) (*AuthResponse, error) {
	user, err := s.getUserByEmail(ctx, request.Email)
	if err != nil {
		return nil, err
	}

	if user.IsVerified {
		return nil, utils.NewAlreadyDone("Account is already verified")
	}

	if user.OTPAttempts >= s.security.MaxOTPAttempts {
		return nil, utils.NewForbidden("Too many failed attempts, account pending removal")
	}

	now := time.Now()
	if user.OTPExpired(now) {
		return nil, utils.NewExpired("Verification code has expired")
	}

	if user.OTP.Code != request.Code {
		_ = s.userRepo.Update(ctx, user.ID, map[string]interface{}{
			"otp_attempts": user.OTPAttempts + 1,
		})
		return nil, utils.NewValidationError("Invalid verification code")
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, utils.NewInternal(err)
	}

	updates := map[string]interface{}{
		"is_verified":         true,
		"otp":                 nil,
		"otp_attempts":        0,
		"otp_resend_attempts": 0,
		"refresh_token":       tokens.RefreshToken,
	}
	if err := s.userRepo.Update(ctx, user.ID, updates); err != nil {
		return nil, utils.NewInternal(err)
	}

	user.IsVerified = true
	user.OTP = nil

	s.logger.WithUserID(user.ID).Info("User verified")

	return &AuthResponse{User: user, Tokens: tokens}, nil
}

func (s *authService) ResendOTP(ctx context.Context, email string) error {
	user, err := s.getUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	if user.IsVerified {
		return utils.NewAlreadyDone("Account is already verified")
	}

	if user.OTPResendAttempts >= s.security.MaxOTPResends {
		return utils.NewForbidden("Resend limit reached, account pending removal")
	}

	if s.cache != nil {
		count, err := s.cache.IncrementWithWindow(ctx, "otp:resend:"+user.ID.Hex(), time.Minute)
		if err == nil && count > 1 {
			return utils.NewForbidden("Please wait before requesting another code")
		}
	}

	code := utils.GenerateOTP(s.security.OTPLength)
	expiresAt := time.Now().Add(s.security.OTPExpiry)

	updates := map[string]interface{}{
		"otp":                 &models.OTP{Code: code, ExpiresAt: expiresAt},
		"otp_resend_attempts": user.OTPResendAttempts + 1,
	}
	if err := s.userRepo.Update(ctx, user.ID, updates); err != nil {
		return utils.NewInternal(err)
	}

	s.deliverOTP(ctx, user, code, expiresAt)

	return nil
}

func (s *authService) Login(ctx context.Context, request *LoginRequest) (*AuthResponse, error) {
	user, err := s.getUserByEmail(ctx, request.Email)
	if err != nil {
		return nil, utils.NewUnauthorized("Invalid email or password")
	}

	if !user.IsVerified {
		return nil, utils.NewForbidden("Account is not verified")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(request.Password)) != nil {
		return nil, utils.NewUnauthorized("Invalid email or password")
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, utils.NewInternal(err)
	}

	if err := s.userRepo.Update(ctx, user.ID, map[string]interface{}{
		"refresh_token": tokens.RefreshToken,
	}); err != nil {
		return nil, utils.NewInternal(err)
	}

	s.logger.WithUserID(user.ID).Info("User logged in")

	return &AuthResponse{User: user, Tokens: tokens}, nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := utils.ValidateToken(refreshToken, s.security.JWTSecret)
	if err != nil {
		return nil, utils.NewUnauthorized("Invalid or expired refresh token")
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, utils.NewUnauthorized("Invalid refresh token")
	}

	// The stored token is invalidated on logout and password reset; a
	// mismatch means this token was revoked.
	if user.RefreshToken != refreshToken {
		return nil, utils.NewUnauthorized("Refresh token has been revoked")
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, utils.NewInternal(err)
	}

	if err := s.userRepo.Update(ctx, user.ID, map[string]interface{}{
		"refresh_token": tokens.RefreshToken,
	}); err != nil {
		return nil, utils.NewInternal(err)
	}

	return &AuthResponse{User: user, Tokens: tokens}, nil
}

func (s *authService) Logout(ctx context.Context, userID primitive.ObjectID) error {
	if err := s.userRepo.Update(ctx, userID, map[string]interface{}{
		"refresh_token": "",
	}); err != nil {
		return utils.NewInternal(err)
	}

	return nil
}

func (s *authService) SendResetOTP(ctx context.Context, email string) error {
	user, err := s.getUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	code := utils.GenerateOTP(s.security.OTPLength)
	expiresAt := time.Now().Add(s.security.OTPExpiry)

	if err := s.userRepo.Update(ctx, user.ID, map[string]interface{}{
		"otp": &models.OTP{Code: code, ExpiresAt: expiresAt},
	}); err != nil {
		return utils.NewInternal(err)
	}

	s.deliverOTP(ctx, user, code, expiresAt)

	return nil
}

func (s *authService) ResetPassword(ctx context.Context, request *ResetPasswordRequest) error {
	user, err := s.getUserByEmail(ctx, request.Email)
	if err != nil {
		return err
	}

	if user.OTPExpired(time.Now()) {
		return utils.NewExpired("Reset code has expired")
	}

	if user.OTP.Code != request.Code {
		return utils.NewValidationError("Invalid reset code")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return utils.NewInternal(err)
	}

	updates := map[string]interface{}{
		"password":      string(hash),
		"otp":           nil,
		"refresh_token": "",
	}
	if err := s.userRepo.Update(ctx, user.ID, updates); err != nil {
		return utils.NewInternal(err)
	}

	s.logger.WithUserID(user.ID).Info("Password reset")

	return nil
}

func (s *authService) ChangePassword(ctx context.Context, userID primitive.ObjectID, request *ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return utils.NewNotFound("User")
		}
		return utils.NewInternal(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(request.CurrentPassword)) != nil {
		return utils.NewUnauthorized("Current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return utils.NewInternal(err)
	}

	updates := map[string]interface{}{
		"password":      string(hash),
		"refresh_token": "",
	}
	if err := s.userRepo.Update(ctx, userID, updates); err != nil {
		return utils.NewInternal(err)
	}

	return nil
}

func (s *authService) getUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFound("User")
		}
		return nil, utils.NewInternal(err)
	}

	return user, nil
}

func (s *authService) issueTokens(user *models.User) (*utils.TokenPair, error) {
	return utils.GenerateTokenPair(
		user.ID,
		string(user.Role),
		user.Email,
		s.security.JWTSecret,
		s.security.JWTAccessTokenTTL,
		s.security.JWTRefreshTokenTTL,
	)
}

// deliverOTP sends the code over email, and over SMS when enabled. Delivery
// failures are logged, not surfaced; the user can resend.
func (s *authService) deliverOTP(ctx context.Context, user *models.User, code string, expiresAt time.Time) {
	if err := s.emailService.SendOTPEmail(ctx, user.Email, code, expiresAt); err != nil {
		s.logger.WithError(err).WithUserID(user.ID).Error("Failed to deliver OTP email")
	}

	if s.smsEnabled && s.smsService != nil && user.Phone != "" {
		if err := s.smsService.SendOTPSMS(ctx, user.Phone, code); err != nil {
			s.logger.WithError(err).WithUserID(user.ID).Error("Failed to deliver OTP SMS")
		}
	}
}
