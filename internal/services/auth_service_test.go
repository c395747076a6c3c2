package services

import (
	"context"
	"testing"
	"time"

	"gotransit/internal/config"
	"gotransit/internal/models"
	"gotransit/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmailService struct {
	sent []string
}

func (f *fakeEmailService) SendEmail(_ context.Context, to, _, _ string) error {
	f.sent = append(f.sent, to)
	return nil
}

func (f *fakeEmailService) SendOTPEmail(_ context.Context, to, _ string, _ time.Time) error {
	f.sent = append(f.sent, to)
	return nil
}

type fakeSMSService struct {
	sent []string
}

func (f *fakeSMSService) SendOTPSMS(_ context.Context, phone, _ string) error {
	f.sent = append(f.sent, phone)
	return nil
}

func testSecurityConfig() *config.SecurityConfig {
	return &config.SecurityConfig{
		JWTSecret:          "test-secret",
		JWTAccessTokenTTL:  time.Hour,
		JWTRefreshTokenTTL: 24 * time.Hour,
		OTPLength:          6,
		OTPExpiry:          2 * time.Minute,
		MaxOTPAttempts:     5,
		MaxOTPResends:      3,
		RideVerifyWindow:   5 * time.Minute,
	}
}

func newAuthFixture() (AuthService, *fakeUserRepo, *fakeEmailService) {
	userRepo := newFakeUserRepo()
	email := &fakeEmailService{}
	svc := NewAuthService(userRepo, nil, email, &fakeSMSService{}, testSecurityConfig(), false, newTestLogger())
	return svc, userRepo, email
}

func registerUser(t *testing.T, svc AuthService) *models.User {
	t.Helper()

	user, err := svc.Register(context.Background(), &RegisterRequest{
		Name:     "Asha",
		Email:    "Asha@Example.com",
		Phone:    "+15551234567",
		Password: "supersecret",
		Role:     "passenger",
	})
	require.NoError(t, err)
	return user
}

func TestRegisterNormalizesEmailAndSendsOTP(t *testing.T) {
	svc, userRepo, email := newAuthFixture()

	user := registerUser(t, svc)

	assert.Equal(t, "asha@example.com", user.Email)
	assert.False(t, user.IsVerified)
	require.NotNil(t, user.OTP)
	assert.Len(t, user.OTP.Code, 6)
	assert.NotEqual(t, "supersecret", user.Password)
	assert.Equal(t, []string{"asha@example.com"}, email.sent)
	assert.Contains(t, userRepo.users, user.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture()

	registerUser(t, svc)

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Name:     "Other",
		Email:    "asha@example.com",
		Phone:    "+15557654321",
		Password: "supersecret",
		Role:     "passenger",
	})
	require.Error(t, err)
	assert.Equal(t, utils.CodeConflict, utils.AsAppError(err).Code)
}

func TestVerifyOTPSuccess(t *testing.T) {
	svc, userRepo, _ := newAuthFixture()

	user := registerUser(t, svc)
	code := user.OTP.Code

	auth, err := svc.VerifyOTP(context.Background(), &VerifyOTPRequest{
		Email: user.Email,
		Code:  code,
	})
	require.NoError(t, err)

	assert.True(t, auth.User.IsVerified)
	assert.Nil(t, auth.User.OTP)
	assert.NotEmpty(t, auth.Tokens.AccessToken)
	assert.NotEmpty(t, auth.Tokens.RefreshToken)
	assert.Equal(t, auth.Tokens.RefreshToken, userRepo.users[user.ID].RefreshToken)
}

func TestVerifyOTPWrongCodeCountsAttempt(t *testing.T) {
	svc, userRepo, _ := newAuthFixture()

	user := registerUser(t, svc)

	_, err := svc.VerifyOTP(context.Background(), &VerifyOTPRequest{
		Email: user.Email,
		Code:  "000000",
	})
	require.Error(t, err)
	assert.Equal(t, utils.CodeValidation, utils.AsAppError(err).Code)
	assert.Equal(t, 1, userRepo.users[user.ID].OTPAttempts)
}

func TestVerifyOTPAttemptLimit(t *testing.T) {
	svc, userRepo, _ := newAuthFixture()

	user := registerUser(t, svc)
	userRepo.users[user.ID].OTPAttempts = 5

	_, err := svc.VerifyOTP(context.Background(), &VerifyOTPRequest{
		Email: user.Email,
		Code:  user.OTP.Code,
	})
	require.Error(t, err)
	assert.Equal(t, utils.CodeForbidden, utils.AsAppError(err).Code)
}

func TestVerifyOTPExpiredCode(t *testing.T) {
	svc, userRepo, _ := newAuthFixture()

	user := registerUser(t, svc)
	userRepo.users[user.ID].OTP.ExpiresAt = time.Now().Add(-time.Second)

	_, err := svc.VerifyOTP(context.Background(), &VerifyOTPRequest{
		Email: user.Email,
		Code:  user.OTP.Code,
	})
	require.Error(t, err)
	assert.Equal(t, utils.CodeExpired, utils.AsAppError(err).Code)
}

func TestVerifyOTPAlreadyVerified(t *testing.T) {
	svc, userRepo, _ := newAuthFixture()

	user := registerUser(t, svc)
	userRepo.users[user.ID].IsVerified = true

	_, err := svc.VerifyOTP(context.Background(), &VerifyOTPRequest{
		Email: user.Email,
		Code:  "whatever",
	})
	require.Error(t, err)
	assert.Equal(t, utils.CodeAlreadyDone, utils.AsAppError(err).Code)
}

func TestResendOTPLimit(t *testing.T) {
	svc, userRepo, _ := newAuthFixture()

	user := registerUser(t, svc)
	userRepo.users[user.ID].OTPResendAttempts = 3

	err := svc.ResendOTP(context.Background(), user.Email)
	require.Error(t, err)
	assert.Equal(t, utils.CodeForbidden, utils.AsAppError(err).Code)
}

func TestResendOTPRotatesCode(t *testing.T) {
	svc, userRepo, email := newAuthFixture()

	user := registerUser(t, svc)

	require.NoError(t, svc.ResendOTP(context.Background(), user.Email))
	assert.Equal(t, 1, userRepo.users[user.ID].OTPResendAttempts)
	assert.Len(t, email.sent, 2)
}

func TestLoginRequiresVerification(t *testing.T) {
	svc, _, _ := newAuthFixture()

	user := registerUser(t, svc)

	_, err := svc.Login(context.Background(), &LoginRequest{
		Email:    user.Email,
		Password: "supersecret",
	})
	require.Error(t, err)
	assert.Equal(t, utils.CodeForbidden, utils.AsAppError(err).Code)
}

func TestLoginAndRefreshRotation(t *testing.T) {
	svc, userRepo, _ := newAuthFixture()

	user := registerUser(t, svc)
	_, err := svc.VerifyOTP(context.Background(), &VerifyOTPRequest{Email: user.Email, Code: user.OTP.Code})
	require.NoError(t, err)

	auth, err := svc.Login(context.Background(), &LoginRequest{
		Email:    user.Email,
		Password: "supersecret",
	})
	require.NoError(t, err)

	first := auth.Tokens.RefreshToken
	assert.Equal(t, first, userRepo.users[user.ID].RefreshToken)

	refreshed, err := svc.RefreshToken(context.Background(), first)
	require.NoError(t, err)
	assert.Equal(t, refreshed.Tokens.RefreshToken, userRepo.users[user.ID].RefreshToken)

	// The old token was rotated out and no longer works.
	if refreshed.Tokens.RefreshToken != first {
		_, err = svc.RefreshToken(context.Background(), first)
		require.Error(t, err)
		assert.Equal(t, utils.CodeUnauthorized, utils.AsAppError(err).Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, userRepo, _ := newAuthFixture()

	user := registerUser(t, svc)
	userRepo.users[user.ID].IsVerified = true

	_, err := svc.Login(context.Background(), &LoginRequest{
		Email:    user.Email,
		Password: "not-the-password",
	})
	require.Error(t, err)
	assert.Equal(t, utils.CodeUnauthorized, utils.AsAppError(err).Code)
}

func TestLogoutClearsRefreshToken(t *testing.T) {
	svc, userRepo, _ := newAuthFixture()

	user := registerUser(t, svc)
	_, err := svc.VerifyOTP(context.Background(), &VerifyOTPRequest{Email: user.Email, Code: user.OTP.Code})
	require.NoError(t, err)
	require.NotEmpty(t, userRepo.users[user.ID].RefreshToken)

	require.NoError(t, svc.Logout(context.Background(), user.ID))
	assert.Empty(t, userRepo.users[user.ID].RefreshToken)
}

func TestResetPasswordFlow(t *testing.T) {
	svc, userRepo, _ := newAuthFixture()

	user := registerUser(t, svc)
	userRepo.users[user.ID].IsVerified = true

	require.NoError(t, svc.SendResetOTP(context.Background(), user.Email))
	code := userRepo.users[user.ID].OTP.Code

	require.NoError(t, svc.ResetPassword(context.Background(), &ResetPasswordRequest{
		Email:       user.Email,
		Code:        code,
		NewPassword: "betterpassword",
	}))

	_, err := svc.Login(context.Background(), &LoginRequest{
		Email:    user.Email,
		Password: "betterpassword",
	})
	require.NoError(t, err)
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	svc, _, _ := newAuthFixture()

	user := registerUser(t, svc)

	err := svc.ChangePassword(context.Background(), user.ID, &ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "newpassword1",
	})
	require.Error(t, err)
	assert.Equal(t, utils.CodeUnauthorized, utils.AsAppError(err).Code)
}
