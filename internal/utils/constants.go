package utils

const (
	AppName = "GoTransit"

	// Context keys set by the auth middleware.
	ContextUserIDKey   = "user_id"
	ContextUserRoleKey = "user_role"

	// Cookie names for the token pair.
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"

	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)
