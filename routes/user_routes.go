package routes

import "github.com/gin-gonic/gin"

func registerUserRoutes(api *gin.RouterGroup, h *Handlers, auth gin.HandlerFunc) {
	users := api.Group("/users")
	{
		users.POST("/register", h.Auth.Register)
		users.POST("/verifyOTP", h.Auth.VerifyOTP)
		users.POST("/resendOTP", h.Auth.ResendOTP)
		users.POST("/login", h.Auth.Login)
		users.POST("/refresh-token", h.Auth.RefreshToken)
		users.POST("/sendResetOTP", h.Auth.SendResetOTP)
		users.POST("/reset-password", h.Auth.ResetPassword)

		users.GET("/current-user", auth, h.User.GetCurrentUser)
		users.PUT("/logout", auth, h.Auth.Logout)
		users.PUT("/change-password", auth, h.Auth.ChangePassword)
		users.PUT("/update-avatar", auth, h.User.UpdateAvatar)
		users.PUT("/current-location", auth, h.User.UpdateLocation)
		users.DELETE("/delete-account", auth, h.User.DeleteAccount)
	}
}
