package handlers

import (
	"strconv"

	"gotransit/internal/models"
	"gotransit/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// currentUserID reads the principal set by the auth middleware.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	value, exists := c.Get(utils.ContextUserIDKey)
	if !exists {
		return primitive.NilObjectID, false
	}

	id, ok := value.(primitive.ObjectID)
	return id, ok
}

func currentUserRole(c *gin.Context) models.UserRole {
	value, exists := c.Get(utils.ContextUserRoleKey)
	if !exists {
		return ""
	}

	role, _ := value.(models.UserRole)
	return role
}

func parseObjectID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		utils.ErrorResponse(c, 400, "Invalid "+param)
		return primitive.NilObjectID, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, fallback int) int {
	value := c.Query(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
