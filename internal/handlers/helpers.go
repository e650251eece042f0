// internal/handlers/helpers.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/internhub/internhub-backend/internal/models"
	"github.com/internhub/internhub-backend/internal/utils"
)

// actor resolves the authenticated caller from the request context. A false
// return has already written the 401.
func actor(c *gin.Context) (uuid.UUID, models.UserType, bool) {
	userIDStr, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, "", false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, "", false
	}
	userTypeStr, ok := utils.GetUserTypeFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, "", false
	}
	return userID, models.UserType(userTypeStr), true
}

// pathUUID parses a :param path segment. A false return has already written
// the 400.
func pathUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		utils.BadRequestResponse(c, "invalid "+param, nil)
		return uuid.Nil, false
	}
	return id, true
}
