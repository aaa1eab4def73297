package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/repository"
	"github.com/sangkips/tillpoint-api/internal/presentation/http/dto/response"
	"github.com/sangkips/tillpoint-api/pkg/apperror"
)

// RequireFreshSession rejects every request from a user who closed a till and
// has not re-authenticated since. Must run after AuthMiddleware.
func RequireFreshSession(sessions repository.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := c.Get("user_id")
		if !ok {
			response.Unauthorized(c, "User not authenticated")
			c.Abort()
			return
		}

		forced, err := sessions.IsForceReauth(c.Request.Context(), userID.(uuid.UUID))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if forced {
			response.Error(c, apperror.ErrReauthRequired)
			c.Abort()
			return
		}

		c.Next()
	}
}

// SelectedTill loads the user's selected till into the context as "till_id"
func SelectedTill(sessions repository.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := c.Get("user_id")
		if !ok {
			c.Next()
			return
		}

		tillID, err := sessions.GetSelectedTill(c.Request.Context(), userID.(uuid.UUID))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if tillID != nil {
			c.Set("till_id", *tillID)
		}

		c.Next()
	}
}
