package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/application/service"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/internal/presentation/http/dto/response"
	"github.com/sangkips/tillpoint-api/pkg/pagination"
	"github.com/sangkips/tillpoint-api/pkg/utils"
)

const dateLayout = "2006-01-02"

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetUserName extracts the display name, falling back to the email
func GetUserName(c *gin.Context) string {
	if name := c.GetString("user_name"); name != "" {
		return name
	}
	return c.GetString("user_email")
}

// GetUserRoles extracts the user roles from the Gin context
func GetUserRoles(c *gin.Context) []string {
	return c.GetStringSlice("user_roles")
}

// GetUserPermissions extracts the user permissions from the Gin context
func GetUserPermissions(c *gin.Context) []string {
	return c.GetStringSlice("user_permissions")
}

// GetSelectedTill returns the till loaded by the SelectedTill middleware
func GetSelectedTill(c *gin.Context) *uuid.UUID {
	v, exists := c.Get("till_id")
	if !exists {
		return nil
	}
	tillID, ok := v.(uuid.UUID)
	if !ok {
		return nil
	}
	return &tillID
}

// IsAdmin checks if the user has the admin role
func IsAdmin(c *gin.Context) bool {
	for _, role := range GetUserRoles(c) {
		if role == entity.RoleAdmin {
			return true
		}
	}
	return false
}

// posSession builds the caller's session, writing a 401 when there is none
func posSession(c *gin.Context) (*service.Session, bool) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return nil, false
	}
	return &service.Session{
		OwnerID:     *userID,
		Name:        GetUserName(c),
		TillID:      GetSelectedTill(c),
		Roles:       GetUserRoles(c),
		Permissions: GetUserPermissions(c),
	}, true
}

// uuidParam parses a path parameter, writing a 400 when it is malformed
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := utils.ParseUUID(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// optionalUUIDQuery parses an optional query parameter
func optionalUUIDQuery(c *gin.Context, name string) (*uuid.UUID, bool) {
	id, err := utils.ParseOptionalUUID(c.Query(name))
	if err != nil {
		response.BadRequest(c, "Invalid "+name)
		return nil, false
	}
	return id, true
}

// dateRange parses from/to dates. To is inclusive, so it is moved to the
// start of the following day.
func dateRange(fromStr, toStr string) (from, to *time.Time) {
	if fromStr != "" {
		if d, err := time.ParseInLocation(dateLayout, fromStr, time.Local); err == nil {
			from = &d
		}
	}
	if toStr != "" {
		if d, err := time.ParseInLocation(dateLayout, toStr, time.Local); err == nil {
			end := d.AddDate(0, 0, 1)
			to = &end
		}
	}
	return from, to
}

func pageQuery(c *gin.Context) *pagination.PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))
	return &pagination.PaginationParams{Page: page, PerPage: perPage}
}
