package middleware

import (
	"slices"

	"github.com/gin-gonic/gin"
)

// userIDKey and roleKey store the authenticated subject and role.
const (
	userIDKey = contextKey("userID")
	roleKey   = contextKey("role")
)

// Roles carried in the token's role claim.
const (
	RoleAdmin  = "admin"
	RoleDriver = "driver"
	RoleDevice = "device"
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	return stringFromContext(c, userIDKey)
}

// GetRoleFromContext retrieves the authenticated role.
func GetRoleFromContext(c *gin.Context) (string, bool) {
	return stringFromContext(c, roleKey)
}

// HasRole reports whether the caller holds one of roles.
func HasRole(c *gin.Context, roles ...string) bool {
	role, ok := GetRoleFromContext(c)
	return ok && slices.Contains(roles, role)
}

func stringFromContext(c *gin.Context, key contextKey) (string, bool) {
	if v, exists := c.Get(string(key)); exists {
		s, ok := v.(string)
		return s, ok && s != ""
	}
	// check in the request context as well
	if s, ok := c.Request.Context().Value(key).(string); ok && s != "" {
		return s, true
	}
	return "", false
}
