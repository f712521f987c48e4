package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MustGetUserID extracts the authenticated user id set by AuthRequired.
// Aborts with 401 and returns false when the identity is missing.
func MustGetUserID(c *gin.Context) (uuid.UUID, bool) {
	value, ok := c.Get(ContextUserIDKey)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return uuid.Nil, false
	}

	userID, ok := value.(uuid.UUID)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return uuid.Nil, false
	}
	return userID, true
}

// MustGetTenantID extracts the tenant (organization) id set by AuthRequired.
// Aborts with 403 and returns false when the token carries no tenant.
func MustGetTenantID(c *gin.Context) (uuid.UUID, bool) {
	value, ok := c.Get(ContextTenantIDKey)
	if !ok {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "no organization scope"})
		return uuid.Nil, false
	}

	tenantID, ok := value.(uuid.UUID)
	if !ok {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "no organization scope"})
		return uuid.Nil, false
	}
	return tenantID, true
}
