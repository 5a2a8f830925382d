// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Role is the authorization role carried by every authenticated identity.
type Role string

const (
	RoleSales Role = "SALES"
	RoleAdmin Role = "ADMIN"
)

// ParseRole returns the Role for a known role name.
func ParseRole(value string) (Role, bool) {
	switch Role(value) {
	case RoleSales, RoleAdmin:
		return Role(value), true
	default:
		return "", false
	}
}

// Identity is the authenticated caller. Role is always one of the known
// roles; a token without one never produces an Identity.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   Role
}

// IsAdmin reports whether the caller holds the ADMIN role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// SetIdentity stores the identity on the gin context. Used by AuthRequired and tests.
func SetIdentity(c *gin.Context, id Identity) {
	c.Set(ContextIdentityKey, id)
}

// GetIdentity extracts the Identity from a Gin context.
func GetIdentity(c *gin.Context) (Identity, bool) {
	value, ok := c.Get(ContextIdentityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := value.(Identity)
	return id, ok
}

// MustGetIdentity extracts the Identity from a Gin context.
// If the user is not authenticated, it aborts with 401 Unauthorized.
func MustGetIdentity(c *gin.Context) (Identity, bool) {
	id, ok := GetIdentity(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return Identity{}, false
	}
	return id, true
}
