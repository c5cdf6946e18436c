// Package identity models the caller identity supplied by the session
// collaborator in front of this backend.
//
// The backend does not manage sessions itself; the reverse proxy resolves
// the session and forwards the user and role as headers. Handlers only ever
// see the parsed Requester, so tests and other deployments can inject a
// different source without touching the core.
package identity

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// Role is the caller's role in the care organisation.
type Role string

const (
	RoleFamily     Role = "family"     // Family members and powers of attorney
	RoleCarer      Role = "carer"      // Care staff recording purchases
	RoleManagement Role = "management" // Organisation management
)

// Roles lists all known roles.
var Roles = []Role{RoleFamily, RoleCarer, RoleManagement}

const (
	// HeaderUserID carries the caller's user ID, set by the session proxy.
	HeaderUserID = "X-User-Id"
	// HeaderRole carries the caller's role, set by the session proxy.
	HeaderRole = "X-User-Role"

	contextKey = "careplan-requester"
)

var (
	ErrUnauthorised = errors.New("authentication is required for this endpoint")
	ErrForbidden    = errors.New("your role does not allow this action")
)

// Requester is the authenticated caller of a request.
type Requester struct {
	UserID uuid.UUID
	Role   Role
}

// Middleware parses the identity headers into a Requester.
//
// It never aborts: endpoints that require authentication enforce it with
// Require. Unknown roles and unparseable user IDs are treated as anonymous.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := uuid.Parse(c.GetHeader(HeaderUserID))
		if err != nil {
			c.Next()
			return
		}

		role := Role(c.GetHeader(HeaderRole))
		if !slices.Contains(Roles, role) {
			c.Next()
			return
		}

		c.Set(contextKey, Requester{UserID: userID, Role: role})
		c.Next()
	}
}

// FromContext returns the Requester of the request, if any.
func FromContext(c *gin.Context) (Requester, bool) {
	value, ok := c.Get(contextKey)
	if !ok {
		return Requester{}, false
	}

	requester, ok := value.(Requester)
	return requester, ok
}

// Require returns ErrUnauthorised when the request carries no identity and
// ErrForbidden when the identity's role is not in the allowed set. An empty
// allowed set admits every authenticated caller.
func Require(c *gin.Context, allowed ...Role) (Requester, error) {
	requester, ok := FromContext(c)
	if !ok {
		return Requester{}, ErrUnauthorised
	}

	if len(allowed) > 0 && !slices.Contains(allowed, requester.Role) {
		return Requester{}, ErrForbidden
	}

	return requester, nil
}
