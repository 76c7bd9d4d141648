package auth

import (
	"net/http"
	"slices"
)

type Permission string

const (
	PermFilterRead  Permission = "filter:read"
	PermFilterWrite Permission = "filter:write"
	PermAuditRead   Permission = "audit:read"
	PermWildcard    Permission = "*"
)

// Roles carried in the token's "role" claim.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

var rolePermissions = map[string][]Permission{
	RoleAdmin:  {PermWildcard},
	RoleEditor: {PermFilterRead, PermFilterWrite},
	RoleViewer: {PermFilterRead, PermAuditRead},
}

// HasPermission reports whether role grants perm. Unknown roles grant nothing.
func HasPermission(role string, perm Permission) bool {
	perms := rolePermissions[role]
	return slices.Contains(perms, PermWildcard) || slices.Contains(perms, perm)
}

// RequirePermission must run after JWTMiddleware.Authenticate.
func RequirePermission(perm Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				writeError(w, http.StatusForbidden, "no claims in context")
				return
			}
			if claims.Role == "" {
				writeError(w, http.StatusForbidden, "no role assigned")
				return
			}
			if !HasPermission(claims.Role, perm) {
				writeError(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
