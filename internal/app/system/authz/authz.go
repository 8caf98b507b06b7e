// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/sevahub/sevahub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's role (lowercased), Mongo ObjectID, and a found flag.
// If no user is present in context or the user ID is malformed, it returns
// "visitor", NilObjectID, false. This ensures callers can trust that ok=true
// means a valid, authenticated user with a valid ObjectID.
func UserCtx(r *http.Request) (role string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in token - fail closed.
		return "visitor", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), userID, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, ok := UserCtx(r)
	return ok && role == "admin"
}

// IsNGO reports whether the current request's user holds the ngo role.
func IsNGO(r *http.Request) bool {
	role, _, ok := UserCtx(r)
	return ok && role == "ngo"
}

// IsVolunteer reports whether the current request's user is a volunteer.
func IsVolunteer(r *http.Request) bool {
	role, _, ok := UserCtx(r)
	return ok && role == "volunteer"
}

// IsSelfOrAdmin reports whether the current user is the given user or an admin.
// Used for profile and account-deletion checks.
func IsSelfOrAdmin(r *http.Request, id primitive.ObjectID) bool {
	role, userID, ok := UserCtx(r)
	if !ok {
		return false
	}
	return role == "admin" || userID == id
}
