package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"finframe/internal/shared/auth"
)

type ContextKey string

const (
	UserIDKey      ContextKey = "user_id"
	EmailKey       ContextKey = "email"
	StaffKey       ContextKey = "is_staff"
	PermissionsKey ContextKey = "permissions"
)

// TokenValidator is satisfied by *auth.JWT.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// AttributeSource loads the live boolean attributes of a user, such as
// financial_info_completed.
type AttributeSource interface {
	UserAttributes(ctx context.Context, userID int64) (map[string]bool, error)
}

// tokenFromRequest prefers the HttpOnly cookie used by browsers and falls
// back to a bearer header for API clients.
func tokenFromRequest(r *http.Request) (string, bool) {
	if cookie, err := r.Cookie("access_token"); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

func authenticate(jwt TokenValidator, r *http.Request) (*http.Request, bool) {
	token, ok := tokenFromRequest(r)
	if !ok {
		return r, false
	}
	claims, err := jwt.Validate(token)
	if err != nil {
		return r, false
	}
	return r.WithContext(WithClaims(r.Context(), claims)), true
}

// WithClaims stores the identity of an authenticated request.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, EmailKey, claims.Email)
	ctx = context.WithValue(ctx, StaffKey, claims.IsStaff)
	ctx = context.WithValue(ctx, PermissionsKey, claims.Permissions)
	return ctx
}

// UserID returns the authenticated user id, if any.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(UserIDKey).(int64)
	return id, ok
}

func Auth(jwt TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authed, ok := authenticate(jwt, r)
			if !ok {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, authed)
		})
	}
}

// IsAjax reports whether the request was sent by XMLHttpRequest.
func IsAjax(r *http.Request) bool {
	return r.Header.Get("X-Requested-With") == "XMLHttpRequest"
}

// AjaxLoginRequired lets authenticated requests through. Anonymous AJAX
// requests get a 403 JSON body; anonymous page requests are redirected to
// loginURL with the original path in "next".
func AjaxLoginRequired(jwt TokenValidator, loginURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authed, ok := authenticate(jwt, r)
			if ok {
				next.ServeHTTP(w, authed)
				return
			}

			if IsAjax(r) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(map[string]any{
					"status":         "error",
					"message":        "Authorization failed. Please log in.",
					"login_required": true,
				})
				return
			}

			http.Redirect(w, r, loginURL+"?next="+url.QueryEscape(r.URL.Path), http.StatusFound)
		})
	}
}

// StaffRequired must run after Auth.
func StaffRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if staff, _ := r.Context().Value(StaffKey).(bool); !staff {
			http.Error(w, "Staff access required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PermissionRequired demands every listed permission. Staff users pass.
// Must run after Auth.
func PermissionRequired(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := &auth.Claims{}
			claims.IsStaff, _ = r.Context().Value(StaffKey).(bool)
			claims.Permissions, _ = r.Context().Value(PermissionsKey).([]string)

			for _, perm := range perms {
				if !claims.HasPermission(perm) {
					http.Error(w, "You do not have permission to perform this action", http.StatusForbidden)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserHasAttribute requires the user to have attribute name. When want is
// given the attribute must also equal it. Must run after Auth.
func UserHasAttribute(src AttributeSource, name string, want ...bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserID(r.Context())
			if !ok {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			attrs, err := src.UserAttributes(r.Context(), userID)
			if err != nil {
				log.Error().Err(err).Int64("user_id", userID).Msg("failed to load user attributes")
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			value, present := attrs[name]
			if !present || (len(want) > 0 && value != want[0]) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
