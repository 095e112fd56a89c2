package http

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"finframe/internal/domain/user"
	"finframe/internal/shared/auth"
)

const authCookieName = "access_token"

type AuthHandler struct {
	users *user.Service
	jwt   *auth.JWT
}

func NewAuthHandler(users *user.Service, jwt *auth.JWT) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

// HandleRegister creates an account and signs the new user in.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req user.RegisterParams
	if !decodeBody(w, r, &req) {
		return
	}

	u, err := h.users.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, err, "register user")
		return
	}

	h.issueToken(w, r, u, http.StatusCreated)
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	u, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err, "log in")
		return
	}

	h.issueToken(w, r, u, http.StatusOK)
}

// HandleLogout clears the auth cookie. Bearer tokens simply expire.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	http.SetCookie(w, authCookie(r, "", -1))
	w.WriteHeader(http.StatusNoContent)
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

// HandlePasswordReset handles POST /api/auth/password-reset. The answer is
// the same whether or not the email is registered.
func (h *AuthHandler) HandlePasswordReset(w http.ResponseWriter, r *http.Request) {
	var req PasswordResetRequest
	if !post(w, r, &req) {
		return
	}

	if err := h.users.RequestPasswordReset(r.Context(), req.Email); err != nil {
		writeError(w, r, err, "request password reset")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{
		"status": "If the address is registered, a reset link is on its way.",
	})
}

// HandlePasswordResetConfirm handles POST /api/auth/password-reset/confirm
func (h *AuthHandler) HandlePasswordResetConfirm(w http.ResponseWriter, r *http.Request) {
	var req user.ResetParams
	if !post(w, r, &req) {
		return
	}

	if err := h.users.ConfirmPasswordReset(r.Context(), req); err != nil {
		writeError(w, r, err, "reset password")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) issueToken(w http.ResponseWriter, r *http.Request, u *user.User, status int) {
	token, err := h.jwt.Generate(u.Subject())
	if err != nil {
		log.Error().Err(err).Int64("user_id", u.ID).Msg("failed to generate token")
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, authCookie(r, token, int(h.jwt.TTL().Seconds())))
	writeJSON(w, status, AuthResponse{Token: token, User: u})
}

// authCookie carries the token for browser clients. A negative maxAge
// deletes it.
func authCookie(r *http.Request, token string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	}
}
