package handler

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/lucifersir1/Ai-based-question-paper-generator/internal/handler/views"
	appI18n "github.com/lucifersir1/Ai-based-question-paper-generator/internal/i18n"
	"github.com/lucifersir1/Ai-based-question-paper-generator/internal/model"
	"github.com/lucifersir1/Ai-based-question-paper-generator/internal/store"
)

const (
	sessionCookieName = "session"
	csrfCookieName    = "csrf_token"
)

// errAuthFailed covers both unknown email and wrong password; callers must
// not tell the two apart in anything user-visible.
var errAuthFailed = errors.New("authentication failed")

func generateCSRFToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func (h *Handler) setCSRFCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: false,
		Secure:   h.config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) csrfMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "GET" || r.Method == "HEAD" {
			token, err := generateCSRFToken()
			if err != nil {
				slog.Error("failed to generate CSRF token", "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			h.setCSRFCookie(w, token)
			ctx := model.ContextWithCSRFToken(r.Context(), token)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		cookie, err := r.Cookie(csrfCookieName)
		if err != nil || cookie.Value == "" {
			slog.Warn("CSRF cookie missing")
			http.Error(w, "csrf token missing", http.StatusForbidden)
			return
		}

		formToken := r.FormValue("csrf_token")
		if formToken == "" {
			slog.Warn("CSRF form token missing")
			http.Error(w, "csrf token missing", http.StatusForbidden)
			return
		}

		if len(formToken) != len(cookie.Value) || subtle.ConstantTimeCompare([]byte(formToken), []byte(cookie.Value)) != 1 {
			slog.Warn("CSRF token mismatch")
			http.Error(w, "invalid csrf token", http.StatusForbidden)
			return
		}

		token, err := generateCSRFToken()
		if err != nil {
			slog.Error("failed to generate CSRF token", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		h.setCSRFCookie(w, token)
		ctx := model.ContextWithCSRFToken(r.Context(), token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAuth is middleware that checks for a valid session cookie and loads
// the user into the request context.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || cookie.Value == "" {
			h.redirectToLogin(w, r)
			return
		}

		authSess, err := h.store.GetAuthSession(cookie.Value)
		if err != nil {
			slog.Error("failed to get auth session", "error", err)
			h.redirectToLogin(w, r)
			return
		}
		if authSess == nil {
			h.redirectToLogin(w, r)
			return
		}

		user, err := h.store.GetUserByID(authSess.UserID)
		if err != nil || user == nil {
			h.redirectToLogin(w, r)
			return
		}

		ctx := model.ContextWithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole is middleware that sends users with the wrong role back to the
// login page.
func (h *Handler) requireRole(role model.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := model.UserFromContext(r.Context())
			if user == nil || user.Role != role {
				h.redirectToLogin(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (h *Handler) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// authenticate verifies the password against the stored hash. Unknown email
// and wrong password both come back as errAuthFailed.
func (h *Handler) authenticate(email, password string) (*model.User, error) {
	user, err := h.store.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errAuthFailed
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errAuthFailed
	}
	return user, nil
}

func (h *Handler) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	var notice string
	switch {
	case r.URL.Query().Get("signup") == "ok":
		notice = appI18n.T(r.Context(), "SignupSuccess")
	case r.URL.Query().Get("logout") == "1":
		notice = appI18n.T(r.Context(), "LoggedOut")
	}
	h.render(w, http.StatusOK, "login.html", views.LoginData{
		Notice:    notice,
		CSRFToken: model.CSRFTokenFromContext(r.Context()),
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	user, err := h.authenticate(email, password)
	if err != nil {
		if !errors.Is(err, errAuthFailed) {
			slog.Error("login lookup failed", "error", err)
		}
		h.render(w, http.StatusUnauthorized, "login.html", views.LoginData{
			Message:   appI18n.T(r.Context(), "LoginError"),
			CSRFToken: model.CSRFTokenFromContext(r.Context()),
		})
		return
	}

	token, err := h.store.CreateAuthSession(user.ID)
	if err != nil {
		slog.Error("failed to create auth session", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.config.SecureCookies,
	})

	target := "/admin_dashboard"
	if user.Role == model.UserRoleTeacher {
		target = "/teacher_dashboard"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handler) handleSignupPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "signup.html", views.SignupData{
		CSRFToken: model.CSRFTokenFromContext(r.Context()),
	})
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")
	role := model.UserRole(r.FormValue("role"))

	if email == "" || password == "" || (role != model.UserRoleTeacher && role != model.UserRoleAdmin) {
		http.Error(w, "email, password and role are required", http.StatusBadRequest)
		return
	}

	var teacherName, subject string
	if role == model.UserRoleTeacher {
		teacherName = r.FormValue("teacher_name")
		subject = r.FormValue("subject")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	_, err = h.store.CreateUser(model.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Subject:      subject,
		TeacherName:  teacherName,
	})
	if errors.Is(err, store.ErrDuplicateEmail) {
		h.render(w, http.StatusConflict, "signup.html", views.SignupData{
			Message:   appI18n.T(r.Context(), "SignupDuplicate"),
			CSRFToken: model.CSRFTokenFromContext(r.Context()),
		})
		return
	}
	if err != nil {
		slog.Error("failed to create user", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/login?signup=ok", http.StatusSeeOther)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookieName)
	if err == nil && cookie.Value != "" {
		_ = h.store.DeleteAuthSession(cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.SecureCookies,
	})
	http.Redirect(w, r, "/login?logout=1", http.StatusSeeOther)
}
