package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lucifersir1/Ai-based-question-paper-generator/internal/handler/views"
	"github.com/lucifersir1/Ai-based-question-paper-generator/internal/llm"
	"github.com/lucifersir1/Ai-based-question-paper-generator/internal/model"
	"github.com/lucifersir1/Ai-based-question-paper-generator/internal/store"
)

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store  *store.Store
	llm    *llm.Client
	config model.AppConfig
	views  *views.Renderer
}

// New creates a new Handler.
func New(s *store.Store, l *llm.Client, cfg model.AppConfig) (*Handler, error) {
	v, err := views.New()
	if err != nil {
		return nil, err
	}
	return &Handler{store: s, llm: l, config: cfg, views: v}, nil
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Use(h.csrfMiddleware)

	r.Get("/", h.handleLoginPage)
	r.Get("/login", h.handleLoginPage)
	r.Post("/login", h.handleLogin)
	r.Get("/signup", h.handleSignupPage)
	r.Post("/signup", h.handleSignup)
	r.Get("/logout", h.handleLogout)

	r.Group(func(pr chi.Router) {
		pr.Use(h.requireAuth)
		pr.With(h.requireRole(model.UserRoleTeacher)).Get("/teacher_dashboard", h.handleTeacherDashboard)
		pr.With(h.requireRole(model.UserRoleTeacher)).Post("/teacher_dashboard", h.handleGeneratePaper)
		pr.With(h.requireRole(model.UserRoleAdmin)).Get("/admin_dashboard", h.handleAdminDashboard)
		pr.Get("/download/{paperID:[0-9]+}", h.handleDownloadByID)
		pr.Get("/download/{filename}", h.handleDownloadByName)
	})
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.views.Render(w, name, data); err != nil {
		slog.Error("render error", "template", name, "error", err)
	}
}
