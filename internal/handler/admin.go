package handler

import (
	"log/slog"
	"net/http"

	"github.com/lucifersir1/Ai-based-question-paper-generator/internal/handler/views"
)

func (h *Handler) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.store.DistinctTeacherSubjects()
	if err != nil {
		slog.Error("failed to list subjects", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	selected := r.URL.Query().Get("subject")
	papers, err := h.store.ListPapers(selected)
	if err != nil {
		slog.Error("failed to list papers", "subject", selected, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.render(w, http.StatusOK, "admin_dashboard.html", views.AdminData{
		Subjects: subjects,
		Selected: selected,
		Papers:   papers,
	})
}
