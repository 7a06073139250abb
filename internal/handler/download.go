package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"

	appI18n "github.com/lucifersir1/Ai-based-question-paper-generator/internal/i18n"
)

// handleDownloadByID serves the generated document recorded for a paper log
// entry. Records without a stored file, or whose file has since been removed,
// report not found rather than erroring.
func (h *Handler) handleDownloadByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "paperID"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	paper, err := h.store.GetPaper(id)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if paper == nil || paper.OutputPath == "" {
		http.Error(w, appI18n.T(r.Context(), "FileNotFound"), http.StatusNotFound)
		return
	}
	if _, err := os.Stat(paper.OutputPath); err != nil {
		http.Error(w, appI18n.T(r.Context(), "FileNotFound"), http.StatusNotFound)
		return
	}
	serveAttachment(w, r, paper.OutputPath)
}

// handleDownloadByName serves a generated document straight from the output
// dir by filename, as linked from the result page.
func (h *Handler) handleDownloadByName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	if name != filepath.Base(name) || !allowedFile(name) {
		http.Error(w, appI18n.T(r.Context(), "FileNotFound"), http.StatusNotFound)
		return
	}
	path := filepath.Join(h.config.OutputDir, name)
	if _, err := os.Stat(path); err != nil {
		http.Error(w, appI18n.T(r.Context(), "FileNotFound"), http.StatusNotFound)
		return
	}
	serveAttachment(w, r, path)
}

func serveAttachment(w http.ResponseWriter, r *http.Request, path string) {
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	http.ServeFile(w, r, path)
}
