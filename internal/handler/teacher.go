package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/lucifersir1/Ai-based-question-paper-generator/internal/docx"
	"github.com/lucifersir1/Ai-based-question-paper-generator/internal/handler/views"
	appI18n "github.com/lucifersir1/Ai-based-question-paper-generator/internal/i18n"
	"github.com/lucifersir1/Ai-based-question-paper-generator/internal/model"
)

const maxUploadBytes = 32 << 20

// paddingQuestionText fills sub-question slots when the generator returned
// fewer lines than requested.
const paddingQuestionText = "AI-generated question"

var allowedExtensions = map[string]bool{
	".txt":  true,
	".pdf":  true,
	".docx": true,
}

func allowedFile(name string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(name))]
}

// sanitizeFilename strips any path component and reduces the name to a safe
// character set.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// saveUpload writes an uploaded file into the upload dir under a
// collision-free generated name and returns the full path.
func (h *Handler) saveUpload(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()

	name := fmt.Sprintf("%s_%s", uuid.New(), sanitizeFilename(fh.Filename))
	path := filepath.Join(h.config.UploadDir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	return path, dst.Close()
}

// questionSpec is one main question in the submitted payload: its heading,
// its marks and the marks of each AI-filled sub-question slot.
type questionSpec struct {
	Heading  string `json:"heading"`
	Marks    int    `json:"marks"`
	SubMarks []int  `json:"sub_marks"`
}

func parseQuestionSpecs(raw string) ([]questionSpec, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	var specs []questionSpec
	if err := dec.Decode(&specs); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	for i, s := range specs {
		if s.Heading == "" {
			return nil, fmt.Errorf("question %d: empty heading", i+1)
		}
		if s.Marks < 0 {
			return nil, fmt.Errorf("question %d: negative marks", i+1)
		}
		for j, m := range s.SubMarks {
			if m < 0 {
				return nil, fmt.Errorf("question %d sub %d: negative marks", i+1, j+1)
			}
		}
	}
	return specs, nil
}

// fillSubQuestions pairs generated texts with the requested mark slots in
// order, padding with a placeholder when the generator came up short. The
// result always has exactly len(subMarks) entries.
func fillSubQuestions(subMarks []int, texts []string) []model.SubQuestion {
	subs := make([]model.SubQuestion, len(subMarks))
	for i, marks := range subMarks {
		text := paddingQuestionText
		if i < len(texts) {
			text = texts[i]
		}
		subs[i] = model.SubQuestion{Text: text, Marks: marks}
	}
	return subs
}

func (h *Handler) handleTeacherDashboard(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())
	h.render(w, http.StatusOK, "teacher_dashboard.html", views.TeacherData{
		TeacherName: displayName(user),
		Subject:     displaySubject(user),
		CSRFToken:   model.CSRFTokenFromContext(r.Context()),
	})
}

func (h *Handler) handleGeneratePaper(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, appI18n.T(r.Context(), "InvalidUpload"), http.StatusBadRequest)
		return
	}

	syllabusFile, syllabusHeader, err := r.FormFile("syllabus_file")
	if err != nil || !allowedFile(syllabusHeader.Filename) {
		http.Error(w, appI18n.T(r.Context(), "InvalidUpload"), http.StatusBadRequest)
		return
	}
	syllabusFile.Close()
	formatFile, formatHeader, err := r.FormFile("paper_format_file")
	if err != nil || !allowedFile(formatHeader.Filename) {
		http.Error(w, appI18n.T(r.Context(), "InvalidUpload"), http.StatusBadRequest)
		return
	}
	formatFile.Close()

	specs, err := parseQuestionSpecs(r.FormValue("questions"))
	if err != nil {
		slog.Warn("rejected question payload", "error", err)
		http.Error(w, appI18n.T(r.Context(), "InvalidQuestions"), http.StatusBadRequest)
		return
	}

	subjectCode := r.FormValue("subject_code")
	difficulty := r.FormValue("difficulty")

	syllabusPath, err := h.saveUpload(syllabusHeader)
	if err != nil {
		slog.Error("failed to save syllabus upload", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	formatPath, err := h.saveUpload(formatHeader)
	if err != nil {
		slog.Error("failed to save format upload", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	// Uploads are temporary; remove them once the request is done with them.
	defer func() {
		for _, p := range []string{syllabusPath, formatPath} {
			if err := os.Remove(p); err != nil {
				slog.Warn("failed to remove upload", "path", p, "error", err)
			}
		}
	}()

	syllabus, err := os.ReadFile(syllabusPath)
	if err != nil {
		slog.Error("failed to read syllabus", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var (
		questions  []model.Question
		lastPrompt string
		degraded   bool
	)
	for _, spec := range specs {
		result := h.llm.GenerateQuestions(r.Context(), subjectCode, difficulty, string(syllabus), len(spec.SubMarks))
		if result.Degraded {
			degraded = true
		}
		lastPrompt = result.Prompt
		questions = append(questions, model.Question{
			Heading: spec.Heading,
			Marks:   spec.Marks,
			Subs:    fillSubQuestions(spec.SubMarks, result.Questions),
		})
	}

	outputName := fmt.Sprintf("generated_%s.docx", uuid.New())
	outputPath := filepath.Join(h.config.OutputDir, outputName)
	if err := docx.Assemble(formatPath, outputPath, questions); err != nil {
		slog.Error("failed to assemble paper", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	paperID, err := h.store.CreatePaper(model.PaperRecord{
		Subject:     displaySubject(user),
		SubjectCode: subjectCode,
		TeacherName: displayName(user),
		Difficulty:  difficulty,
		OutputPath:  outputPath,
	})
	if err != nil {
		slog.Error("failed to record paper", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	slog.Info("generated question paper",
		"paper_id", paperID,
		"subject_code", subjectCode,
		"difficulty", difficulty,
		"main_questions", len(questions),
		"degraded", degraded,
	)

	var notice string
	if degraded {
		notice = appI18n.T(r.Context(), "GeneratorDegraded")
	}
	h.render(w, http.StatusOK, "result.html", views.ResultData{
		SubjectCode:  subjectCode,
		Questions:    questions,
		TotalMarks:   model.TotalMarks(questions),
		DownloadFile: outputName,
		Prompt:       lastPrompt,
		Notice:       notice,
	})
}

// displayName and displaySubject fall back to fixed labels when a teacher
// signed up without profile fields.
func displayName(u *model.User) string {
	if u == nil || u.TeacherName == "" {
		return "Teacher"
	}
	return u.TeacherName
}

func displaySubject(u *model.User) string {
	if u == nil || u.Subject == "" {
		return "Unknown"
	}
	return u.Subject
}
