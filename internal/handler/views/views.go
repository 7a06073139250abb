// Package views renders the HTML pages from embedded templates.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/lucifersir1/Ai-based-question-paper-generator/internal/docx"
	"github.com/lucifersir1/Ai-based-question-paper-generator/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer holds the parsed page templates.
type Renderer struct {
	t *template.Template
}

// New parses all embedded templates.
func New() (*Renderer, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"inc":       func(i int) int { return i + 1 },
		"subLetter": docx.SubLetter,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{t: t}, nil
}

// Render executes the named page template.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	return r.t.ExecuteTemplate(w, name, data)
}

// LoginData feeds the login page.
type LoginData struct {
	Message   string // error to display, already localized
	Notice    string // informational message (post-signup, post-logout)
	CSRFToken string
}

// SignupData feeds the signup page.
type SignupData struct {
	Message   string
	CSRFToken string
}

// TeacherData feeds the teacher dashboard form.
type TeacherData struct {
	TeacherName string
	Subject     string
	CSRFToken   string
}

// AdminData feeds the admin dashboard.
type AdminData struct {
	Subjects []string
	Selected string
	Papers   []model.PaperRecord
}

// ResultData feeds the generation result page.
type ResultData struct {
	SubjectCode  string
	Questions    []model.Question
	TotalMarks   int
	DownloadFile string
	Prompt       string
	Notice       string // degraded-generator notice, empty when all calls succeeded
}
