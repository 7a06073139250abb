// Package prompts builds the text sent to the generation model.
package prompts

import (
	"strings"
	"text/template"
)

var generateTmpl = template.Must(template.New("generate").Parse(
	`Based on the syllabus below, generate {{.Count}} exam questions for the subject {{.SubjectCode}}.
Difficulty: {{.Difficulty}}
Write exactly one question per line, with no numbering and no blank lines between questions.
Syllabus:
{{.Syllabus}}
`))

// GenerateData holds template data for the question-generation prompt.
type GenerateData struct {
	SubjectCode string
	Difficulty  string
	Syllabus    string
	Count       int
}

// Generate renders the question-generation prompt.
func Generate(d GenerateData) (string, error) {
	var sb strings.Builder
	if err := generateTmpl.Execute(&sb, d); err != nil {
		return "", err
	}
	return sb.String(), nil
}
