package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/lucifersir1/Ai-based-question-paper-generator/internal/model"
)

const testContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const testRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

// buildTemplateXML assembles a minimal .docx whose body holds the given
// paragraph XML fragments.
func buildTemplateXML(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var body strings.Builder
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(p)
	}
	body.WriteString(`<w:sectPr/></w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, entry := range []struct{ name, content string }{
		{"[Content_Types].xml", testContentTypes},
		{"_rels/.rels", testRels},
		{"word/document.xml", body.String()},
	} {
		fw, err := zw.Create(entry.name)
		if err != nil {
			t.Fatalf("create %s: %v", entry.name, err)
		}
		if _, err := fw.Write([]byte(entry.content)); err != nil {
			t.Fatalf("write %s: %v", entry.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func textParagraph(text string) string {
	var esc bytes.Buffer
	_ = xml.EscapeText(&esc, []byte(text))
	return fmt.Sprintf(`<w:p><w:r><w:t>%s</w:t></w:r></w:p>`, esc.String())
}

// writeTemplate drops a template into a temp dir and returns its path plus a
// path for the assembled output.
func writeTemplate(t *testing.T, data []byte) (templatePath, outputPath string) {
	t.Helper()
	dir := t.TempDir()
	templatePath = filepath.Join(dir, "format.docx")
	outputPath = filepath.Join(dir, "out.docx")
	if err := os.WriteFile(templatePath, data, 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	return templatePath, outputPath
}

// extractText reads an assembled document back and flattens its body to
// plain text, one line per w:br.
func extractText(t *testing.T, path string) string {
	t.Helper()
	doc, err := Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}

	var sb strings.Builder
	dec := xml.NewDecoder(bytes.NewReader(doc.Body()))
	inText := false
	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("scan output body: %v", err)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "t":
				inText = true
			case "br":
				sb.WriteString("\n")
			case "p":
				sb.WriteString("\n")
			}
		case xml.EndElement:
			if el.Name.Local == "t" {
				inText = false
			}
		case xml.CharData:
			if inText {
				sb.Write(el)
			}
		}
	}
	return sb.String()
}

func TestAssembleNoPlaceholderIsByteForByteCopy(t *testing.T) {
	data := buildTemplateXML(t,
		textParagraph("Midterm Examination"),
		textParagraph("Answer all questions."),
	)
	templatePath, outputPath := writeTemplate(t, data)

	questions := []model.Question{{Heading: "Algebra", Marks: 10}}
	if err := Assemble(templatePath, outputPath, questions); err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	out, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Error("output without placeholder should equal the input byte for byte")
	}
}

func TestAssembleAlgebraScenario(t *testing.T) {
	data := buildTemplateXML(t,
		textParagraph("Midterm Examination"),
		textParagraph("{{QUESTIONS}}"),
		textParagraph("End of paper."),
	)
	templatePath, outputPath := writeTemplate(t, data)

	questions := []model.Question{{
		Heading: "Algebra",
		Marks:   10,
		Subs: []model.SubQuestion{
			{Text: "What is x?", Marks: 5},
			{Text: "Solve for y.", Marks: 5},
		},
	}}
	if err := Assemble(templatePath, outputPath, questions); err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	text := extractText(t, outputPath)
	for _, want := range []string{
		"Q1. Algebra [10 Marks]",
		"    (a) What is x? [5 Marks]",
		"    (b) Solve for y. [5 Marks]",
		"Midterm Examination",
		"End of paper.",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, PlaceholderMarker) {
		t.Error("placeholder should be gone from the output")
	}

	// Template on disk must be untouched.
	after, _ := os.ReadFile(templatePath)
	if !bytes.Equal(after, data) {
		t.Error("template file was mutated")
	}
}

func TestAssembleCountsAndOrder(t *testing.T) {
	data := buildTemplateXML(t, textParagraph("{{QUESTIONS}}"))
	templatePath, outputPath := writeTemplate(t, data)

	questions := []model.Question{
		{Heading: "One", Marks: 10, Subs: []model.SubQuestion{{Text: "a1", Marks: 2}, {Text: "a2", Marks: 3}}},
		{Heading: "Two", Marks: 5},
		{Heading: "Three", Marks: 8, Subs: []model.SubQuestion{{Text: "c1", Marks: 1}, {Text: "c2", Marks: 1}, {Text: "c3", Marks: 1}}},
	}
	if err := Assemble(templatePath, outputPath, questions); err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	text := extractText(t, outputPath)

	headings := regexp.MustCompile(`Q\d+\. `).FindAllString(text, -1)
	if len(headings) != 3 {
		t.Errorf("expected 3 heading lines, got %d: %v", len(headings), headings)
	}
	subs := regexp.MustCompile(`\([a-z]+\) `).FindAllString(text, -1)
	if len(subs) != 5 {
		t.Errorf("expected 5 sub-question lines, got %d: %v", len(subs), subs)
	}

	// Numbering and lettering follow input order.
	for _, pair := range [][2]string{
		{"Q1. One", "Q2. Two"},
		{"Q2. Two", "Q3. Three"},
		{"(a) a1", "(b) a2"},
		{"(a) c1", "(c) c3"},
	} {
		if strings.Index(text, pair[0]) > strings.Index(text, pair[1]) {
			t.Errorf("%q should precede %q", pair[0], pair[1])
		}
	}
}

func TestAssembleZeroQuestions(t *testing.T) {
	data := buildTemplateXML(t, textParagraph("Intro"), textParagraph("{{QUESTIONS}}"))
	templatePath, outputPath := writeTemplate(t, data)

	if err := Assemble(templatePath, outputPath, nil); err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	text := extractText(t, outputPath)
	if strings.Contains(text, PlaceholderMarker) {
		t.Error("placeholder should be cleared")
	}
	if strings.Contains(text, "Q1.") {
		t.Error("no question lines expected")
	}
	if !strings.Contains(text, "Intro") {
		t.Error("surrounding paragraphs should survive")
	}
}

func TestAssemblePlaceholderSplitAcrossRuns(t *testing.T) {
	split := `<w:p><w:r><w:t>{{QUES</w:t></w:r><w:r><w:t>TIONS}}</w:t></w:r></w:p>`
	data := buildTemplateXML(t, split)
	templatePath, outputPath := writeTemplate(t, data)

	questions := []model.Question{{Heading: "Sets", Marks: 4}}
	if err := Assemble(templatePath, outputPath, questions); err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	text := extractText(t, outputPath)
	if !strings.Contains(text, "Q1. Sets [4 Marks]") {
		t.Errorf("split-run placeholder not replaced:\n%s", text)
	}
}

func TestAssembleOnlyFirstPlaceholderRewritten(t *testing.T) {
	data := buildTemplateXML(t,
		textParagraph("{{QUESTIONS}}"),
		textParagraph("{{QUESTIONS}}"),
	)
	templatePath, outputPath := writeTemplate(t, data)

	questions := []model.Question{{Heading: "Logic", Marks: 6}}
	if err := Assemble(templatePath, outputPath, questions); err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	text := extractText(t, outputPath)
	if got := strings.Count(text, PlaceholderMarker); got != 1 {
		t.Errorf("expected exactly one untouched placeholder, found %d", got)
	}
	if !strings.Contains(text, "Q1. Logic [6 Marks]") {
		t.Error("first placeholder should be replaced")
	}
}

func TestAssembleEscapesQuestionText(t *testing.T) {
	data := buildTemplateXML(t, textParagraph("{{QUESTIONS}}"))
	templatePath, outputPath := writeTemplate(t, data)

	questions := []model.Question{{
		Heading: "Inequalities",
		Marks:   5,
		Subs:    []model.SubQuestion{{Text: "Is x < y & y > z?", Marks: 5}},
	}}
	if err := Assemble(templatePath, outputPath, questions); err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	text := extractText(t, outputPath)
	if !strings.Contains(text, "Is x < y & y > z?") {
		t.Errorf("markup characters must round-trip through escaping:\n%s", text)
	}
}

func TestSubLetter(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "a"}, {1, "b"}, {25, "z"},
		{26, "aa"}, {27, "ab"}, {51, "az"}, {52, "ba"},
		{701, "zz"}, {702, "aaa"},
	}
	for _, tt := range tests {
		if got := SubLetter(tt.index); got != tt.want {
			t.Errorf("SubLetter(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
}

func TestParseRejectsNonDocx(t *testing.T) {
	if _, err := Parse([]byte("not a zip")); err == nil {
		t.Error("expected error for non-zip input")
	}

	// A zip without word/document.xml is not a document.
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	fw, _ := zw.Create("hello.txt")
	fw.Write([]byte("hi"))
	zw.Close()
	if _, err := Parse(buf.Bytes()); err == nil {
		t.Error("expected error for zip without a document body")
	}
}
