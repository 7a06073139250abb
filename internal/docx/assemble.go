package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lucifersir1/Ai-based-question-paper-generator/internal/model"
)

// PlaceholderMarker is the literal token a template paragraph must contain to
// receive the generated questions.
const PlaceholderMarker = "{{QUESTIONS}}"

// Question text styling: Times New Roman 13pt bold. w:sz counts half-points.
const (
	questionFont       = "Times New Roman"
	questionSizeHalfPt = "26"
)

// Assemble reads the template, replaces the first paragraph containing the
// placeholder marker with the formatted question list and writes the result
// to outputPath. A template without the marker is copied through unchanged,
// byte for byte.
func Assemble(templatePath, outputPath string, questions []model.Question) error {
	data, err := os.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("read template: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return err
	}

	start, end, found, err := findPlaceholderParagraph(doc.Body())
	if err != nil {
		return fmt.Errorf("scan document body: %w", err)
	}
	if !found {
		return os.WriteFile(outputPath, data, 0o644)
	}

	body := doc.Body()
	var out bytes.Buffer
	out.Grow(len(body))
	out.Write(body[:start])
	out.Write(questionsParagraph(questions))
	out.Write(body[end:])
	doc.SetBody(out.Bytes())

	return doc.Save(outputPath)
}

// findPlaceholderParagraph walks the body XML and returns the byte range of
// the first w:p element whose concatenated run text contains the marker. The
// marker may be split across runs.
func findPlaceholderParagraph(body []byte) (start, end int64, found bool, err error) {
	dec := xml.NewDecoder(bytes.NewReader(body))

	var (
		inParagraph bool
		inText      bool
		pStart      int64
		text        strings.Builder
	)
	prev := dec.InputOffset()
	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			return 0, 0, false, nil
		}
		if err != nil {
			return 0, 0, false, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				if !inParagraph {
					inParagraph = true
					pStart = prev
					text.Reset()
				}
			case "t":
				if inParagraph {
					inText = true
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if inParagraph {
					inParagraph = false
					if strings.Contains(text.String(), PlaceholderMarker) {
						return pStart, dec.InputOffset(), true, nil
					}
				}
			}
		case xml.CharData:
			if inText {
				text.Write(t)
			}
		}
		prev = dec.InputOffset()
	}
}

// questionsParagraph renders the full question list as one paragraph of
// styled runs. Main questions are numbered Q1..Qn, sub-questions lettered
// (a), (b), ... with an explicit break after each line.
func questionsParagraph(questions []model.Question) []byte {
	var buf bytes.Buffer
	buf.WriteString("<w:p>")
	for i, q := range questions {
		writeStyledRun(&buf, FormatHeading(i+1, q.Heading, q.Marks))
		writeBreak(&buf)
		writeBreak(&buf)
		for j, sq := range q.Subs {
			writeStyledRun(&buf, FormatSub(j, sq.Text, sq.Marks))
			writeBreak(&buf)
		}
	}
	buf.WriteString("</w:p>")
	return buf.Bytes()
}

func writeStyledRun(buf *bytes.Buffer, text string) {
	buf.WriteString(`<w:r><w:rPr>`)
	fmt.Fprintf(buf, `<w:rFonts w:ascii="%[1]s" w:eastAsia="%[1]s" w:hAnsi="%[1]s"/>`, questionFont)
	buf.WriteString(`<w:b/>`)
	fmt.Fprintf(buf, `<w:sz w:val="%[1]s"/><w:szCs w:val="%[1]s"/>`, questionSizeHalfPt)
	buf.WriteString(`</w:rPr><w:t xml:space="preserve">`)
	_ = xml.EscapeText(buf, []byte(text))
	buf.WriteString(`</w:t></w:r>`)
}

func writeBreak(buf *bytes.Buffer) {
	buf.WriteString(`<w:r><w:br/></w:r>`)
}

// FormatHeading renders a 1-based main question heading line.
func FormatHeading(n int, heading string, marks int) string {
	return fmt.Sprintf("Q%d. %s [%d Marks]", n, heading, marks)
}

// FormatSub renders a 0-indexed sub-question line, indented and lettered.
func FormatSub(index int, text string, marks int) string {
	return fmt.Sprintf("    (%s) %s [%d Marks]", SubLetter(index), text, marks)
}

// SubLetter maps a 0-based index to its letter label: a..z, then aa, ab, ...
// (bijective base-26, so the sequence is defined past 26 sub-questions).
func SubLetter(index int) string {
	n := index + 1
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('a' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}
