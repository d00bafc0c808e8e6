package textextract

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/pkg/errors"
)

// Recognizer turns an image into text.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// Tesseract runs the tesseract CLI, feeding the image on stdin.
type Tesseract struct {
	Binary   string
	Language string
}

func (t Tesseract) Recognize(ctx context.Context, image []byte) (string, error) {
	bin, lang := t.Binary, t.Language
	if bin == "" {
		bin = "tesseract"
	}
	if lang == "" {
		lang = "eng"
	}

	cmd := exec.CommandContext(ctx, bin, "stdin", "stdout", "-l", lang)
	cmd.Stdin = bytes.NewReader(image)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return "", errors.Wrapf(err, "tesseract OCR failed: %s", strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(string(out)), nil
}

// extractPDFText reads every page's plain text. The pdf package panics on
// some malformed files, so panics are turned into errors here.
func extractPDFText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.Wrap(err, "failed to read pdf")
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", errors.Wrapf(err, "reading page %d", i)
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>`)
	xmlTag           = regexp.MustCompile(`<[^>]+>`)
)

// extractDocxText returns the body text of a .docx. The docx package hands
// back document.xml, so paragraph ends become newlines and tags are dropped.
func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.Wrap(err, "failed to parse docx")
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	content = docxParagraphEnd.ReplaceAllString(content, "\n")
	content = xmlTag.ReplaceAllString(content, "")
	return strings.TrimSpace(content), nil
}
