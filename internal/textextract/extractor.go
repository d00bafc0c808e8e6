// Package textextract converts stored certificate artifacts into plain text.
//
// Extraction never fails from the caller's point of view: a missing file,
// an unsupported type or an engine error all yield an empty string, logged
// as a warning, so a batch of certificates always completes.
package textextract

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"

	"github.com/muhammadolammi/profiletracer/internal/logger"
)

type kind int

const (
	kindUnsupported kind = iota
	kindPDF
	kindImage
	kindDocx
	kindText
)

const docxMime = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

var imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".webp": true}

type Extractor struct {
	source Source
	ocr    Recognizer
}

func New(source Source, ocr Recognizer) *Extractor {
	return &Extractor{source: source, ocr: ocr}
}

// Extract returns the text of the artifact at path. mimeType is the type
// declared at upload; when empty the bytes are sniffed.
func (e *Extractor) Extract(ctx context.Context, path, mimeType string) string {
	log := logger.G(ctx).WithFields(logrus.Fields{"path": path, "mime": mimeType})

	ok, err := e.source.Exists(ctx, path)
	if err != nil {
		log.WithError(err).Warn("failed to check artifact")
		return ""
	}
	if !ok {
		log.Debug("artifact missing, skipping")
		return ""
	}

	data, err := e.source.ReadFile(ctx, path)
	if err != nil {
		log.WithError(err).Warn("failed to read artifact")
		return ""
	}
	if mimeType == "" {
		mimeType = mimetype.Detect(data).String()
	}

	var text string
	switch classify(path, mimeType) {
	case kindPDF:
		text, err = extractPDFText(data)
	case kindImage:
		if e.ocr == nil {
			log.Debug("no OCR engine configured")
			return ""
		}
		text, err = e.ocr.Recognize(ctx, data)
	case kindDocx:
		text, err = extractDocxText(data)
	case kindText:
		text = string(data)
	default:
		log.Debug("unsupported artifact type")
		return ""
	}
	if err != nil {
		log.WithError(err).Warn("failed to extract text from file")
		return ""
	}
	return text
}

// classify applies the dispatch order PDF, image, DOCX, plain text, looking
// at the declared MIME type first and the extension second.
func classify(path, mimeType string) kind {
	mimeType = strings.ToLower(mimeType)
	ext := strings.ToLower(filepath.Ext(path))

	switch {
	case strings.Contains(mimeType, "pdf") || ext == ".pdf":
		return kindPDF
	case strings.HasPrefix(mimeType, "image/") || imageExts[ext]:
		return kindImage
	case mimeType == docxMime || ext == ".docx":
		return kindDocx
	case strings.HasPrefix(mimeType, "text/plain") || ext == ".txt" || ext == ".md":
		return kindText
	}
	return kindUnsupported
}
