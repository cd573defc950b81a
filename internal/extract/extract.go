// Package extract turns document files into plain text. Dispatch is purely by
// file extension; the only error surfaced to callers is ErrUnsupportedType.
// Every recognised format degrades to an empty string when decoding fails.
package extract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// ErrUnsupportedType is returned for file extensions the extractor does not recognise.
var ErrUnsupportedType = errors.New("unsupported file type")

type decoder func(ctx context.Context, path string) (string, error)

// Options configures an Extractor.
type Options struct {
	// Permissive enables best-effort decoding of .rtf and legacy .doc files.
	Permissive bool
	// OCR lists image text engines in the order they are tried.
	OCR []OCREngine
}

// Extractor converts files into plain text.
type Extractor struct {
	permissive bool
	ocr        *ocrChain
	logger     *zap.Logger
}

// New creates an Extractor.
func New(opts Options, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Extractor{
		permissive: opts.Permissive,
		ocr:        newOCRChain(opts.OCR, logger),
		logger:     logger,
	}
}

// Supported reports whether the extension of path is handled by this extractor.
func (e *Extractor) Supported(path string) bool {
	return e.decoderFor(path) != nil
}

// Extract reads the file at path and returns its text.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	decode := e.decoderFor(path)
	if decode == nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, filepath.Ext(path))
	}

	text, err := decode(ctx, path)
	if err != nil {
		e.logger.Warn("text extraction failed",
			zap.String("path", path),
			zap.Error(err),
		)
		return "", nil
	}

	e.logger.Debug("text extracted",
		zap.String("path", path),
		zap.Int("length", len(text)),
	)

	return text, nil
}

// Extensions lists the extensions the extractor accepts, with the leading dot.
func (e *Extractor) Extensions() []string {
	exts := []string{".pdf", ".docx", ".txt", ".csv", ".png", ".jpg", ".jpeg"}
	if e.permissive {
		exts = append(exts, ".rtf", ".doc")
	}
	return exts
}

func (e *Extractor) decoderFor(path string) decoder {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return withoutContext(extractPDF)
	case ".docx":
		return withoutContext(extractDOCX)
	case ".txt", ".csv":
		return withoutContext(extractPlain)
	case ".rtf":
		if e.permissive {
			return withoutContext(extractPlain)
		}
	case ".doc":
		if e.permissive {
			return withoutContext(extractLegacyDoc)
		}
	case ".png", ".jpg", ".jpeg":
		return e.ocr.extract
	}
	return nil
}

func withoutContext(fn func(path string) (string, error)) decoder {
	return func(_ context.Context, path string) (string, error) {
		return fn(path)
	}
}
