package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spigell/careerfit/internal/fallback"
	"go.uber.org/zap"
)

var errNoText = errors.New("ocr engine returned no text")

// Image is the input handed to OCR engines.
type Image struct {
	Path string
	Data []byte
	MIME string
}

// OCREngine recognises text in an image.
type OCREngine = fallback.Provider[Image, string]

// Transcriber is implemented by remote vision models.
type Transcriber interface {
	Transcribe(ctx context.Context, data []byte, mimeType string) (string, error)
}

// NewTesseractEngine runs the tesseract executable found at bin (or on PATH).
// The engine is disabled when the binary cannot be located.
func NewTesseractEngine(bin string) OCREngine {
	bin = strings.TrimSpace(bin)
	if bin == "" {
		bin = "tesseract"
	}

	resolved, err := exec.LookPath(bin)
	if err != nil {
		engine := fallback.New[Image, string]("tesseract", nil)
		engine.Disable(fmt.Sprintf("%s not found", bin))
		return engine
	}

	return fallback.New("tesseract", func(ctx context.Context, img Image) (string, error) {
		var stdout, stderr bytes.Buffer
		cmd := exec.CommandContext(ctx, resolved, img.Path, "stdout")
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			return "", fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return nonEmpty(stdout.String())
	})
}

// NewVisionEngine uses a remote vision model. A nil transcriber yields a disabled engine.
func NewVisionEngine(name string, t Transcriber) OCREngine {
	if t == nil {
		return fallback.New[Image, string](name, nil)
	}

	return fallback.New(name, func(ctx context.Context, img Image) (string, error) {
		text, err := t.Transcribe(ctx, img.Data, img.MIME)
		if err != nil {
			return "", err
		}
		return nonEmpty(text)
	})
}

func nonEmpty(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errNoText
	}
	return text, nil
}

type ocrChain struct {
	engines []OCREngine
	logger  *zap.Logger
}

func newOCRChain(engines []OCREngine, logger *zap.Logger) *ocrChain {
	return &ocrChain{engines: engines, logger: logger}
}

// extract never fails: when every engine fails the image yields no text.
func (c *ocrChain) extract(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}

	img := Image{Path: path, Data: data, MIME: mimetype.Detect(data).String()}

	text, outcome, err := fallback.Run(ctx, c.logger, c.engines, img)
	if err != nil {
		c.logger.Debug("no ocr engine produced text",
			zap.String("path", path),
			zap.Any("engines", fallback.Describe(c.engines)),
		)
		return "", nil
	}

	c.logger.Debug("ocr succeeded",
		zap.String("path", path),
		zap.String("engine", outcome.Provider),
		zap.String("mime", img.MIME),
	)

	return text, nil
}
