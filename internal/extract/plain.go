package extract

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"
)

// extractPlain decodes the file as UTF-8, dropping invalid byte sequences.
func extractPlain(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}

	text := strings.ToValidUTF8(string(data), "")
	return strings.TrimPrefix(text, "\ufeff"), nil
}

// extractLegacyDoc recovers readable text from a binary .doc by decoding it as
// ISO-8859-1. Non-ASCII content is lost; control bytes are dropped.
func extractLegacyDoc(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode latin-1: %w", err)
	}

	text := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r == '\r' {
			return '\n'
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, string(decoded))

	return strings.TrimSpace(text), nil
}
