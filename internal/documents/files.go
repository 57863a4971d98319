// Package documents decodes uploaded CVs, stores them briefly on disk and turns them into text.
package documents

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

const (
	MIMEPDF  = "application/pdf"
	MIMEDoc  = "application/msword"
	MIMEDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var (
	ErrInvalidBase64   = errors.New("invalid base64 data")
	ErrEmptyFile       = errors.New("file is empty")
	ErrTooLarge        = errors.New("file exceeds maximum size")
	ErrUnsupportedType = errors.New("unsupported file type")
)

var (
	base64Pattern = regexp.MustCompile(`^[A-Za-z0-9+/=]+$`)
	oleMagic      = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

var extensionMIME = map[string]string{
	".pdf":  MIMEPDF,
	".doc":  MIMEDoc,
	".docx": MIMEDocx,
}

// Decode turns base64 file data, optionally wrapped in a data URI, into bytes no larger than maxSize.
func Decode(data, name string, maxSize int64) ([]byte, error) {
	data = strings.TrimSpace(data)
	if strings.HasPrefix(data, "data:") {
		if _, payload, ok := strings.Cut(data, ","); ok {
			data = payload
		}
	}

	if !base64Pattern.MatchString(data) {
		return nil, fmt.Errorf("%w: file %s contains invalid base64 characters", ErrInvalidBase64, name)
	}

	decoded, err := base64.StdEncoding.Strict().DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("%w: file %s: %w", ErrInvalidBase64, name, err)
	}

	if maxSize > 0 && int64(len(decoded)) > maxSize {
		return nil, fmt.Errorf("%w: file %s exceeds maximum size limit (%d bytes)", ErrTooLarge, name, maxSize)
	}
	if len(decoded) == 0 {
		return nil, fmt.Errorf("%w: file %s is empty", ErrEmptyFile, name)
	}

	return decoded, nil
}

// DetectMIME recognises PDF, legacy Word and OOXML documents by their leading bytes.
func DetectMIME(data []byte) string {
	if len(data) < len(oleMagic) {
		return ""
	}

	switch {
	case bytes.HasPrefix(data, []byte("%PDF-")):
		return MIMEPDF
	case bytes.Equal(data[:len(oleMagic)], oleMagic):
		return MIMEDoc
	case bytes.HasPrefix(data, []byte("PK")):
		return MIMEDocx
	default:
		return ""
	}
}

// EnsureExtension appends the extension matching mime when name has none.
func EnsureExtension(name, mime string) string {
	if filepath.Ext(name) != "" {
		return name
	}

	for ext, m := range extensionMIME {
		if m == mime {
			return name + ext
		}
	}
	return name
}

// MIMEFromName guesses the type of a document from its extension.
func MIMEFromName(name string) string {
	return extensionMIME[strings.ToLower(filepath.Ext(name))]
}

// SanitizeName keeps letters, digits, dots, underscores and dashes.
func SanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '_' || r == '-' {
			return r
		}
		return -1
	}, name)
}

// Store keeps uploads in a directory for the duration of their processing.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// SaveTemp writes data as <requestID>_<name> and returns its path with a cleanup function.
func (s *Store) SaveTemp(requestID, name string, data []byte) (string, func() error, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", nil, fmt.Errorf("create save directory: %w", err)
	}

	path := filepath.Join(s.dir, requestID+"_"+filepath.Base(name))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", nil, fmt.Errorf("save file %s: %w", name, err)
	}

	cleanup := func() error {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}
	return path, cleanup, nil
}
