// Package storage is the gateway to the object bucket holding resumes and
// profile pictures.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
	"unicode"
)

// DefaultSignedURLExpiry is the lifetime of links handed out for private objects.
const DefaultSignedURLExpiry = 24 * time.Hour

type Visibility int

const (
	Private Visibility = iota
	Public
)

var (
	ErrObjectNotFound  = errors.New("object not found")
	ErrTooLarge        = errors.New("file too large")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// BlobStore stores opaque objects by name. Every call is a backend round-trip.
type BlobStore interface {
	// Upload stores body under name and returns the public URL for Public
	// objects, or the bare name otherwise.
	Upload(ctx context.Context, name string, body io.Reader, size int64, contentType string, visibility Visibility) (string, error)
	// Download reads the whole object. Missing objects yield ErrObjectNotFound.
	Download(ctx context.Context, name string) ([]byte, error)
	// SignedURL returns a time-limited read link for a private object.
	SignedURL(ctx context.Context, name string, expiry time.Duration) (string, error)
}

// ObjectName derives the stored name for an uploaded file:
// <unix millis>-<sanitized base name>.
func ObjectName(now time.Time, original string) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), sanitizeBase(original))
}

func sanitizeBase(original string) string {
	base := path.Base(strings.ReplaceAll(original, `\`, "/"))
	if base == "." || base == "/" {
		base = ""
	}

	var b strings.Builder
	for _, r := range base {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	name := strings.TrimLeft(b.String(), ".")
	if name == "" {
		return "file"
	}
	return name
}

// ValidName reports whether name is a single flat object name that clients may
// address directly.
func ValidName(name string) bool {
	if name == "" || len(name) > 500 {
		return false
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsFunc(name, unicode.IsControl)
}
