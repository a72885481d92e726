package storage

import (
	"fmt"

	"github.com/gabriel-vasile/mimetype"
)

// UploadPolicy is checked before anything is written to the bucket.
type UploadPolicy struct {
	Kind         string
	MaxBytes     int64
	AllowedTypes []string
	Visibility   Visibility
}

var (
	ResumePolicy = UploadPolicy{
		Kind:         "resume",
		MaxBytes:     10 << 20,
		AllowedTypes: []string{"application/pdf"},
		Visibility:   Private,
	}

	ProfilePicturePolicy = UploadPolicy{
		Kind:         "profile-picture",
		MaxBytes:     5 << 20,
		AllowedTypes: []string{"image/jpeg", "image/png", "image/webp"},
		Visibility:   Public,
	}
)

// CheckSize rejects empty files and files over the limit.
func (p UploadPolicy) CheckSize(size int64) error {
	if size <= 0 {
		return fmt.Errorf("%s is empty: %w", p.Kind, ErrUnsupportedType)
	}
	if size > p.MaxBytes {
		return fmt.Errorf("%s exceeds %d bytes: %w", p.Kind, p.MaxBytes, ErrTooLarge)
	}
	return nil
}

// DetectType sniffs the content type from the leading bytes of the file and
// returns it when allowed.
func (p UploadPolicy) DetectType(data []byte) (string, error) {
	mt := mimetype.Detect(data)
	for _, allowed := range p.AllowedTypes {
		if mt.Is(allowed) {
			return allowed, nil
		}
	}
	return "", fmt.Errorf("%s of type %s: %w", p.Kind, mt.String(), ErrUnsupportedType)
}

// Check runs the size and content checks on a fully read file.
func (p UploadPolicy) Check(data []byte) (string, error) {
	if err := p.CheckSize(int64(len(data))); err != nil {
		return "", err
	}
	return p.DetectType(data)
}
