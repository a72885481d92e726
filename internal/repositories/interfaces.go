package repositories

import "errors"

// ===== SHARED ERRORS =====

var (
	// ErrNotFound is returned when a lookup by key matches no row.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a write violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
)

// ===== SHARED PAGINATION =====

const (
	DefaultItemsPerPage = 8
	MaxItemsPerPage     = 100
)

// TotalPages returns ceil(total / perPage), and 0 for an empty result.
func TotalPages(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
