package pagination

import (
	"fmt"

	"github.com/ShrishPande/tallyinsight/internal/apperrors"
)

// Bounds returns the half-open slice window [start, end) of a 1-based page over total rows.
// Windows past the end are empty (start == end == total).
func Bounds(total, page, pageSize int) (start, end int, err error) {
	if page < 1 {
		return 0, 0, fmt.Errorf("%w: page must be at least 1, got %d", apperrors.ErrValidation, page)
	}
	if pageSize < 1 {
		return 0, 0, fmt.Errorf("%w: page size must be at least 1, got %d", apperrors.ErrValidation, pageSize)
	}

	// compare before multiplying so huge pages cannot overflow
	if page-1 > total/pageSize {
		start = total
	} else {
		start = min((page-1)*pageSize, total)
	}
	end = start + min(pageSize, total-start)
	return start, end, nil
}
