package utils

import (
	"fmt"
	"math"
)

// Paginate computes the page count and the "1-20 of 45" label used by list
// responses.
func Paginate(page, limit int, total int64) (totalPages int, showing string) {
	if total == 0 || limit <= 0 {
		return 0, "0 of 0"
	}
	totalPages = int(math.Ceil(float64(total) / float64(limit)))
	from := (page-1)*limit + 1
	if int64(from) > total {
		return totalPages, fmt.Sprintf("0 of %d", total)
	}
	showing = fmt.Sprintf("%d-%d of %d", from, min(page*limit, int(total)), total)
	return totalPages, showing
}
