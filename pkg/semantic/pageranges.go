package semantic

import (
	"sort"
	"strconv"
	"strings"
)

// ParsePageRanges parses a string like "1-3, 5, 8-10" into a sorted,
// deduplicated, bounds-clipped sequence of page numbers in [1, total].
// Empty parts are ignored, out-of-range values are discarded or clamped,
// invalid tokens are silently dropped. Re-parsing a formatted result yields
// the same sequence.
func ParsePageRanges(rangeStr string, total int) []int {
	seen := make(map[int]struct{})

	for _, part := range strings.Split(rangeStr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if strings.Contains(part, "-") {
			bounds := strings.SplitN(part, "-", 2)
			if len(bounds) != 2 {
				continue
			}
			start, errS := strconv.Atoi(strings.TrimSpace(bounds[0]))
			end, errE := strconv.Atoi(strings.TrimSpace(bounds[1]))
			if errS != nil || errE != nil {
				continue
			}
			if start < 1 {
				start = 1
			}
			if end > total {
				end = total
			}
			for p := start; p <= end; p++ {
				seen[p] = struct{}{}
			}
			continue
		}

		n, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		if n >= 1 && n <= total {
			seen[n] = struct{}{}
		}
	}

	pages := make([]int, 0, len(seen))
	for p := range seen {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages
}
