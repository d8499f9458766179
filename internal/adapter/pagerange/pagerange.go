// Package pagerange parses human-entered page selections such as "1,2,5-7".
package pagerange

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalidRangeFormat is returned when a range token does not have exactly
// one '-' separator.
var ErrInvalidRangeFormat = errors.New("invalid range format")

// Parse converts a comma separated list of 1-based pages and inclusive A-B
// ranges into sorted, unique zero-based page indices. Entries outside
// [1, totalPages], non-numeric entries and ranges with non-numeric endpoints
// are dropped. Only a range token such as "1-2-3" is an error.
func Parse(input string, totalPages int) ([]int, error) {
	pages := make(map[int]struct{})

	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if strings.Contains(part, "-") {
			bounds := strings.Split(part, "-")
			if len(bounds) != 2 {
				return nil, fmt.Errorf("%w: %q", ErrInvalidRangeFormat, part)
			}
			start, err1 := strconv.Atoi(strings.TrimSpace(bounds[0]))
			end, err2 := strconv.Atoi(strings.TrimSpace(bounds[1]))
			if err1 != nil || err2 != nil {
				continue
			}
			start = max(start, 1)
			end = min(end, totalPages)
			for i := start; i <= end; i++ {
				pages[i-1] = struct{}{}
			}
			continue
		}

		if !isDigits(part) {
			continue
		}
		i, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		if i >= 1 && i <= totalPages {
			pages[i-1] = struct{}{}
		}
	}

	result := make([]int, 0, len(pages))
	for p := range pages {
		result = append(result, p)
	}
	sort.Ints(result)
	return result, nil
}

// All returns every zero-based index of a document with totalPages pages.
func All(totalPages int) []int {
	result := make([]int, 0, max(totalPages, 0))
	for i := 0; i < totalPages; i++ {
		result = append(result, i)
	}
	return result
}

// Format renders zero-based indices as a compact 1-based range string.
func Format(indices []int) string {
	if len(indices) == 0 {
		return ""
	}
	sorted := append([]int(nil), indices...)
	sort.Ints(sorted)

	var parts []string
	start, prev := sorted[0], sorted[0]
	flush := func() {
		if start == prev {
			parts = append(parts, strconv.Itoa(start+1))
		} else {
			parts = append(parts, fmt.Sprintf("%d-%d", start+1, prev+1))
		}
	}
	for _, i := range sorted[1:] {
		if i == prev {
			continue
		}
		if i == prev+1 {
			prev = i
			continue
		}
		flush()
		start, prev = i, i
	}
	flush()
	return strings.Join(parts, ",")
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
