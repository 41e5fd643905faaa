package search

import (
	"regexp"
	"strconv"
	"strings"
)

// nonIDChars matches everything that cannot be part of a comma-separated ID
// list. Model replies often wrap the list in prose or markdown; stripping
// first keeps the split logic trivial.
var nonIDChars = regexp.MustCompile(`[^\d,\s]`)

// ParseProductIDs extracts product IDs from a raw model reply. Segments that
// do not parse fully as non-negative integers are dropped, duplicates keep
// the first occurrence, and the original order is preserved. Any garbled or
// empty reply yields an empty list; that is a valid "no matches" outcome,
// never an error.
func ParseProductIDs(raw string) []int64 {
	cleaned := nonIDChars.ReplaceAllString(strings.TrimSpace(raw), "")

	var ids []int64
	seen := make(map[int64]struct{})
	for _, part := range strings.Split(cleaned, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		// Fields: inner whitespace ("12 45") means the segment is not a
		// single number, skip it entirely.
		if len(strings.Fields(part)) != 1 {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
