package search

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/styleme-cloud/stylesearch/internal/index"
)

// NoResultsSentinel is emitted when retrieval found nothing. The relevance
// filter prompt treats it as "no candidates", so the model has nothing to
// rank and the request resolves to an empty result set.
const NoResultsSentinel = "No relevant products found."

// defaultExcerptLen caps the searchable-text excerpt per context line to keep
// the prompt bounded for large catalogs.
const defaultExcerptLen = 200

// FormatContext renders retrieval hits into the textual context block fed to
// the relevance filter: one line per hit with 1-based rank, product ID, a
// truncated content excerpt, and the price when known.
func FormatContext(hits []index.Hit, excerptLen int) string {
	if len(hits) == 0 {
		return NoResultsSentinel
	}
	if excerptLen <= 0 {
		excerptLen = defaultExcerptLen
	}

	lines := make([]string, len(hits))
	for i, h := range hits {
		line := fmt.Sprintf("%d. Product ID: %d | Content: %s...",
			i+1, h.Item.ID, truncate(h.Item.SearchableText(), excerptLen))
		if price := h.Item.EffectivePrice(); price > 0 {
			line += fmt.Sprintf(" | Price: Rs. %v", price)
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// truncate cuts s to at most n bytes without splitting a multi-byte rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
