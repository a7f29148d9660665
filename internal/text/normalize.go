// Package text provides the pure text canonicalization helpers used before
// any lookup: free-text normalization and URL-safe slug building. Both are
// deterministic, side-effect free, and tolerant of empty input.
package text

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// punctRE strips the fixed sentence punctuation set.
	punctRE = regexp.MustCompile(`[.,!?;:]`)

	// fillerRE removes Vietnamese filler words and phrases with whole-word
	// matching. Alternation order is significant: multi-word phrases come
	// before their single-word prefixes.
	fillerRE = regexp.MustCompile(`(?i)\b(thông tin|cho tôi biết|cho tôi|giúp tôi|tôi cần|tôi muốn|cần biết|muốn biết|xem|tìm hiểu|tìm|hãy|về|của|là|ở|tại|vào|cửa|vé|bao nhiêu|bao nhieu|hết|tất cả|vui lòng|nhé|nha|đi|à|ạ|giá|giá vé|gia ve)\b`)

	// spaceRE collapses whitespace runs.
	spaceRE = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes free user text for alias lookup: NFC composition,
// lowercasing, punctuation stripping, filler-word removal, and whitespace
// collapsing. Empty input yields an empty string.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFC.String(s)
	s = strings.ToLower(s)
	s = punctRE.ReplaceAllString(s, "")
	s = fillerRE.ReplaceAllString(s, "")
	s = spaceRE.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
