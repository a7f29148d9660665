package text

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	nonSlugRE   = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaceRE = regexp.MustCompile(`\s+`)
	dashRunRE   = regexp.MustCompile(`-+`)
)

// Slugify converts a display name into its canonical URL-safe key form:
// NFD decomposition, removal of combining marks, explicit đ/Đ folding
// (decomposition alone does not strip the stroke), lowercasing, and
// dash-joining. The result contains only [a-z0-9-] with no leading,
// trailing, or doubled dashes. Slugify is idempotent.
func Slugify(s string) string {
	if s == "" {
		return ""
	}
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		switch r {
		case 'đ', 'Đ':
			b.WriteRune('d')
		default:
			b.WriteRune(r)
		}
	}
	out := strings.ToLower(strings.TrimSpace(b.String()))
	out = nonSlugRE.ReplaceAllString(out, "")
	out = slugSpaceRE.ReplaceAllString(out, "-")
	out = dashRunRE.ReplaceAllString(out, "-")
	return strings.Trim(out, "-")
}
