package reports

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var asciiFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// slugify lowercases a name part and strips everything that does not
// belong in a filename. Accented characters fold to their ASCII base.
func slugify(s string) string {
	folded, _, err := transform.String(asciiFold, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// ExportFilename derives the attachment filename for a report export.
// The lecturer names are empty when the export covers all lecturers.
func ExportFilename(tab Tab, rng Range, format, lecturerFirst, lecturerLast string) string {
	name := fmt.Sprintf("attendance-report-%s-%s", tab, rng)
	if first := slugify(lecturerFirst); first != "" {
		name += "-" + first
	}
	if last := slugify(lecturerLast); last != "" {
		name += "-" + last
	}
	return name + "." + format
}
