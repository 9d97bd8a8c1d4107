package linkedin

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"go-linkedin-applicants/internal/scraper"
)

// the detail header reads "<Name>’s application"
var possessiveRegex = regexp.MustCompile(`^(.+?)\s*['’]s(?:\s|$)`)

// phoneIndex is where the phone number sits among the unmuted contact spans.
// It is a guess from the current panel layout and silently shifts if the
// layout does; see DESIGN.md.
const phoneIndex = 3

// cleanText NFC-normalizes s and collapses runs of whitespace.
func cleanText(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// ParseName extracts the applicant name from the detail header, or returns
// scraper.NameNotFound when the header has no possessive.
func ParseName(header string) string {
	m := possessiveRegex.FindStringSubmatch(cleanText(header))
	if m == nil {
		return scraper.NameNotFound
	}
	name := strings.TrimSpace(m[1])
	if name == "" {
		return scraper.NameNotFound
	}
	return name
}

// PickPhone returns the phone entry from the filtered contact spans.
func PickPhone(spans []string) string {
	if len(spans) <= phoneIndex {
		return scraper.PhoneNotFound
	}
	phone := strings.TrimSpace(spans[phoneIndex])
	if phone == "" {
		return scraper.PhoneNotFound
	}
	return phone
}

// stripHidden removes accessibility-only fragments from a link's text.
func stripHidden(text string, hidden []string) string {
	for _, h := range hidden {
		if h = cleanText(h); h != "" {
			text = strings.Replace(text, h, "", 1)
		}
	}
	return cleanText(text)
}
