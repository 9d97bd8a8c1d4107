package linkedin

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-linkedin-applicants/internal/scraper"
)

func TestParseName(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "curly apostrophe", header: "Jane Doe’s profile", want: "Jane Doe"},
		{name: "straight apostrophe", header: "Bob Stone's application", want: "Bob Stone"},
		{name: "surrounding whitespace", header: "\n   Chloé   Martin’s application  ", want: "Chloé Martin"},
		{name: "possessive at end", header: "Dev Patel’s", want: "Dev Patel"},
		{name: "no separator", header: "Jane Doe", want: scraper.NameNotFound},
		{name: "empty", header: "", want: scraper.NameNotFound},
		{name: "separator only", header: "’s application", want: scraper.NameNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseName(tt.header))
		})
	}
}

func TestParseName_NormalizesDecomposedText(t *testing.T) {
	//"e" followed by a combining acute accent
	assert.Equal(t, "Chloé", ParseName("Chloe\u0301’s application"))
}

func TestPickPhone(t *testing.T) {
	tests := []struct {
		name  string
		spans []string
		want  string
	}{
		{name: "empty", spans: nil, want: scraper.PhoneNotFound},
		{name: "shorter than expected", spans: []string{"Contact info", "jane@example.com", "(opens email)"}, want: scraper.PhoneNotFound},
		{name: "value at index", spans: []string{"Contact info", "jane@example.com", "(opens email)", "  +1 555 0100 "}, want: "+1 555 0100"},
		{name: "longer list", spans: []string{"a", "b", "c", "555", "e", "f"}, want: "555"},
		{name: "blank slot", spans: []string{"a", "b", "c", "   "}, want: scraper.PhoneNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PickPhone(tt.spans))
		})
	}
}

func TestStripQuery(t *testing.T) {
	assert.Equal(t, applicantsURL, StripQuery(applicantsURL+"?r=UNRATED&sort=RECENT"))
	assert.Equal(t, applicantsURL, StripQuery(applicantsURL+"#top"))
	assert.Equal(t, applicantsURL, StripQuery(applicantsURL))
}

func TestAbsoluteURL(t *testing.T) {
	assert.Equal(t, "https://www.linkedin.com/in/jane-doe/", absoluteURL("/in/jane-doe/"))
	assert.Equal(t, "https://www.linkedin.com/in/jane-doe/", absoluteURL("in/jane-doe/"))
	assert.Equal(t, "https://example.com/x", absoluteURL(" https://example.com/x "))
	assert.Equal(t, "", absoluteURL(""))
}

func TestStripHidden(t *testing.T) {
	assert.Equal(t, "jane@example.com", stripHidden("jane@example.com (opens email)", []string{"(opens email)"}))
	assert.Equal(t, "jane@example.com", stripHidden("jane@example.com", nil))
}
