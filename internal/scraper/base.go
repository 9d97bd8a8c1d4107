// Define the interface for applicant scrapers
// and the records they produce

package scraper

import (
	"context"

	"go-linkedin-applicants/internal/browser"
)

// sentinel values substituted when a field cannot be extracted
const (
	NameNotFound     = "Unknown"
	LocationNotFound = "Unknown location"
	EmailNotFound    = "Email not found"
	PhoneNotFound    = "Phone number not found"
)

// Header is the fixed column order of every output file.
var Header = []string{"name", "location", "email", "phone", "profile_link"}

// ApplicantRecord is one applicant's contact details. Extraction is best
// effort per field, so any field may hold a sentinel; ProfileLink is empty
// when absent.
type ApplicantRecord struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	ProfileLink string `json:"profile_link,omitempty"`
}

// NotFoundRecord is the record produced when nothing could be read.
func NotFoundRecord() ApplicantRecord {
	return ApplicantRecord{
		Name:     NameNotFound,
		Location: LocationNotFound,
		Email:    EmailNotFound,
		Phone:    PhoneNotFound,
	}
}

// Fields returns the record in Header order.
func (r ApplicantRecord) Fields() []string {
	return []string{r.Name, r.Location, r.Email, r.Phone, r.ProfileLink}
}

// Degraded counts the fields that fell back to a sentinel or are absent.
func (r ApplicantRecord) Degraded() int {
	n := 0
	if r.Name == NameNotFound {
		n++
	}
	if r.Location == LocationNotFound {
		n++
	}
	if r.Email == EmailNotFound {
		n++
	}
	if r.Phone == PhoneNotFound {
		n++
	}
	if r.ProfileLink == "" {
		n++
	}
	return n
}

// PaginationState tracks the walk over the listing. TotalPages is discovered
// once; CurrentPage only moves forward. 1 <= CurrentPage <= TotalPages.
type PaginationState struct {
	CurrentPage int
	TotalPages  int
}

// NewPaginationState starts on page 1 of total, treating anything below 1 as a
// single-page listing.
func NewPaginationState(total int) PaginationState {
	if total < 1 {
		total = 1
	}
	return PaginationState{CurrentPage: 1, TotalPages: total}
}

// IsLast reports whether the current page is the final one.
func (s PaginationState) IsLast() bool {
	return s.CurrentPage >= s.TotalPages
}

// Advance moves to the next page; it never goes past TotalPages.
func (s PaginationState) Advance() (PaginationState, bool) {
	if s.IsLast() {
		return s, false
	}
	s.CurrentPage++
	return s, true
}

// Scraper defines the interface that applicant scrapers must implement
type Scraper interface {
	//Scrape applicants for the configured job posting
	Scrape(ctx context.Context, page browser.Page) ([]ApplicantRecord, error)

	//Name is the platform name
	Name() string
}
