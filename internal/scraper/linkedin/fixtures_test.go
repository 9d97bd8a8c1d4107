package linkedin

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-linkedin-applicants/internal/browser/browsertest"
	"go-linkedin-applicants/internal/config"
	"go-linkedin-applicants/internal/wait"
)

const (
	feedURL       = "https://www.linkedin.com/feed/"
	jobURL        = "https://www.linkedin.com/hiring/jobs/42/detail/"
	applicantsURL = "https://www.linkedin.com/hiring/jobs/42/applicants/"
)

func pageURL(n int) string {
	if n == 1 {
		return applicantsURL
	}
	return fmt.Sprintf("%s?page=%d", applicantsURL, n)
}

type applicant struct {
	ID       int
	Name     string
	Location string
	Email    string
	Phone    string
	Profile  string
}

func testTimeouts() config.Timeouts {
	return config.Timeouts{
		Wait:         2 * time.Second,
		PollInterval: 100 * time.Millisecond,
		SettleMin:    time.Second,
		SettleMax:    2 * time.Second,
		PageSettle:   2 * time.Second,
	}
}

func newTestSession(t *testing.T, page *browsertest.Page) (*Session, *wait.FakeClock) {
	t.Helper()
	clock := wait.NewFakeClock(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	return NewSession(page, clock, testTimeouts()), clock
}

const loginHTML = `<html><body>
<form>
  <input id="username" name="session_key">
  <input id="password" name="session_password" type="password">
  <button type="submit" data-goto="` + feedURL + `">Sign in</button>
</form>
</body></html>`

const feedHTML = `<html><body><main class="feed">Home</main></body></html>`

const jobHTML = `<html><body>
<h1>Senior Go Engineer</h1>
<a href="/hiring/jobs/42/edit/">Edit job</a>
<a class="ember-view" href="/hiring/jobs/42/applicants/" data-goto="` + applicantsURL + `?r=UNRATED&amp;sort=RECENT">View 4 applicants</a>
</body></html>`

// listingHTML renders one listing page. links maps page numbers to the
// pagination buttons rendered; total is the label of the last indicator.
func listingHTML(rows []applicant, links []int) string {
	var b strings.Builder
	b.WriteString(`<html><body><div class="hiring-applicants"><ul class="hiring-applicants__list">`)
	for _, a := range rows {
		fmt.Fprintf(&b, `<li class="hiring-applicants__list-item">
  <a class="ember-view" href="/hiring/jobs/42/applicants/%d/detail/" data-swap="detail-%d" data-swap-target="#detail">%s</a>
</li>`, a.ID, a.ID, a.Name)
	}
	b.WriteString(`</ul></div><div id="detail"></div>`)
	if len(links) > 0 {
		b.WriteString(`<ul class="artdeco-pagination__pages">`)
		for _, n := range links {
			fmt.Fprintf(&b, `<li class="artdeco-pagination__indicator--number" data-test-pagination-page-btn="%d">
  <button aria-label="Page %d" data-goto="%s"><span>%d</span></button>
</li>`, n, n, pageURL(n), n)
		}
		b.WriteString(`</ul>`)
	}
	b.WriteString(`</body></html>`)
	return b.String()
}

func detailHTML(a applicant) string {
	location := ""
	if a.Location != "" {
		location = `<div class="t-16">` + a.Location + `</div>`
	}
	profile := ""
	if a.Profile != "" {
		profile = `<a class="artdeco-button artdeco-button--tertiary" href="` + a.Profile + `">View profile</a>`
	}
	return fmt.Sprintf(`<div class="hiring-applicant-header">
  <h1 class="t-24">%s’s application</h1>
  %s
  <div class="hiring-applicant-header-actions">
    <button class="artdeco-dropdown__trigger" aria-label="More actions" data-swap="contact-%d" data-swap-target="#contact">More</button>
  </div>
  %s
</div>
<div aria-live="polite" id="contact"></div>`, a.Name, location, a.ID, profile)
}

func contactHTML(a applicant) string {
	var b strings.Builder
	b.WriteString(`<div class="artdeco-dropdown__content-inner"><span class="t-16">Contact info</span>`)
	if a.Email != "" {
		fmt.Fprintf(&b, `<span class="t-black--light">Email</span>
<a href="mailto:%s"><span>%s</span><span class="visually-hidden">(opens email)</span></a>`, a.Email, a.Email)
	}
	if a.Phone != "" {
		fmt.Fprintf(&b, `<span class="t-black--light">Phone</span><span> %s </span>`, a.Phone)
	}
	b.WriteString(`</div>`)
	return b.String()
}

// newLinkedInSite serves login, feed, the job posting and the given listing
// pages. pages[i] holds page i+1; links lists the pagination buttons shown on
// every page.
func newLinkedInSite(pages [][]applicant, links []int) *browsertest.Site {
	site := browsertest.NewSite().
		Handle(LoginURL, loginHTML).
		Handle(feedURL, feedHTML).
		Handle(jobURL, jobHTML)
	for i, rows := range pages {
		site.Handle(pageURL(i+1), listingHTML(rows, links))
		for _, a := range rows {
			site.Fragment(fmt.Sprintf("detail-%d", a.ID), detailHTML(a))
			site.Fragment(fmt.Sprintf("contact-%d", a.ID), contactHTML(a))
		}
	}
	return site
}

func twoPageListing() [][]applicant {
	return [][]applicant{
		{
			{ID: 101, Name: "Jane Doe", Location: "Austin, Texas", Email: "jane@example.com", Phone: "+1 555 0100", Profile: "/in/jane-doe/"},
			{ID: 102, Name: "Bob Stone", Location: "Berlin, Germany", Email: "bob@example.com", Phone: "+49 30 1234", Profile: "https://www.linkedin.com/in/bob-stone/"},
		},
		{
			{ID: 201, Name: "Chloé Martin", Location: "Lyon, France", Email: "chloe@example.com", Phone: "+33 4 7200", Profile: "/in/chloe-martin/"},
			{ID: 202, Name: "Dev Patel", Location: "Pune, India", Email: "dev@example.com", Phone: "+91 20 5555", Profile: "/in/dev-patel/"},
		},
	}
}

func openOn(t *testing.T, site *browsertest.Site, url string) *browsertest.Page {
	t.Helper()
	page := browsertest.NewPage(site)
	require.NoError(t, page.Goto(url))
	return page
}
