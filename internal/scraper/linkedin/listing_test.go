package linkedin

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-linkedin-applicants/internal/browser"
	"go-linkedin-applicants/internal/browser/browsertest"
	"go-linkedin-applicants/internal/wait"
)

func TestNavigator_OpenListing(t *testing.T) {
	site := newLinkedInSite(twoPageListing(), []int{1, 2})
	page := browsertest.NewPage(site)
	sess, clock := newTestSession(t, page)

	state, err := NewNavigator().OpenListing(context.Background(), sess, jobURL)
	require.NoError(t, err)

	assert.Equal(t, 1, state.CurrentPage)
	assert.Equal(t, 2, state.TotalPages)
	//filtered address first, then the canonical reload
	assert.Equal(t, []string{
		jobURL,
		applicantsURL + "?r=UNRATED&sort=RECENT",
		applicantsURL,
	}, page.Visits())
	assert.Equal(t, applicantsURL, page.URL())
	assert.Contains(t, clock.Sleeps(), testTimeouts().PageSettle)
}

func TestNavigator_OpenListing_Failures(t *testing.T) {
	tests := []struct {
		name    string
		site    *browsertest.Site
		wantMsg string
	}{
		{
			name:    "job posting unreachable",
			site:    browsertest.NewSite(),
			wantMsg: "could not load job posting",
		},
		{
			name: "no view applicants control",
			site: browsertest.NewSite().Handle(jobURL, `<html><body>
				<a href="/hiring/jobs/42/edit/">Edit job</a>
				<button><span class="artdeco-button__text">Share</span></button>
			</body></html>`),
			wantMsg: "view applicants control not found",
		},
		{
			name: "view applicants control hidden",
			site: browsertest.NewSite().Handle(jobURL, `<html><body>
				<div hidden><a class="ember-view" href="/hiring/jobs/42/applicants/" data-goto="`+applicantsURL+`">View 4 applicants</a></div>
			</body></html>`),
			wantMsg: "view applicants control not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := browsertest.NewPage(tt.site)
			sess, _ := newTestSession(t, page)

			_, err := NewNavigator().OpenListing(context.Background(), sess, jobURL)

			var navErr *NavigationError
			require.ErrorAs(t, err, &navErr)
			assert.Equal(t, tt.wantMsg, navErr.Message)
			assert.Equal(t, jobURL, navErr.URL)
			assert.Equal(t, []string{"linkedin-navigation-failed"}, page.Screenshots())
		})
	}
}

func TestNavigator_OpenListing_ButtonControl(t *testing.T) {
	site := newLinkedInSite(twoPageListing()[:1], nil).
		Handle(jobURL, `<html><body>
			<button data-goto="`+applicantsURL+`?r=TOP"><span class="artdeco-button__text">View Applicants</span></button>
		</body></html>`)
	page := browsertest.NewPage(site)
	sess, _ := newTestSession(t, page)

	state, err := NewNavigator().OpenListing(context.Background(), sess, jobURL)
	require.NoError(t, err)
	assert.Equal(t, 1, state.TotalPages)
	assert.Equal(t, applicantsURL, page.URL())
}

type reloadCountingPage struct {
	*browsertest.Page
	reloads int
}

func (p *reloadCountingPage) Reload() error {
	p.reloads++
	return p.Page.Reload()
}

func TestNavigator_OpenListing_ReloadsUnfilteredListing(t *testing.T) {
	site := newLinkedInSite(twoPageListing(), []int{1, 2}).
		Handle(jobURL, `<html><body>
			<a class="ember-view" href="/hiring/jobs/42/applicants/" data-goto="`+applicantsURL+`">View 4 applicants</a>
		</body></html>`)
	page := &reloadCountingPage{Page: browsertest.NewPage(site)}
	sess := NewSession(page, wait.NewFakeClock(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)), testTimeouts())

	state, err := NewNavigator().OpenListing(context.Background(), sess, jobURL)
	require.NoError(t, err)
	assert.Equal(t, 2, state.TotalPages)
	assert.Equal(t, 1, page.reloads)
	assert.Equal(t, []string{jobURL, applicantsURL, applicantsURL}, page.Visits())
}

func TestNavigator_OpenListing_FilteredListingIsNotReloaded(t *testing.T) {
	page := &reloadCountingPage{Page: browsertest.NewPage(newLinkedInSite(twoPageListing(), []int{1, 2}))}
	sess := NewSession(page, wait.NewFakeClock(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)), testTimeouts())

	_, err := NewNavigator().OpenListing(context.Background(), sess, jobURL)
	require.NoError(t, err)
	//the filtered address is replaced, not reloaded
	assert.Zero(t, page.reloads)
}

func TestNavigator_TotalPages(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{
			name: "no indicators",
			body: `<ul class="hiring-applicants__list"><li>one</li></ul>`,
			want: 1,
		},
		{
			name: "last indicator attribute",
			body: `<ul>
				<li class="artdeco-pagination__indicator--number" data-test-pagination-page-btn="1"><button>1</button></li>
				<li class="artdeco-pagination__indicator--number"><button>…</button></li>
				<li class="artdeco-pagination__indicator--number" data-test-pagination-page-btn="12"><button>12</button></li>
			</ul>`,
			want: 12,
		},
		{
			name: "last indicator text",
			body: `<ul>
				<li class="artdeco-pagination__indicator--number"><button><span>1</span></button></li>
				<li class="artdeco-pagination__indicator--number"><button><span>Page 7</span></button></li>
			</ul>`,
			want: 7,
		},
		{
			name: "attribute-only indicators",
			body: `<ul><li data-test-pagination-page-btn="1"></li><li data-test-pagination-page-btn="3"></li></ul>`,
			want: 3,
		},
		{
			name: "unreadable indicator",
			body: `<ul><li class="artdeco-pagination__indicator--number"><button>…</button></li></ul>`,
			want: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			site := browsertest.NewSite().Handle(applicantsURL, "<html><body>"+tt.body+"</body></html>")
			sess, _ := newTestSession(t, openOn(t, site, applicantsURL))
			assert.Equal(t, tt.want, NewNavigator().TotalPages(sess))
		})
	}
}

func TestNavigator_GoToPage(t *testing.T) {
	site := newLinkedInSite(twoPageListing(), []int{1, 2})
	page := openOn(t, site, applicantsURL)
	sess, _ := newTestSession(t, page)
	nav := NewNavigator()

	require.NoError(t, nav.GoToPage(context.Background(), sess, 2))
	assert.Equal(t, pageURL(2), page.URL())

	err := nav.GoToPage(context.Background(), sess, 3)
	assert.ErrorIs(t, err, browser.ErrNotFound)
}

func TestNavigator_GoToPage_Cancelled(t *testing.T) {
	site := newLinkedInSite(twoPageListing(), []int{1, 2})
	page := openOn(t, site, applicantsURL)
	sess, _ := newTestSession(t, page)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, NewNavigator().GoToPage(ctx, sess, 2), context.Canceled)
	assert.Equal(t, applicantsURL, page.URL())
}
