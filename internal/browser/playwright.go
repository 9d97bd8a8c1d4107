package browser

import (
	"context"
	"fmt"
	"log"

	"github.com/playwright-community/playwright-go"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0 Safari/537.36"

// Options configures the Chromium launch.
type Options struct {
	Headless       bool
	InstallDriver  bool
	UserAgent      string
	ScreenshotsDir string
}

// PlaywrightManager owns the playwright driver and the browser process.
type PlaywrightManager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	opts    Options
}

func NewPlaywright(ctx context.Context, opts Options) (*PlaywrightManager, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if opts.InstallDriver {
		log.Println("📥 Installing playwright driver and chromium...")
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
			return nil, fmt.Errorf("could not install playwright: %w", err)
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	//hide the automation flag the same way a regular chrome profile would
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     []string{"--disable-blink-features=AutomationControlled"},
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("could not launch chromium: %w", err)
	}

	return &PlaywrightManager{pw: pw, browser: browser, opts: opts}, nil
}

// NewContext creates an isolated browser context seeded with cookies.
func (pm *PlaywrightManager) NewContext(cookies []playwright.OptionalCookie) (playwright.BrowserContext, error) {
	ua := pm.opts.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	browserCtx, err := pm.browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(ua),
		Viewport:  &playwright.Size{Width: 1440, Height: 900},
	})
	if err != nil {
		return nil, fmt.Errorf("could not create browser context: %w", err)
	}

	if len(cookies) > 0 {
		if err := browserCtx.AddCookies(cookies); err != nil {
			_ = browserCtx.Close()
			return nil, fmt.Errorf("could not add cookies: %w", err)
		}
	}
	return browserCtx, nil
}

// NewPage opens a tab in browserCtx and wraps it as a Page.
func (pm *PlaywrightManager) NewPage(browserCtx playwright.BrowserContext) (Page, error) {
	page, err := browserCtx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("could not create page: %w", err)
	}
	return WrapPage(page, NewScreenShotDebugger(pm.opts.ScreenshotsDir)), nil
}

// Close shuts the browser down and stops the driver. Safe to call on a nil manager.
func (pm *PlaywrightManager) Close() error {
	if pm == nil {
		return nil
	}
	var firstErr error
	if pm.browser != nil {
		if err := pm.browser.Close(); err != nil {
			firstErr = fmt.Errorf("could not close browser: %w", err)
		}
	}
	if pm.pw != nil {
		if err := pm.pw.Stop(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("could not stop playwright: %w", err)
		}
	}
	log.Println("🧹 Browser closed.")
	return firstErr
}

type pwPage struct {
	page  playwright.Page
	shots *ScreenShotDebugger
}

// WrapPage adapts a playwright page to Page.
func WrapPage(page playwright.Page, shots *ScreenShotDebugger) Page {
	return &pwPage{page: page, shots: shots}
}

func (p *pwPage) Goto(url string) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(30000),
	})
	return err
}

func (p *pwPage) Reload() error {
	_, err := p.page.Reload(playwright.PageReloadOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(30000),
	})
	return err
}

func (p *pwPage) URL() string {
	return p.page.URL()
}

func (p *pwPage) Query(selector string) ([]Element, error) {
	return wrapLocators(p.page.Locator(selector).All())
}

func (p *pwPage) Screenshot(name string) error {
	if p.shots == nil {
		return nil
	}
	return p.shots.CaptureAndLog(p.page, name, "Capturing "+name)
}

type pwElement struct {
	loc playwright.Locator
}

func wrapLocators(locs []playwright.Locator, err error) ([]Element, error) {
	if err != nil {
		return nil, err
	}
	out := make([]Element, len(locs))
	for i, l := range locs {
		out[i] = &pwElement{loc: l}
	}
	return out, nil
}

func (e *pwElement) Query(selector string) ([]Element, error) {
	return wrapLocators(e.loc.Locator(selector).All())
}

func (e *pwElement) Text() (string, error) {
	return e.loc.InnerText(playwright.LocatorInnerTextOptions{
		Timeout: playwright.Float(2000),
	})
}

func (e *pwElement) Attr(name string) (string, error) {
	return e.loc.GetAttribute(name, playwright.LocatorGetAttributeOptions{
		Timeout: playwright.Float(2000),
	})
}

func (e *pwElement) Visible() (bool, error) {
	return e.loc.IsVisible()
}

func (e *pwElement) Click() error {
	return e.loc.Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(5000),
	})
}

func (e *pwElement) Fill(value string) error {
	return e.loc.Fill(value, playwright.LocatorFillOptions{
		Timeout: playwright.Float(5000),
	})
}

func (e *pwElement) ScrollIntoView() error {
	return e.loc.ScrollIntoViewIfNeeded(playwright.LocatorScrollIntoViewIfNeededOptions{
		Timeout: playwright.Float(5000),
	})
}
