package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
	"github.com/spf13/cobra"

	"go-linkedin-applicants/internal/browser"
	"go-linkedin-applicants/internal/config"
	"go-linkedin-applicants/internal/notify"
	"go-linkedin-applicants/internal/scraper"
	"go-linkedin-applicants/internal/scraper/linkedin"
	"go-linkedin-applicants/internal/sink"
)

const lockFileName = ".linkedin-applicants.lock"

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape every applicant of a job posting to CSV",
	RunE:  runScrape,
}

var (
	scrapeConfigPath string
	scrapeJobURL     string
	scrapeOutputDir  string
	scrapeInstall    bool
	scrapeHeadful    bool
)

func init() {
	scrapeCmd.Flags().StringVarP(&scrapeConfigPath, "config", "c", config.DefaultPath, "Path to config YAML")
	scrapeCmd.Flags().StringVar(&scrapeJobURL, "job-url", "", "Job posting URL (overrides the credentials file url)")
	scrapeCmd.Flags().StringVarP(&scrapeOutputDir, "out", "o", "", "Output directory for the CSV file")
	scrapeCmd.Flags().BoolVar(&scrapeInstall, "install", false, "Install the playwright driver and chromium before running")
	scrapeCmd.Flags().BoolVar(&scrapeHeadful, "headful", false, "Show the browser window")

	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(scrapeConfigPath)
	if err != nil {
		return err
	}
	applyScrapeFlags(cfg)
	log.Printf("🔧 Config loaded. Output: %s, headless: %v", cfg.OutputDir, cfg.Headless)

	creds, err := config.LoadCredentials(cfg.CredentialsPath)
	if err != nil {
		return err
	}
	creds = creds.WithTargetURL(cfg.JobURL)
	if err := creds.Validate(); err != nil {
		return fmt.Errorf("job url: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	unlock, err := acquireLock(cfg.OutputDir)
	if err != nil {
		return err
	}
	defer unlock()

	runID := uuid.NewString()
	start := time.Now()
	notifier := newNotifier(cfg)
	log.Printf("🚀 Starting run %s for %s", runID, creds.TargetURL)

	records, scrapeErr := scrapeApplicants(ctx, cfg, creds)

	summary := notify.Summarize(runID, creds.TargetURL, records)
	summary.Duration = time.Since(start)

	if scrapeErr != nil && len(records) == 0 {
		log.Printf("❌ Run failed: %v", scrapeErr)
		summary.Err = scrapeErr
		sendSummary(notifier, summary)
		return scrapeErr
	}

	//partial results are still written
	path, err := sink.CSVFile(cfg.OutputDir, time.Now(), records)
	if err != nil {
		summary.Err = errors.Join(scrapeErr, err)
		sendSummary(notifier, summary)
		return summary.Err
	}
	summary.OutputPath = path

	if cfg.DatabaseURL != "" {
		if err := saveToPostgres(cfg.DatabaseURL, runID, creds.TargetURL, records); err != nil {
			log.Printf("⚠️ Postgres copy failed: %v", err)
		}
	}

	summary.Err = scrapeErr
	sendSummary(notifier, summary)
	log.Println("🏁 Execution finished.")
	return scrapeErr
}

// scrapeApplicants owns the browser for the run; it is closed on every path.
func scrapeApplicants(ctx context.Context, cfg *config.Config, creds config.Credentials) ([]scraper.ApplicantRecord, error) {
	pm, err := browser.NewPlaywright(ctx, browser.Options{
		Headless:       cfg.Headless,
		InstallDriver:  cfg.InstallDriver,
		UserAgent:      cfg.UserAgent,
		ScreenshotsDir: cfg.ScreenshotsDir,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init playwright: %w", err)
	}
	defer pm.Close()

	cookies := loadCookies(cfg.CookiesPath)
	browserCtx, err := pm.NewContext(cookies)
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	page, err := pm.NewPage(browserCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	log.Println("✅ Browser initialized successfully!")

	var s scraper.Scraper = linkedin.NewApplicantScraper(cfg, creds, nil)
	log.Printf("▶️ Starting scraper: %s", s.Name())
	return s.Scrape(ctx, page)
}

func applyScrapeFlags(cfg *config.Config) {
	if scrapeJobURL != "" {
		cfg.JobURL = scrapeJobURL
	}
	if scrapeOutputDir != "" {
		cfg.OutputDir = scrapeOutputDir
	}
	if scrapeInstall {
		cfg.InstallDriver = true
	}
	if scrapeHeadful {
		cfg.Headless = false
	}
}

func loadCookies(path string) []playwright.OptionalCookie {
	if path == "" {
		return nil
	}
	cookies, err := browser.LoadCookies(path)
	if err != nil {
		log.Printf("⚠️ Could not load cookies: %v. Continuing with a fresh login.", err)
		return nil
	}
	log.Printf("🍪 Loaded %d cookies", len(cookies))
	return cookies
}

// acquireLock stops two runs from writing into the same output directory.
func acquireLock(dir string) (func(), error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	fl := flock.New(filepath.Join(dir, lockFileName))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", fl.Path(), err)
	}
	if !locked {
		return nil, fmt.Errorf("another run is already writing to %s", dir)
	}
	return func() {
		if err := fl.Unlock(); err != nil {
			log.Printf("⚠️ Failed to release lock: %v", err)
		}
	}, nil
}

func newNotifier(cfg *config.Config) notify.Notifier {
	if cfg.TelegramToken == "" {
		return notify.Nop{}
	}
	tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		log.Printf("⚠️ Telegram disabled: %v", err)
		return notify.Nop{}
	}
	log.Println("🤖 Telegram Bot initialized.")
	return tg
}

// sendSummary uses its own context so an interrupted run still reports.
func sendSummary(n notify.Notifier, s notify.Summary) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := n.Notify(ctx, s); err != nil {
		log.Printf("⚠️ Failed to send summary: %v", err)
	}
}

func saveToPostgres(dbURL, runID, jobURL string, records []scraper.ApplicantRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := sink.ConnectPostgres(ctx, dbURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}
	_, err = db.SaveApplicants(ctx, runID, jobURL, records)
	return err
}
