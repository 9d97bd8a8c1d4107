package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"go-linkedin-applicants/internal/browser"
	"go-linkedin-applicants/internal/config"
	"go-linkedin-applicants/internal/scraper/linkedin"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check config, credentials and cookies before a run",
	Long:  "Loads the config, credentials file and cookie file and prints what was found. With --browser it also opens the LinkedIn login page to see whether the cookies still hold a session.",
	RunE:  runCheck,
}

var (
	checkConfigPath string
	checkBrowser    bool
)

func init() {
	checkCmd.Flags().StringVarP(&checkConfigPath, "config", "c", config.DefaultPath, "Path to config YAML")
	checkCmd.Flags().BoolVar(&checkBrowser, "browser", false, "Also launch the browser and open the login page")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "🔧 Checking configuration...")

	cfg, err := config.Load(checkConfigPath)
	if err != nil {
		return err
	}
	printConfig(out, cfg)

	creds, err := config.LoadCredentials(cfg.CredentialsPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "✅ Credentials: %s / %s\n", mask(creds.Identity), mask(creds.Secret))
	fmt.Fprintf(out, "   Job URL: %s\n", creds.WithTargetURL(cfg.JobURL).TargetURL)

	cookies, err := browser.LoadCookies(cfg.CookiesPath)
	if err != nil {
		fmt.Fprintf(out, "⚠️ Cookies: %v\n", err)
	} else {
		fmt.Fprintf(out, "✅ Cookies: %d loaded from %s\n", len(cookies), cfg.CookiesPath)
	}

	if !checkBrowser {
		return nil
	}

	fmt.Fprintln(out, "🌐 Launching browser...")
	pm, err := browser.NewPlaywright(cmd.Context(), browser.Options{
		Headless:       cfg.Headless,
		InstallDriver:  cfg.InstallDriver,
		UserAgent:      cfg.UserAgent,
		ScreenshotsDir: cfg.ScreenshotsDir,
	})
	if err != nil {
		return err
	}
	defer pm.Close()

	browserCtx, err := pm.NewContext(cookies)
	if err != nil {
		return err
	}
	page, err := pm.NewPage(browserCtx)
	if err != nil {
		return err
	}
	if err := page.Goto(linkedin.LoginURL); err != nil {
		return fmt.Errorf("failed to open login page: %w", err)
	}
	if err := page.Screenshot("linkedin-check"); err != nil {
		fmt.Fprintf(out, "⚠️ Screenshot failed: %v\n", err)
	}

	if strings.Contains(page.URL(), "feed") {
		fmt.Fprintln(out, "✅ Cookies hold a valid session")
	} else {
		fmt.Fprintf(out, "ℹ️ Not logged in (landed on %s); the run will use the login form\n", page.URL())
	}
	return nil
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "✅ Config loaded")
	fmt.Fprintf(out, "   Credentials: %s\n", cfg.CredentialsPath)
	fmt.Fprintf(out, "   Output dir: %s\n", cfg.OutputDir)
	fmt.Fprintf(out, "   Headless: %v\n", cfg.Headless)
	fmt.Fprintf(out, "   Wait timeout: %s, settle %s-%s\n", cfg.Timeouts.Wait, cfg.Timeouts.SettleMin, cfg.Timeouts.SettleMax)
	if cfg.RowsPerMinute > 0 {
		fmt.Fprintf(out, "   Pace: %.1f applicants/min\n", cfg.RowsPerMinute)
	}
	fmt.Fprintf(out, "   Telegram: %v, Postgres: %v\n", cfg.TelegramToken != "", cfg.DatabaseURL != "")
}

// mask keeps the first two characters of a secret.
func mask(s string) string {
	r := []rune(s)
	if len(r) <= 2 {
		return strings.Repeat("*", len(r))
	}
	return string(r[:2]) + strings.Repeat("*", len(r)-2)
}
