// Command scraper collects the applicants of a LinkedIn job posting into CSV
// files and loads those files for analysis.
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "scraper",
	Short:         "LinkedIn job applicant scraper",
	Long:          "Logs in to LinkedIn, walks every page of a job posting's applicants and saves their contact details to CSV.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	//load .env if present
	_ = godotenv.Load()
	log.SetOutput(os.Stdout)

	os.Exit(run())
}

// run executes the root command and maps its error to an exit status.
// Failures go through the same log stream as progress.
func run() int {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("❌ %v", err)
		return 1
	}
	return 0
}
