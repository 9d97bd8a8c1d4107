package sink

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"go-linkedin-applicants/internal/scraper"
)

const filePrefix = "linkedin_applicants_"

// FileName is the output name for a run finishing at now.
func FileName(now time.Time) string {
	return filePrefix + now.Format("20060102_150405") + ".csv"
}

// WriteCSV writes the fixed header followed by one row per record.
func WriteCSV(w io.Writer, records []scraper.ApplicantRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(scraper.Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, r := range records {
		if err := cw.Write(r.Fields()); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVFile writes records to a timestamped file in dir and returns its path.
// An empty result still produces a file with just the header.
func CSVFile(dir string, now time.Time, records []scraper.ApplicantRecord) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	path := filepath.Join(dir, FileName(now))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WriteCSV(f, records); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}

	log.Printf("💾 Saved %d applicant(s) to %s", len(records), path)
	return path, nil
}
