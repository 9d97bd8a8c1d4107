package sink

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-linkedin-applicants/internal/scraper"
)

const applicantsTable = "applicants"

var applicantColumns = []string{"run_id", "job_url", "name", "location", "email", "phone", "profile_link", "scraped_at"}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS applicants (
	id           BIGSERIAL PRIMARY KEY,
	run_id       UUID        NOT NULL,
	job_url      TEXT        NOT NULL,
	name         TEXT        NOT NULL,
	location     TEXT        NOT NULL,
	email        TEXT        NOT NULL,
	phone        TEXT        NOT NULL,
	profile_link TEXT,
	scraped_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS applicants_run_id_idx ON applicants (run_id);`

// dbtx is the part of *pgxpool.Pool the sink needs.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// Postgres stores each run's applicants alongside the CSV export.
type Postgres struct {
	db   dbtx
	pool *pgxpool.Pool
	now  func() time.Time
}

func ConnectPostgres(ctx context.Context, connString string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 4
	config.MaxConnLifetime = time.Hour

	//poolers in transaction mode do not keep prepared statements
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Postgres{db: pool, pool: pool, now: time.Now}, nil
}

func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create applicants table: %w", err)
	}
	return nil
}

// SaveApplicants bulk-copies records tagged with runID and jobURL.
func (p *Postgres) SaveApplicants(ctx context.Context, runID, jobURL string, records []scraper.ApplicantRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}
	rows := copyRows(runID, jobURL, p.now().UTC(), records)
	n, err := p.db.CopyFrom(ctx, pgx.Identifier{applicantsTable}, applicantColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return n, fmt.Errorf("failed to save applicants: %w", err)
	}
	log.Printf("🗄️ Saved %d applicant(s) to postgres (run %s)", n, runID)
	return n, nil
}

// copyRows lays records out in applicantColumns order. An absent profile
// link is stored as NULL.
func copyRows(runID, jobURL string, at time.Time, records []scraper.ApplicantRecord) [][]any {
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		var profile any
		if r.ProfileLink != "" {
			profile = r.ProfileLink
		}
		rows = append(rows, []any{runID, jobURL, r.Name, r.Location, r.Email, r.Phone, profile, at})
	}
	return rows
}
