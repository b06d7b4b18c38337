package sqlite

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/campuscheers/cheerd/internal/store"
)

type SQLiteStore struct {
	store.BaseStore
}

func NewSQLiteStore(dsn, migrationsDir string) (*SQLiteStore, error) {
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	s := &SQLiteStore{BaseStore: store.BaseStore{
		DB: db,
		Converter: func(query string) string {
			return query
		},
	}}

	if migrationsDir != "" {
		if err := s.ApplyMigrations(migrationsDir); err != nil {
			db.Close()
			return nil, err
		}
	}

	return s, nil
}

func (s *SQLiteStore) ApplyMigrations(dir string) error {
	return s.BaseStore.ApplyMigrations(dir, translateToSQLite)
}

// translateToSQLite converts Postgres SQL to SQLite dialect
func translateToSQLite(sql string) string {
	replacements := map[string]string{
		"BIGSERIAL":   "INTEGER PRIMARY KEY AUTOINCREMENT",
		"BIGINT":      "INTEGER",
		"VARCHAR(10)": "TEXT",
		"TRUE":        "1",
		"FALSE":       "0",
		"now()":       "CURRENT_TIMESTAMP",
	}
	result := sql
	for from, to := range replacements {
		result = strings.ReplaceAll(result, from, to)
	}
	return result
}

func (s *SQLiteStore) FetchEngagementStats(sinceDate string, timestampFormat string, includeHumanDttm bool) ([]store.EngagementStat, error) {
	// timestampFormat is a Postgres to_char pattern and has no strftime
	// equivalent, so this variant ignores it and always renders last votes
	// as "YYYY-MM-DD HH:MM". The Postgres store honors the configured
	// format via to_char.
	query := `
		WITH school_votes AS (
			SELECT
				p.school_id,
				COUNT(DISTINCT p.poll_id) AS polls,
				COUNT(r.response_id) AS votes,
				COUNT(DISTINCT r.responder_id) AS voters,
				MAX(r.submitted_at) AS last_vote
			FROM daily_polls p
			LEFT JOIN poll_responses r ON r.poll_id = p.poll_id
			WHERE p.scheduled_for >= ?
			GROUP BY p.school_id
		)
		SELECT
			sv.school_id,
			s.name AS school_name,
			sv.polls,
			sv.votes,
			sv.voters,
			sv.last_vote,
			CASE WHEN ? AND sv.last_vote IS NOT NULL THEN
				strftime('%Y-%m-%d %H:%M', sv.last_vote, 'unixepoch')
			ELSE NULL
			END AS human_last_vote
		FROM school_votes sv
		JOIN schools s ON s.school_id = sv.school_id
		ORDER BY sv.votes DESC, s.name ASC
	`

	var results []store.EngagementStat
	err := s.DB.Select(&results, query, sinceDate, includeHumanDttm)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch engagement stats: %w", err)
	}

	return results, nil
}
