package postgres

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/campuscheers/cheerd/internal/store"
)

type PostgresStore struct {
	store.BaseStore
}

func NewPostgresStore(dsn, migrationsDir string) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &PostgresStore{BaseStore: store.BaseStore{
		DB: db,
		Converter: func(query string) string {
			out := query
			for i := 1; strings.Contains(out, "?"); i++ {
				out = strings.Replace(out, "?", fmt.Sprintf("$%d", i), 1)
			}
			return out
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

func (s *PostgresStore) ApplyMigrations(dir string) error {
	return s.BaseStore.ApplyMigrations(dir, nil)
}

func (s *PostgresStore) FetchEngagementStats(sinceDate string, timestampFormat string, includeHumanDttm bool) ([]store.EngagementStat, error) {
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
			WHERE p.scheduled_for >= $1
			GROUP BY p.school_id
		)
		SELECT
			sv.school_id,
			s.name AS school_name,
			sv.polls,
			sv.votes,
			sv.voters,
			sv.last_vote,
			CASE WHEN $2 AND sv.last_vote IS NOT NULL THEN
				to_char(to_timestamp(sv.last_vote), $3)
			ELSE NULL
			END AS human_last_vote
		FROM school_votes sv
		JOIN schools s ON s.school_id = sv.school_id
		ORDER BY sv.votes DESC, s.name ASC
	`

	var results []store.EngagementStat
	err := s.DB.Select(&results, query, sinceDate, includeHumanDttm, timestampFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch engagement stats: %w", err)
	}

	return results, nil
}
