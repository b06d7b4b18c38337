package store

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/campuscheers/cheerd/internal/models"
)

type PollStore interface {
	Close() error
	ApplyMigrations(dir string) error

	CreateUser(user *models.User) error
	GetUserByEmail(email string) (*models.User, error)

	ListSchools() ([]models.School, error)
	GetSchool(schoolID string) (*models.School, error)

	CreatePoll(poll *models.DailyPoll) error
	GetPoll(pollID string) (*models.DailyPoll, error)
	GetPollForDate(schoolID, date string) (*models.DailyPoll, error)
	ListPollsForDate(date string) ([]models.DailyPoll, error)

	CreateResponse(resp *models.PollResponse) error
	HasResponse(pollID, responderID string) (bool, error)
	ListResponses(pollID string) ([]models.PollResponse, error)

	DeleteResponsesBefore(cutoff int64) (int64, error)
	DeletePollsBefore(date string) (int64, error)

	FetchEngagementStats(sinceDate string, timestampFormat string, includeHumanDttm bool) ([]EngagementStat, error)
}

// BaseStore provides common functionality for different DB implementations
type BaseStore struct {
	DB        *sqlx.DB
	Converter func(string) string
}

func (s *BaseStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// ApplyMigrations applies SQL migrations from a directory, translating dialect if needed
func (s *BaseStore) ApplyMigrations(dir string, translateSQL func(string) string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		content, err := os.ReadFile(fmt.Sprintf("%s/%s", dir, file.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file.Name(), err)
		}

		sql := string(content)
		if translateSQL != nil {
			sql = translateSQL(sql)
		}

		if _, err := s.DB.Exec(sql); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file.Name(), err)
		}
	}

	return nil
}

// CreateUser inserts a user record. The school_email uniqueness constraint
// makes concurrent first logins safe: the losing writer inserts nothing and
// the caller re-reads the surviving record.
func (s *BaseStore) CreateUser(user *models.User) error {
	_, err := s.DB.NamedExec(`
		INSERT INTO users (user_id, school_email, created_at)
		VALUES (:user_id, :school_email, :created_at)
		ON CONFLICT (school_email) DO NOTHING
	`, user)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *BaseStore) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	query := s.Converter(`
		SELECT user_id, school_email, created_at
		FROM users
		WHERE school_email = ?
	`)

	err := s.DB.Get(&user, query, email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (s *BaseStore) ListSchools() ([]models.School, error) {
	var schools []models.School
	err := s.DB.Select(&schools, `
		SELECT school_id, name, district, state
		FROM schools
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list schools: %w", err)
	}
	return schools, nil
}

func (s *BaseStore) GetSchool(schoolID string) (*models.School, error) {
	var school models.School
	query := s.Converter(`
		SELECT school_id, name, district, state
		FROM schools
		WHERE school_id = ?
	`)

	err := s.DB.Get(&school, query, schoolID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get school: %w", err)
	}
	return &school, nil
}

// CreatePoll inserts a poll. At most one poll per (school_id, scheduled_for)
// is enforced by the unique constraint; a conflicting insert affects zero
// rows and surfaces as models.ErrDuplicatePoll.
func (s *BaseStore) CreatePoll(poll *models.DailyPoll) error {
	res, err := s.DB.NamedExec(`
		INSERT INTO daily_polls (poll_id, school_id, question, options, scheduled_for, created_at)
		VALUES (:poll_id, :school_id, :question, :options, :scheduled_for, :created_at)
		ON CONFLICT (school_id, scheduled_for) DO NOTHING
	`, poll)
	if err != nil {
		return fmt.Errorf("failed to create poll: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check poll insert: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("poll for school %s on %s: %w", poll.SchoolID, poll.ScheduledFor, models.ErrDuplicatePoll)
	}
	return nil
}

func (s *BaseStore) GetPoll(pollID string) (*models.DailyPoll, error) {
	var poll models.DailyPoll
	query := s.Converter(`
		SELECT poll_id, school_id, question, options, scheduled_for, created_at
		FROM daily_polls
		WHERE poll_id = ?
	`)

	err := s.DB.Get(&poll, query, pollID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}
	return &poll, nil
}

func (s *BaseStore) GetPollForDate(schoolID, date string) (*models.DailyPoll, error) {
	var poll models.DailyPoll
	query := s.Converter(`
		SELECT poll_id, school_id, question, options, scheduled_for, created_at
		FROM daily_polls
		WHERE school_id = ?
		AND scheduled_for = ?
	`)

	err := s.DB.Get(&poll, query, schoolID, date)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get poll for date: %w", err)
	}
	return &poll, nil
}

func (s *BaseStore) ListPollsForDate(date string) ([]models.DailyPoll, error) {
	var polls []models.DailyPoll
	query := s.Converter(`
		SELECT poll_id, school_id, question, options, scheduled_for, created_at
		FROM daily_polls
		WHERE scheduled_for = ?
		ORDER BY school_id ASC
	`)

	err := s.DB.Select(&polls, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls for date: %w", err)
	}
	return polls, nil
}

// CreateResponse appends a ledger record. The (poll_id, responder_id) unique
// constraint is the at-most-once voting guarantee: when two writers race, the
// second insert affects zero rows and surfaces as models.ErrDuplicateVote.
func (s *BaseStore) CreateResponse(resp *models.PollResponse) error {
	res, err := s.DB.NamedExec(`
		INSERT INTO poll_responses (response_id, poll_id, responder_id, chosen_option, selfie_media_ref, submitted_at)
		VALUES (:response_id, :poll_id, :responder_id, :chosen_option, :selfie_media_ref, :submitted_at)
		ON CONFLICT (poll_id, responder_id) DO NOTHING
	`, resp)
	if err != nil {
		return fmt.Errorf("failed to create response: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check response insert: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("poll %s responder %s: %w", resp.PollID, resp.ResponderID, models.ErrDuplicateVote)
	}
	return nil
}

func (s *BaseStore) HasResponse(pollID, responderID string) (bool, error) {
	var count int
	query := s.Converter(`
		SELECT COUNT(*)
		FROM poll_responses
		WHERE poll_id = ?
		AND responder_id = ?
	`)

	if err := s.DB.Get(&count, query, pollID, responderID); err != nil {
		return false, fmt.Errorf("failed to check response: %w", err)
	}
	return count > 0, nil
}

func (s *BaseStore) ListResponses(pollID string) ([]models.PollResponse, error) {
	var responses []models.PollResponse
	query := s.Converter(`
		SELECT response_id, poll_id, responder_id, chosen_option, selfie_media_ref, submitted_at
		FROM poll_responses
		WHERE poll_id = ?
		ORDER BY submitted_at ASC
	`)

	err := s.DB.Select(&responses, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}
	return responses, nil
}

func (s *BaseStore) DeleteResponsesBefore(cutoff int64) (int64, error) {
	query := s.Converter(`
		DELETE FROM poll_responses
		WHERE submitted_at < ?
	`)

	res, err := s.DB.Exec(query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old responses: %w", err)
	}
	return res.RowsAffected()
}

func (s *BaseStore) DeletePollsBefore(date string) (int64, error) {
	query := s.Converter(`
		DELETE FROM daily_polls
		WHERE scheduled_for < ?
	`)

	res, err := s.DB.Exec(query, date)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old polls: %w", err)
	}
	return res.RowsAffected()
}
