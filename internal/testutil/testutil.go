// Package testutil provides shared fixtures for store-backed tests.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/campuscheers/cheerd/internal/models"
	"github.com/campuscheers/cheerd/internal/store/sqlite"
)

// Schema mirrors migrations/001_init.sql in SQLite dialect so tests don't
// depend on the migrations directory location.
const Schema = `
	CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY,
		school_email TEXT NOT NULL UNIQUE,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS schools (
		school_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		district TEXT NOT NULL,
		state TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS daily_polls (
		poll_id TEXT PRIMARY KEY,
		school_id TEXT NOT NULL REFERENCES schools(school_id),
		question TEXT NOT NULL,
		options TEXT NOT NULL,
		scheduled_for TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		UNIQUE (school_id, scheduled_for)
	);

	CREATE TABLE IF NOT EXISTS poll_responses (
		response_id TEXT PRIMARY KEY,
		poll_id TEXT NOT NULL,
		responder_id TEXT NOT NULL,
		chosen_option TEXT NOT NULL,
		selfie_media_ref TEXT NOT NULL DEFAULT '',
		submitted_at INTEGER NOT NULL,
		UNIQUE (poll_id, responder_id)
	);`

// NewStore creates a file-backed SQLite store in a temp dir. A file rather
// than :memory: so concurrent submissions in tests share one database.
func NewStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "cheers_test.db")
	s, err := sqlite.NewSQLiteStore(dsn, "")
	require.NoError(t, err, "Failed to create store")

	_, err = s.DB.Exec(Schema)
	require.NoError(t, err, "Failed to create schema")

	t.Cleanup(func() {
		require.NoError(t, s.Close(), "Failed to close database")
	})

	return s
}

// SeedSchool inserts a school and returns its id.
func SeedSchool(t *testing.T, s *sqlite.SQLiteStore, schoolID, name string) string {
	t.Helper()

	_, err := s.DB.Exec(`
		INSERT INTO schools (school_id, name, district, state)
		VALUES (?, ?, 'Test ISD', 'Texas')
	`, schoolID, name)
	require.NoError(t, err, "Failed to seed school")

	return schoolID
}

// SeedPoll inserts a poll for a school on the given date and returns it.
func SeedPoll(t *testing.T, s *sqlite.SQLiteStore, schoolID, date string, options ...string) *models.DailyPoll {
	t.Helper()

	if len(options) == 0 {
		options = []string{"A", "B"}
	}
	poll := &models.DailyPoll{
		PollID:       uuid.NewString(),
		SchoolID:     schoolID,
		Question:     "Who made you smile today?",
		Options:      options,
		ScheduledFor: date,
		CreatedAt:    time.Now().UTC().Unix(),
	}
	require.NoError(t, s.CreatePoll(poll), "Failed to seed poll")

	return poll
}
