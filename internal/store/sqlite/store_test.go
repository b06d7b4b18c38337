package sqlite

import (
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuscheers/cheerd/internal/models"
)

// setupTestDB creates an in-memory SQLite database and initializes schema
func setupTestDB(t *testing.T) (*SQLiteStore, func()) {
	schema := `
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
		school_id TEXT NOT NULL,
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

	s, err := NewSQLiteStore(":memory:", "")
	require.NoError(t, err, "Failed to create store")

	_, err = s.DB.Exec(schema)
	require.NoError(t, err, "Failed to create schema")

	cleanup := func() {
		err := s.Close()
		require.NoError(t, err, "Failed to close database")
	}

	return s, cleanup
}

type testData struct {
	store *SQLiteStore
	now   time.Time
}

func setupTestData(t *testing.T) (*testData, func()) {
	s, cleanup := setupTestDB(t)
	now := time.Date(2024, 1, 15, 13, 0, 0, 0, time.UTC)

	_, err := s.DB.Exec(`
		INSERT INTO schools (school_id, name, district, state) VALUES
		('plano-senior-high', 'Plano Senior High School', 'Plano ISD', 'Texas'),
		('allen-high', 'Allen High School', 'Allen ISD', 'Texas')`)
	require.NoError(t, err, "Failed to insert test schools")

	return &testData{
		store: s,
		now:   now,
	}, cleanup
}

func TestMain(m *testing.M) {
	log.Println("Starting SQLite store tests...")
	code := m.Run()
	log.Println("Finished SQLite store tests")
	os.Exit(code)
}

func TestCreateAndGetUser(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	user := models.User{
		UserID:      "u-1",
		SchoolEmail: "student@plano.edu",
		CreatedAt:   td.now.Unix(),
	}
	require.NoError(t, td.store.CreateUser(&user))

	got, err := td.store.GetUserByEmail("student@plano.edu")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u-1", got.UserID)

	missing, err := td.store.GetUserByEmail("nobody@plano.edu")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCreateUserConflictKeepsFirst(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	first := models.User{UserID: "u-1", SchoolEmail: "student@plano.edu", CreatedAt: td.now.Unix()}
	second := models.User{UserID: "u-2", SchoolEmail: "student@plano.edu", CreatedAt: td.now.Unix()}

	require.NoError(t, td.store.CreateUser(&first))
	require.NoError(t, td.store.CreateUser(&second))

	got, err := td.store.GetUserByEmail("student@plano.edu")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u-1", got.UserID, "first writer should win")
}

func TestListSchools(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	schools, err := td.store.ListSchools()
	require.NoError(t, err)
	require.Len(t, schools, 2)
	assert.Equal(t, "Allen High School", schools[0].Name, "schools should be ordered by name")
}

func TestGetSchool(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	school, err := td.store.GetSchool("plano-senior-high")
	require.NoError(t, err)
	require.NotNil(t, school)
	assert.Equal(t, "Plano ISD", school.District)

	missing, err := td.store.GetSchool("nowhere-high")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCreatePollUniquePerSchoolDay(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	poll := models.DailyPoll{
		PollID:       "p-1",
		SchoolID:     "plano-senior-high",
		Question:     "Who has the most positive energy in the room?",
		Options:      models.OptionList{"A", "B"},
		ScheduledFor: "2024-01-15",
		CreatedAt:    td.now.Unix(),
	}
	require.NoError(t, td.store.CreatePoll(&poll))

	dup := poll
	dup.PollID = "p-2"
	err := td.store.CreatePoll(&dup)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrDuplicatePoll)

	otherDay := poll
	otherDay.PollID = "p-3"
	otherDay.ScheduledFor = "2024-01-16"
	require.NoError(t, td.store.CreatePoll(&otherDay))
}

func TestGetPollRoundTripsOptions(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	poll := models.DailyPoll{
		PollID:       "p-1",
		SchoolID:     "plano-senior-high",
		Question:     "Who brightens your day with their smile?",
		Options:      models.OptionList{"The morning person", "The lunch buddy", "The hallway greeter"},
		ScheduledFor: "2024-01-15",
		CreatedAt:    td.now.Unix(),
	}
	require.NoError(t, td.store.CreatePoll(&poll))

	got, err := td.store.GetPoll("p-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, poll.Options, got.Options, "options should preserve order")

	byDate, err := td.store.GetPollForDate("plano-senior-high", "2024-01-15")
	require.NoError(t, err)
	require.NotNil(t, byDate)
	assert.Equal(t, "p-1", byDate.PollID)

	none, err := td.store.GetPollForDate("plano-senior-high", "2024-01-14")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestCreateResponseUniquePerResponder(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	resp := models.PollResponse{
		ResponseID:   "r-1",
		PollID:       "p-1",
		ResponderID:  "u-1",
		ChosenOption: "A",
		SubmittedAt:  td.now.Unix(),
	}
	require.NoError(t, td.store.CreateResponse(&resp))

	dup := resp
	dup.ResponseID = "r-2"
	dup.ChosenOption = "B"
	err := td.store.CreateResponse(&dup)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrDuplicateVote)

	responses, err := td.store.ListResponses("p-1")
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, "A", responses[0].ChosenOption, "first vote should stand")

	voted, err := td.store.HasResponse("p-1", "u-1")
	require.NoError(t, err)
	assert.True(t, voted)

	notVoted, err := td.store.HasResponse("p-1", "u-2")
	require.NoError(t, err)
	assert.False(t, notVoted)
}

func TestDeleteBeforeBoundaries(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	cutoff := td.now.Unix()

	old := models.PollResponse{ResponseID: "r-old", PollID: "p-1", ResponderID: "u-1", ChosenOption: "A", SubmittedAt: cutoff - 1}
	atCutoff := models.PollResponse{ResponseID: "r-at", PollID: "p-1", ResponderID: "u-2", ChosenOption: "A", SubmittedAt: cutoff}
	require.NoError(t, td.store.CreateResponse(&old))
	require.NoError(t, td.store.CreateResponse(&atCutoff))

	deleted, err := td.store.DeleteResponsesBefore(cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted, "only responses strictly before cutoff go")

	deleted, err = td.store.DeleteResponsesBefore(cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted, "second purge with same cutoff is a no-op")

	oldPoll := models.DailyPoll{PollID: "p-old", SchoolID: "plano-senior-high", Question: "q", Options: models.OptionList{"A", "B"}, ScheduledFor: "2023-12-01", CreatedAt: cutoff}
	keptPoll := models.DailyPoll{PollID: "p-kept", SchoolID: "allen-high", Question: "q", Options: models.OptionList{"A", "B"}, ScheduledFor: "2024-01-15", CreatedAt: cutoff}
	require.NoError(t, td.store.CreatePoll(&oldPoll))
	require.NoError(t, td.store.CreatePoll(&keptPoll))

	deletedPolls, err := td.store.DeletePollsBefore("2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, int64(1), deletedPolls)

	kept, err := td.store.GetPoll("p-kept")
	require.NoError(t, err)
	assert.NotNil(t, kept)
}

func TestFetchEngagementStats(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	planoPoll := models.DailyPoll{PollID: "p-plano", SchoolID: "plano-senior-high", Question: "q", Options: models.OptionList{"A", "B"}, ScheduledFor: "2024-01-15", CreatedAt: td.now.Unix()}
	allenPoll := models.DailyPoll{PollID: "p-allen", SchoolID: "allen-high", Question: "q", Options: models.OptionList{"A", "B"}, ScheduledFor: "2024-01-15", CreatedAt: td.now.Unix()}
	require.NoError(t, td.store.CreatePoll(&planoPoll))
	require.NoError(t, td.store.CreatePoll(&allenPoll))

	for i, responder := range []string{"u-1", "u-2", "u-3"} {
		resp := models.PollResponse{
			ResponseID:   planoPoll.PollID + responder,
			PollID:       planoPoll.PollID,
			ResponderID:  responder,
			ChosenOption: "A",
			SubmittedAt:  td.now.Unix() + int64(i),
		}
		require.NoError(t, td.store.CreateResponse(&resp))
	}

	stats, err := td.store.FetchEngagementStats("2024-01-01", "DD Mon YYYY", true)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, "plano-senior-high", stats[0].SchoolID, "most votes first")
	assert.Equal(t, int64(3), stats[0].Votes)
	assert.Equal(t, int64(3), stats[0].Voters)
	require.NotNil(t, stats[0].HumanLastVote)
	lastVote := time.Unix(td.now.Unix()+2, 0).UTC().Format("2006-01-02 15:04")
	assert.Equal(t, lastVote, *stats[0].HumanLastVote,
		"sqlite renders a fixed layout regardless of the configured format")

	assert.Equal(t, int64(0), stats[1].Votes)
	assert.Nil(t, stats[1].LastVote)
}
