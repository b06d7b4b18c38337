package retention

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuscheers/cheerd/internal/models"
	"github.com/campuscheers/cheerd/internal/testutil"
)

func TestPurgeOlderThan(t *testing.T) {
	s := testutil.NewStore(t)
	testutil.SeedSchool(t, s, "plano-senior-high", "Plano Senior High School")

	cutoff := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	oldPoll := testutil.SeedPoll(t, s, "plano-senior-high", "2023-12-01")
	keptPoll := testutil.SeedPoll(t, s, "plano-senior-high", "2024-01-15")

	oldResp := models.PollResponse{
		ResponseID:   "r-old",
		PollID:       oldPoll.PollID,
		ResponderID:  "u-1",
		ChosenOption: "A",
		SubmittedAt:  cutoff.Unix() - 3600,
	}
	keptResp := models.PollResponse{
		ResponseID:   "r-kept",
		PollID:       keptPoll.PollID,
		ResponderID:  "u-1",
		ChosenOption: "A",
		SubmittedAt:  cutoff.Unix() + 3600,
	}
	require.NoError(t, s.CreateResponse(&oldResp))
	require.NoError(t, s.CreateResponse(&keptResp))

	sweeper := NewSweeper(s, 30)

	responses, polls, err := sweeper.PurgeOlderThan(cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), responses)
	assert.Equal(t, int64(1), polls)

	gone, err := s.GetPoll(oldPoll.PollID)
	require.NoError(t, err)
	assert.Nil(t, gone, "old poll should be purged")

	kept, err := s.GetPoll(keptPoll.PollID)
	require.NoError(t, err)
	require.NotNil(t, kept)

	remaining, err := s.ListResponses(keptPoll.PollID)
	require.NoError(t, err)
	assert.Len(t, remaining, 1, "responses inside the retention window stay")
}

func TestPurgeIdempotent(t *testing.T) {
	s := testutil.NewStore(t)
	testutil.SeedSchool(t, s, "plano-senior-high", "Plano Senior High School")

	cutoff := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	testutil.SeedPoll(t, s, "plano-senior-high", "2023-12-01")

	sweeper := NewSweeper(s, 30)

	_, polls, err := sweeper.PurgeOlderThan(cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), polls)

	responses, polls, err := sweeper.PurgeOlderThan(cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(0), responses, "second purge with same cutoff is a no-op")
	assert.Equal(t, int64(0), polls)
}

func TestRunUsesRetentionWindow(t *testing.T) {
	s := testutil.NewStore(t)
	testutil.SeedSchool(t, s, "plano-senior-high", "Plano Senior High School")

	oldDate := time.Now().AddDate(0, 0, -45).Format(models.DateLayout)
	freshDate := time.Now().Format(models.DateLayout)
	oldPoll := testutil.SeedPoll(t, s, "plano-senior-high", oldDate)
	freshPoll := testutil.SeedPoll(t, s, "plano-senior-high", freshDate)

	NewSweeper(s, 30).Run()

	gone, err := s.GetPoll(oldPoll.PollID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	kept, err := s.GetPoll(freshPoll.PollID)
	require.NoError(t, err)
	assert.NotNil(t, kept)
}
