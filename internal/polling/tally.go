package polling

import (
	"fmt"
	"math"

	"github.com/campuscheers/cheerd/internal/models"
	"github.com/campuscheers/cheerd/internal/store"
)

// Tally computes poll results from the ledger. Results are recomputed on
// every call so they always reflect the latest votes; per-school daily vote
// counts are small enough that the linear scan does not matter.
type Tally struct {
	store store.PollStore
}

func NewTally(s store.PollStore) *Tally {
	return &Tally{store: s}
}

func (t *Tally) Results(pollID string) (*models.PollResults, error) {
	poll, err := t.store.GetPoll(pollID)
	if err != nil {
		return nil, err
	}
	if poll == nil {
		return nil, fmt.Errorf("poll %s: %w", pollID, models.ErrPollNotFound)
	}

	responses, err := t.store.ListResponses(pollID)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(poll.Options))
	for _, option := range poll.Options {
		counts[option] = 0
	}
	for _, resp := range responses {
		counts[resp.ChosenOption]++
	}

	total := len(responses)
	percentages := make(map[string]float64, len(poll.Options))
	for _, option := range poll.Options {
		if total > 0 {
			percentages[option] = round1(100 * float64(counts[option]) / float64(total))
		} else {
			percentages[option] = 0
		}
	}

	return &models.PollResults{
		PollID:            pollID,
		TotalResponses:    total,
		OptionCounts:      counts,
		OptionPercentages: percentages,
	}, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
