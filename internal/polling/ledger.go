package polling

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/campuscheers/cheerd/internal/models"
	"github.com/campuscheers/cheerd/internal/store"
)

// Ledger is the append-only record of votes. Nothing here updates or deletes;
// only the retention sweeper removes records.
type Ledger struct {
	store store.PollStore
}

func NewLedger(s store.PollStore) *Ledger {
	return &Ledger{store: s}
}

// Submit validates and appends one vote. The chosen option must be declared
// by the poll, and the (poll, responder) pair must not have voted before.
// mediaRef is an opaque reference from the capture subsystem; it is stored
// untouched and may be empty.
func (l *Ledger) Submit(pollID, responderID, chosenOption, mediaRef string) (*models.PollResponse, error) {
	poll, err := l.store.GetPoll(pollID)
	if err != nil {
		return nil, err
	}
	if poll == nil {
		return nil, fmt.Errorf("poll %s: %w", pollID, models.ErrPollNotFound)
	}

	if !poll.Options.Contains(chosenOption) {
		return nil, fmt.Errorf("option %q in poll %s: %w", chosenOption, pollID, models.ErrInvalidOption)
	}

	resp := &models.PollResponse{
		ResponseID:     uuid.NewString(),
		PollID:         pollID,
		ResponderID:    responderID,
		ChosenOption:   chosenOption,
		SelfieMediaRef: mediaRef,
		SubmittedAt:    time.Now().UTC().Unix(),
	}
	if err := resp.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	if err := l.store.CreateResponse(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (l *Ledger) HasVoted(pollID, responderID string) (bool, error) {
	return l.store.HasResponse(pollID, responderID)
}
