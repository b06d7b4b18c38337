// Package retention purges poll and response records past the retention
// window.
package retention

import (
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/campuscheers/cheerd/internal/metrics"
	"github.com/campuscheers/cheerd/internal/models"
	"github.com/campuscheers/cheerd/internal/store"
)

type Sweeper struct {
	store store.PollStore
	days  int
}

func NewSweeper(s store.PollStore, retentionDays int) *Sweeper {
	return &Sweeper{store: s, days: retentionDays}
}

// PurgeOlderThan removes every response submitted before the cutoff and every
// poll scheduled before the cutoff date. Responses go first so a poll is
// never left with records pointing at it. Repeated calls with the same cutoff
// are no-ops after the first.
func (s *Sweeper) PurgeOlderThan(cutoff time.Time) (int64, int64, error) {
	responses, err := s.store.DeleteResponsesBefore(cutoff.Unix())
	if err != nil {
		return 0, 0, err
	}

	polls, err := s.store.DeletePollsBefore(cutoff.Format(models.DateLayout))
	if err != nil {
		return responses, 0, err
	}

	metrics.PurgedRecordsTotal.WithLabelValues("responses").Add(float64(responses))
	metrics.PurgedRecordsTotal.WithLabelValues("polls").Add(float64(polls))

	return responses, polls, nil
}

// Run purges everything older than the retention window. Failures are logged
// and left for the next scheduled sweep; they never block vote traffic.
func (s *Sweeper) Run() {
	cutoff := time.Now().AddDate(0, 0, -s.days)

	responses, polls, err := s.PurgeOlderThan(cutoff)
	if err != nil {
		logger.Error.Printf("Retention sweep failed, will retry next cadence: %v", err)
		return
	}

	logger.Info.Printf("Retention sweep removed %d responses and %d polls older than %s",
		responses, polls, cutoff.Format(models.DateLayout))
}
