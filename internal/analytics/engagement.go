// Package analytics aggregates weekly participation per school.
package analytics

import (
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/campuscheers/cheerd/internal/models"
	"github.com/campuscheers/cheerd/internal/store"
)

type Reporter struct {
	store           store.PollStore
	windowDays      int
	timestampFormat string
}

func NewReporter(s store.PollStore, windowDays int, timestampFormat string) *Reporter {
	return &Reporter{
		store:           s,
		windowDays:      windowDays,
		timestampFormat: timestampFormat,
	}
}

// Leaderboard returns per-school engagement over the reporting window,
// ordered by vote count.
func (r *Reporter) Leaderboard(includeHumanDttm bool) ([]store.EngagementStat, error) {
	since := time.Now().AddDate(0, 0, -r.windowDays).Format(models.DateLayout)
	return r.store.FetchEngagementStats(since, r.timestampFormat, includeHumanDttm)
}

// LogLeaderboard dumps the current leaderboard to the log. Used by the
// scheduler's weekly analytics task.
func (r *Reporter) LogLeaderboard() error {
	stats, err := r.Leaderboard(true)
	if err != nil {
		return err
	}

	logger.Info.Printf("Weekly engagement, last %d days:", r.windowDays)
	for i, stat := range stats {
		lastVote := "never"
		if stat.HumanLastVote != nil {
			lastVote = *stat.HumanLastVote
		}
		logger.Info.Printf("  #%d %s: %d votes from %d voters across %d polls, last vote %s",
			i+1, stat.SchoolName, stat.Votes, stat.Voters, stat.Polls, lastVote)
	}
	return nil
}
