// Package polling owns the daily poll catalog, the response ledger, and the
// results tally.
package polling

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/campuscheers/cheerd/internal/models"
	"github.com/campuscheers/cheerd/internal/store"
)

type Catalog struct {
	store     store.PollStore
	templates []Template

	windowOffset time.Duration
	windowLength time.Duration
}

func NewCatalog(s store.PollStore, templates []Template, windowStart string, windowMinutes int) (*Catalog, error) {
	start, err := time.Parse("15:04", windowStart)
	if err != nil {
		return nil, fmt.Errorf("invalid window start %q: %w", windowStart, err)
	}
	if len(templates) == 0 {
		templates = DefaultTemplates
	}

	return &Catalog{
		store:        s,
		templates:    templates,
		windowOffset: time.Duration(start.Hour())*time.Hour + time.Duration(start.Minute())*time.Minute,
		windowLength: time.Duration(windowMinutes) * time.Minute,
	}, nil
}

// TodaysPoll returns the poll scheduled for the caller's current date, or nil
// if the school has none.
func (c *Catalog) TodaysPoll(schoolID string) (*models.DailyPoll, error) {
	today := time.Now().Format(models.DateLayout)
	return c.store.GetPollForDate(schoolID, today)
}

// GenerateDailyPolls creates one poll per school for the given date, picking
// templates round-robin by school index. Schools that already have a poll for
// the date are skipped, so invoking generation twice is a no-op the second
// time. Returns only the polls actually created.
func (c *Catalog) GenerateDailyPolls(forDate time.Time) ([]models.DailyPoll, error) {
	schools, err := c.store.ListSchools()
	if err != nil {
		return nil, err
	}

	date := forDate.Format(models.DateLayout)
	now := time.Now().UTC().Unix()

	var created []models.DailyPoll
	for i, school := range schools {
		tpl := c.templates[i%len(c.templates)]

		poll := models.DailyPoll{
			PollID:       uuid.NewString(),
			SchoolID:     school.SchoolID,
			Question:     tpl.Question,
			Options:      append(models.OptionList{}, tpl.Options...),
			ScheduledFor: date,
			CreatedAt:    now,
		}
		if err := poll.Validate(); err != nil {
			return created, fmt.Errorf("%w: template %d: %v", models.ErrValidation, i%len(c.templates), err)
		}

		if err := c.store.CreatePoll(&poll); err != nil {
			if errors.Is(err, models.ErrDuplicatePoll) {
				logger.Debug.Printf("Poll for %s on %s already exists, skipping", school.SchoolID, date)
				continue
			}
			return created, err
		}
		created = append(created, poll)
	}

	return created, nil
}

// Window returns the open and close instants of a poll's voting window in
// local time.
func (c *Catalog) Window(poll *models.DailyPoll) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(models.DateLayout, poll.ScheduledFor, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("bad scheduled_for on poll %s: %w", poll.PollID, err)
	}

	opens := day.Add(c.windowOffset)
	return opens, opens.Add(c.windowLength), nil
}

// Status derives a poll's lifecycle state at the given instant.
func (c *Catalog) Status(poll *models.DailyPoll, at time.Time) (string, error) {
	opens, closes, err := c.Window(poll)
	if err != nil {
		return "", err
	}

	switch {
	case at.Before(opens):
		return models.StatusScheduled, nil
	case at.Before(closes):
		return models.StatusLive, nil
	default:
		return models.StatusClosed, nil
	}
}
