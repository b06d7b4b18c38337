package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// DateLayout is how scheduled_for calendar dates are stored. Comparing
// dates as strings in this layout ignores time-of-day by construction.
const DateLayout = "2006-01-02"

// Poll lifecycle status, derived from the daily voting window. Never stored.
const (
	StatusScheduled = "scheduled"
	StatusLive      = "live"
	StatusClosed    = "closed"
)

// OptionList keeps a poll's options ordered and round-trips them through a
// single TEXT column as JSON.
type OptionList []string

func (o OptionList) Value() (driver.Value, error) {
	data, err := json.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("failed to encode options: %w", err)
	}
	return string(data), nil
}

func (o *OptionList) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, o)
	case string:
		return json.Unmarshal([]byte(v), o)
	default:
		return fmt.Errorf("unsupported options column type %T", src)
	}
}

func (o OptionList) Contains(option string) bool {
	for _, opt := range o {
		if opt == option {
			return true
		}
	}
	return false
}

type DailyPoll struct {
	PollID       string     `db:"poll_id" json:"poll_id"`
	SchoolID     string     `db:"school_id" json:"school_id" validate:"required"`
	Question     string     `db:"question" json:"question" validate:"required"`
	Options      OptionList `db:"options" json:"options" validate:"required,min=2,unique"`
	ScheduledFor string     `db:"scheduled_for" json:"scheduled_for" validate:"required,datetime=2006-01-02"`
	CreatedAt    int64      `db:"created_at" json:"created_at"`
}

func (p *DailyPoll) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}
