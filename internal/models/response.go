package models

import (
	"github.com/go-playground/validator/v10"
)

type PollResponse struct {
	ResponseID     string `db:"response_id" json:"response_id"`
	PollID         string `db:"poll_id" json:"poll_id" validate:"required"`
	ResponderID    string `db:"responder_id" json:"-" validate:"required"`
	ChosenOption   string `db:"chosen_option" json:"chosen_option" validate:"required"`
	SelfieMediaRef string `db:"selfie_media_ref" json:"selfie_media_ref,omitempty"`
	SubmittedAt    int64  `db:"submitted_at" json:"submitted_at"`
}

// PollResults is derived from the ledger on every read, never persisted.
type PollResults struct {
	PollID            string             `json:"poll_id"`
	TotalResponses    int                `json:"total_responses"`
	OptionCounts      map[string]int     `json:"option_counts"`
	OptionPercentages map[string]float64 `json:"option_percentages"`
}

func (r *PollResponse) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
