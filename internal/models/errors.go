package models

import "errors"

var (
	ErrValidation    = errors.New("validation failed")
	ErrDuplicateVote = errors.New("responder already voted in this poll")
	ErrDuplicatePoll = errors.New("school already has a poll for this date")
	ErrPollNotFound  = errors.New("poll not found")
	ErrInvalidOption = errors.New("chosen option is not one of the poll's options")
)
