package models

import (
	"github.com/go-playground/validator/v10"
)

type User struct {
	UserID      string `db:"user_id" json:"user_id"`
	SchoolEmail string `db:"school_email" json:"school_email" validate:"required,contains=@"`
	CreatedAt   int64  `db:"created_at" json:"created_at"`
}

type School struct {
	SchoolID string `db:"school_id" json:"school_id" validate:"required"`
	Name     string `db:"name" json:"name" validate:"required"`
	District string `db:"district" json:"district"`
	State    string `db:"state" json:"state"`
}

func (u *User) Validate() error {
	validate := validator.New()
	return validate.Struct(u)
}
