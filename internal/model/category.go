package model

import "github.com/google/uuid"

type Category struct {
	ID    uuid.UUID `db:"id" json:"id"`
	Code  string    `db:"code" json:"code"`
	Label string    `db:"label" json:"label"`
}

type Location struct {
	ID      uuid.UUID `db:"id" json:"id"`
	Name    string    `db:"name" json:"name"`
	Address *string   `db:"address" json:"address,omitempty"`
}
