package models

import "time"

// OptionCount is the number of answer options every question carries.
const OptionCount = 4

// Option is one selectable answer of a question.
type Option struct {
	ID   string `bson:"id" json:"id"`
	Text string `bson:"text" json:"text"`
}

// Question defines a single quiz question. Questions are immutable once
// created; duels snapshot their content instead of referencing it live.
type Question struct {
	ID              string    `bson:"_id,omitempty" json:"id,omitempty"`
	Text            string    `bson:"questionText" json:"questionText"`
	Options         []Option  `bson:"options" json:"options"`
	CorrectOptionID string    `bson:"correctOptionId" json:"correctOptionId"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
}

// HasOption reports whether id names one of the question's options.
func (q Question) HasOption(id string) bool {
	for _, o := range q.Options {
		if o.ID == id {
			return true
		}
	}
	return false
}
