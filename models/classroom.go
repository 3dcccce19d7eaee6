package models

// Classroom groups the students of one course. WaitingPlayer is the
// single-slot matchmaking queue: at most one student waits per classroom,
// and the slot is only ever mutated through an atomic check-and-set.
type Classroom struct {
	ID            string   `bson:"_id,omitempty" json:"id,omitempty"`
	CourseID      string   `bson:"courseId" json:"courseId"`
	Members       []string `bson:"members" json:"members"`
	WaitingPlayer string   `bson:"waitingPlayer,omitempty" json:"-"`
}
