package store

import (
	"context"
	"errors"

	"studyduel/models"
)

var (
	// ErrNotFound is returned when a referenced document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrAlreadyQueued is returned when a player tries to claim their own
	// waiting slot, which would pair them against themselves.
	ErrAlreadyQueued = errors.New("player is already waiting in this classroom")
	// ErrVersionConflict is returned when a conditional duel update lost a
	// race against a concurrent writer. The caller retries the whole request.
	ErrVersionConflict = errors.New("duel was modified concurrently")
)

// DuelStore persists duels. Update is a single conditional replace keyed on
// (id, version) so the whole mutated document lands atomically or not at all.
type DuelStore interface {
	Insert(ctx context.Context, duel *models.Duel) (string, error)
	Get(ctx context.Context, id string) (*models.Duel, error)
	Update(ctx context.Context, duel *models.Duel) error
	FinishedByClassroom(ctx context.Context, classroomID string) ([]models.Duel, error)
}

// ClassroomStore persists classrooms and owns the matchmaking queue slot.
type ClassroomStore interface {
	Get(ctx context.Context, id string) (*models.Classroom, error)
	FindByCourse(ctx context.Context, courseID string) (*models.Classroom, error)
	Create(ctx context.Context, classroom *models.Classroom) (string, error)
	AddMember(ctx context.Context, classroomID, userID string) error

	// ClaimWaitingSlot atomically inspects the classroom's waiting slot.
	// An occupied slot is cleared and its occupant returned as the opponent;
	// an empty slot is filled with playerID and matched=false is returned.
	// A player finding themselves in the slot gets ErrAlreadyQueued.
	ClaimWaitingSlot(ctx context.Context, classroomID, playerID string) (opponentID string, matched bool, err error)
}

// QuestionStore is the question bank. List returns up to limit questions in
// creation order, the stable ordering round generation relies on.
type QuestionStore interface {
	Insert(ctx context.Context, question *models.Question) (string, error)
	List(ctx context.Context, limit int) ([]models.Question, error)
	Count(ctx context.Context) (int64, error)
}

// UserStore persists user profiles. Insert keeps a preset ID so the
// document id can match the identity provider uid.
type UserStore interface {
	Insert(ctx context.Context, user *models.User) (string, error)
	Get(ctx context.Context, id string) (*models.User, error)
	SetCourse(ctx context.Context, userID, courseID string) error
}

// UniversityStore persists universities.
type UniversityStore interface {
	Insert(ctx context.Context, university *models.University) (string, error)
	List(ctx context.Context) ([]models.University, error)
}

// CourseStore persists courses.
type CourseStore interface {
	Insert(ctx context.Context, course *models.Course) (string, error)
	Get(ctx context.Context, id string) (*models.Course, error)
	ListByUniversity(ctx context.Context, universityID string) ([]models.Course, error)
}

// Store bundles every collection behind one injected handle.
type Store interface {
	Duels() DuelStore
	Classrooms() ClassroomStore
	Questions() QuestionStore
	Users() UserStore
	Universities() UniversityStore
	Courses() CourseStore
}
