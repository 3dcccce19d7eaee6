package services

import "errors"

var (
	// ErrUniversityNotFound is returned when no universities exist yet.
	ErrUniversityNotFound = errors.New("no universities found")
	// ErrCourseNotFound is returned when a referenced course does not exist.
	ErrCourseNotFound = errors.New("course not found")
	// ErrUserNotFound is returned when a referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrClassroomNotFound is returned when a referenced classroom does not exist.
	ErrClassroomNotFound = errors.New("classroom not found")
	// ErrDuelNotFound is returned when a referenced duel does not exist.
	ErrDuelNotFound = errors.New("duel not found")

	// ErrAlreadyQueued is returned when a player joins a queue they are
	// already waiting in; pairing a player against themselves is rejected.
	ErrAlreadyQueued = errors.New("you are already waiting for an opponent in this classroom")
	// ErrDuelFinished is returned on any submission against a finished duel.
	ErrDuelFinished = errors.New("duel already finished")
	// ErrNotParticipant is returned when the acting player is not one of the
	// duel's two players.
	ErrNotParticipant = errors.New("player is not part of this duel")
	// ErrNotYourTurn is returned when a player submits out of turn.
	ErrNotYourTurn = errors.New("it is not your turn")
	// ErrRoundCorrupt is returned when the duel's round cursor points outside
	// the generated rounds or at an entry that is not answerable.
	ErrRoundCorrupt = errors.New("invalid round data")
	// ErrInsufficientQuestions is returned when the question bank holds fewer
	// questions than a full duel needs.
	ErrInsufficientQuestions = errors.New("not enough questions in the bank to start a duel")
	// ErrWriteConflict is returned when persisting the duel lost a race
	// against a concurrent submission; the client should retry.
	ErrWriteConflict = errors.New("duel was updated concurrently, please retry")

	// ErrInvalidQuestion is returned when a question set fails validation.
	ErrInvalidQuestion = errors.New("provide a question text, exactly 4 options and a matching correctOptionId")
)
