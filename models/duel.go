package models

import "time"

// DuelStatus is the lifecycle state of a duel.
type DuelStatus string

const (
	DuelActive   DuelStatus = "active"
	DuelFinished DuelStatus = "finished"
)

// AnswerStatus tracks a single question slot of one player.
type AnswerStatus string

const (
	AnswerUnanswered AnswerStatus = "unanswered"
	AnswerCorrect    AnswerStatus = "correct"
	AnswerIncorrect  AnswerStatus = "incorrect"
)

// PlayerAnswer is one player's slot for one question of a round. The question
// content is copied in at round generation so that later edits to the question
// bank cannot alter a running duel.
type PlayerAnswer struct {
	QuestionID       string       `bson:"questionId" json:"questionId"`
	QuestionText     string       `bson:"questionText" json:"questionText"`
	Options          []Option     `bson:"options" json:"options"`
	CorrectOptionID  string       `bson:"correctOptionId" json:"correctOptionId"`
	SelectedOptionID string       `bson:"selectedOptionId,omitempty" json:"selectedOptionId,omitempty"`
	Status           AnswerStatus `bson:"status" json:"status"`
}

// Round is one fixed-size batch of shared questions. Both answer slices hold
// the identical question sequence; the cursor walks one side at a time.
type Round struct {
	RoundNumber          int            `bson:"roundNumber" json:"roundNumber"`
	CurrentQuestionIndex int            `bson:"currentQuestionIndex" json:"currentQuestionIndex"`
	Player1Answers       []PlayerAnswer `bson:"player1Answers" json:"player1Answers"`
	Player2Answers       []PlayerAnswer `bson:"player2Answers" json:"player2Answers"`
}

// Duel is a turn-based match between two players of one classroom. Duels are
// never deleted; a finished duel is kept for history.
type Duel struct {
	ID           string     `bson:"_id,omitempty" json:"id,omitempty"`
	ClassroomID  string     `bson:"classroomId" json:"classroomId"`
	Player1      string     `bson:"player1" json:"player1"`
	Player2      string     `bson:"player2" json:"player2"`
	Status       DuelStatus `bson:"status" json:"status"`
	CurrentRound int        `bson:"currentRound" json:"currentRound"`
	CurrentTurn  string     `bson:"currentTurn" json:"currentTurn"`
	ScorePlayer1 int        `bson:"scorePlayer1" json:"scorePlayer1"`
	ScorePlayer2 int        `bson:"scorePlayer2" json:"scorePlayer2"`
	Rounds       []Round    `bson:"rounds" json:"rounds"`
	Version      int64      `bson:"version" json:"-"`
	CreatedAt    time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// IsParticipant reports whether playerID is one of the duel's two players.
func (d Duel) IsParticipant(playerID string) bool {
	return playerID == d.Player1 || playerID == d.Player2
}
