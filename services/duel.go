package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"studyduel/models"
	"studyduel/store"
)

// DuelService owns duel matchmaking, the turn-based state machine and the
// read-only status projection. All state lives in the injected store; the
// service itself is stateless and safe for concurrent requests.
type DuelService struct {
	duels      store.DuelStore
	classrooms store.ClassroomStore
	questions  store.QuestionStore
	users      store.UserStore
	notifier   Notifier
	cfg        DuelConfig
	log        *zap.Logger
}

// NewDuelService wires a duel service from the store bundle.
func NewDuelService(st store.Store, notifier Notifier, cfg DuelConfig, log *zap.Logger) *DuelService {
	return &DuelService{
		duels:      st.Duels(),
		classrooms: st.Classrooms(),
		questions:  st.Questions(),
		users:      st.Users(),
		notifier:   notifier,
		cfg:        cfg.withDefaults(),
		log:        log,
	}
}

// JoinResult is the outcome of a queue join.
type JoinResult struct {
	Matched bool   `json:"matched"`
	DuelID  string `json:"duelId,omitempty"`
}

// JoinQueue either parks the player in the classroom's waiting slot or pairs
// them with the player already waiting there. Pairing creates the duel in one
// insert; the earlier waiter becomes player1 and opens the first round.
func (s *DuelService) JoinQueue(ctx context.Context, classroomID, playerID string) (JoinResult, error) {
	if _, err := s.users.Get(ctx, playerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return JoinResult{}, ErrUserNotFound
		}
		return JoinResult{}, err
	}

	opponentID, matched, err := s.classrooms.ClaimWaitingSlot(ctx, classroomID, playerID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return JoinResult{}, ErrClassroomNotFound
		case errors.Is(err, store.ErrAlreadyQueued):
			return JoinResult{}, ErrAlreadyQueued
		}
		return JoinResult{}, err
	}
	if !matched {
		return JoinResult{Matched: false}, nil
	}

	rounds, err := generateRounds(ctx, s.questions, s.cfg)
	if err != nil {
		// The opponent was already removed from the slot; they have to
		// rejoin. Worth surfacing loudly since it drops a waiting player.
		s.log.Warn("duel creation failed after claiming waiting player",
			zap.String("classroomId", classroomID),
			zap.String("waitingPlayer", opponentID),
			zap.Error(err))
		return JoinResult{}, err
	}

	duel := &models.Duel{
		ClassroomID: classroomID,
		Player1:     opponentID,
		Player2:     playerID,
		Status:      models.DuelActive,
		CurrentTurn: opponentID,
		Rounds:      rounds,
	}
	duelID, err := s.duels.Insert(ctx, duel)
	if err != nil {
		return JoinResult{}, err
	}

	s.notifier.Send(ctx, opponentID, "Your turn!",
		"The duel has started. Answer your first question.",
		map[string]string{"duelId": duelID})
	s.notifier.Send(ctx, playerID, "Waiting for player 1",
		"The duel has started. Your opponent goes first.",
		map[string]string{"duelId": duelID})

	return JoinResult{Matched: true, DuelID: duelID}, nil
}

// AnswerResult is the immediate feedback for a submitted answer.
type AnswerResult struct {
	IsCorrect       bool   `json:"isCorrect"`
	CorrectOptionID string `json:"correctOptionId"`
}

// SubmitAnswer validates turn legality, scores the answer against the
// snapshotted question, advances the question/round/turn cursors and
// persists the whole mutated duel in one conditional write. Players finish a
// round sequentially: player1 answers every question of the round, then
// player2 answers the same questions; only when player2 finishes does the
// round close.
func (s *DuelService) SubmitAnswer(ctx context.Context, duelID, playerID, selectedOptionID string) (AnswerResult, error) {
	duel, err := s.duels.Get(ctx, duelID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return AnswerResult{}, ErrDuelNotFound
		}
		return AnswerResult{}, err
	}
	if duel.Status != models.DuelActive {
		return AnswerResult{}, ErrDuelFinished
	}
	if !duel.IsParticipant(playerID) {
		return AnswerResult{}, ErrNotParticipant
	}
	if playerID != duel.CurrentTurn {
		return AnswerResult{}, ErrNotYourTurn
	}
	if duel.CurrentRound < 0 || duel.CurrentRound >= len(duel.Rounds) {
		return AnswerResult{}, ErrRoundCorrupt
	}

	round := &duel.Rounds[duel.CurrentRound]
	answers := round.Player1Answers
	if playerID == duel.Player2 {
		answers = round.Player2Answers
	}
	idx := round.CurrentQuestionIndex
	if idx < 0 || idx >= len(answers) || answers[idx].Status != models.AnswerUnanswered {
		return AnswerResult{}, ErrRoundCorrupt
	}

	entry := &answers[idx]
	isCorrect := selectedOptionID == entry.CorrectOptionID
	entry.SelectedOptionID = selectedOptionID
	if isCorrect {
		entry.Status = models.AnswerCorrect
		if playerID == duel.Player1 {
			duel.ScorePlayer1++
		} else {
			duel.ScorePlayer2++
		}
	} else {
		entry.Status = models.AnswerIncorrect
	}

	playerFinishedRound := idx == len(answers)-1
	roundClosed := false
	switch {
	case !playerFinishedRound:
		round.CurrentQuestionIndex++
	case playerID == duel.Player1:
		// Hand the shared questions to player2, cursor back to the start.
		duel.CurrentTurn = duel.Player2
		round.CurrentQuestionIndex = 0
	default:
		// Player2 just finished, so both sides of the round are complete.
		roundClosed = true
		if duel.CurrentRound == len(duel.Rounds)-1 {
			duel.Status = models.DuelFinished
			duel.CurrentTurn = ""
		} else {
			duel.CurrentRound++
			duel.CurrentTurn = duel.Player1
		}
	}

	if err := s.duels.Update(ctx, duel); err != nil {
		if errors.Is(err, store.ErrVersionConflict) {
			return AnswerResult{}, ErrWriteConflict
		}
		return AnswerResult{}, err
	}

	s.notifyAfterAnswer(ctx, duel, playerID, isCorrect, entry, roundClosed, playerFinishedRound)

	return AnswerResult{IsCorrect: isCorrect, CorrectOptionID: entry.CorrectOptionID}, nil
}

// notifyAfterAnswer dispatches the best-effort pushes for a persisted
// transition: answer feedback to the actor, turn handoffs, round summaries
// and the final outcome.
func (s *DuelService) notifyAfterAnswer(ctx context.Context, duel *models.Duel, playerID string, isCorrect bool, entry *models.PlayerAnswer, roundClosed, playerFinishedRound bool) {
	data := map[string]string{"duelId": duel.ID, "questionId": entry.QuestionID}
	if isCorrect {
		s.notifier.Send(ctx, playerID, "Correct!", "Well done.", data)
	} else {
		s.notifier.Send(ctx, playerID, "Wrong!",
			fmt.Sprintf("The correct answer is: %q.", optionText(entry)), data)
	}

	switch {
	case duel.Status == models.DuelFinished:
		s.notifyOutcome(ctx, duel)
	case roundClosed:
		summary := fmt.Sprintf("Round %d complete", duel.CurrentRound)
		body := "The next round is starting now."
		roundData := map[string]string{
			"duelId":       duel.ID,
			"currentRound": fmt.Sprintf("%d", duel.CurrentRound),
			"score":        fmt.Sprintf("%d:%d", duel.ScorePlayer1, duel.ScorePlayer2),
		}
		s.notifier.Send(ctx, duel.Player1, summary, body, roundData)
		s.notifier.Send(ctx, duel.Player2, summary, body, roundData)
	case playerFinishedRound:
		s.notifier.Send(ctx, duel.Player2, "Your turn!",
			"Your opponent finished the round. Answer the same questions.",
			map[string]string{"duelId": duel.ID})
		s.notifier.Send(ctx, duel.Player1, "Waiting for your opponent",
			"Your opponent is answering now.",
			map[string]string{"duelId": duel.ID})
	}
}

func (s *DuelService) notifyOutcome(ctx context.Context, duel *models.Duel) {
	data := map[string]string{"duelId": duel.ID}
	p1, p2 := duel.ScorePlayer1, duel.ScorePlayer2
	switch {
	case p1 > p2:
		s.notifier.Send(ctx, duel.Player1, "You won!",
			fmt.Sprintf("Congratulations, you won the duel. Final score: %d:%d", p1, p2), data)
		s.notifier.Send(ctx, duel.Player2, "You lost.",
			fmt.Sprintf("Too bad, you lost the duel. Final score: %d:%d", p2, p1), data)
	case p2 > p1:
		s.notifier.Send(ctx, duel.Player2, "You won!",
			fmt.Sprintf("Congratulations, you won the duel. Final score: %d:%d", p2, p1), data)
		s.notifier.Send(ctx, duel.Player1, "You lost.",
			fmt.Sprintf("Too bad, you lost the duel. Final score: %d:%d", p1, p2), data)
	default:
		body := fmt.Sprintf("It's a draw! Final score: %d:%d", p1, p2)
		s.notifier.Send(ctx, duel.Player1, "Draw!", body, data)
		s.notifier.Send(ctx, duel.Player2, "Draw!", body, data)
	}
}

func optionText(entry *models.PlayerAnswer) string {
	for _, o := range entry.Options {
		if o.ID == entry.CorrectOptionID {
			return o.Text
		}
	}
	return "unknown"
}

// DuelProgress is the read-only projection a polling client resumes from.
type DuelProgress struct {
	CurrentRound         int    `json:"currentRound"`
	CurrentQuestionIndex int    `json:"currentQuestionIndex"`
	CurrentTurnID        string `json:"currentTurnId"`
}

// GetStatus reads the duel's cursor without mutating anything.
func (s *DuelService) GetStatus(ctx context.Context, duelID string) (DuelProgress, error) {
	duel, err := s.duels.Get(ctx, duelID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return DuelProgress{}, ErrDuelNotFound
		}
		return DuelProgress{}, err
	}
	if duel.CurrentRound < 0 || duel.CurrentRound >= len(duel.Rounds) {
		return DuelProgress{}, ErrRoundCorrupt
	}
	return DuelProgress{
		CurrentRound:         duel.CurrentRound,
		CurrentQuestionIndex: duel.Rounds[duel.CurrentRound].CurrentQuestionIndex,
		CurrentTurnID:        duel.CurrentTurn,
	}, nil
}
