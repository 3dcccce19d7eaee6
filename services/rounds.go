package services

import (
	"context"
	"fmt"

	"studyduel/models"
	"studyduel/store"
)

// DuelConfig sizes a duel. Both values are fixed at duel creation; the
// generated rounds never resize afterwards.
type DuelConfig struct {
	RoundsPerDuel     int
	QuestionsPerRound int
}

// DefaultDuelConfig matches the mobile client: 5 rounds of 3 questions.
func DefaultDuelConfig() DuelConfig {
	return DuelConfig{RoundsPerDuel: 5, QuestionsPerRound: 3}
}

func (c DuelConfig) withDefaults() DuelConfig {
	d := DefaultDuelConfig()
	if c.RoundsPerDuel > 0 {
		d.RoundsPerDuel = c.RoundsPerDuel
	}
	if c.QuestionsPerRound > 0 {
		d.QuestionsPerRound = c.QuestionsPerRound
	}
	return d
}

// generateRounds samples the question bank in creation order and partitions
// the sample into contiguous rounds. Both players get the identical question
// sequence per round, with the full question content snapshotted into each
// answer slot so later bank edits cannot touch a running duel.
func generateRounds(ctx context.Context, bank store.QuestionStore, cfg DuelConfig) ([]models.Round, error) {
	total := cfg.RoundsPerDuel * cfg.QuestionsPerRound
	questions, err := bank.List(ctx, total)
	if err != nil {
		return nil, fmt.Errorf("failed to sample question bank: %w", err)
	}
	if len(questions) < total {
		return nil, ErrInsufficientQuestions
	}

	rounds := make([]models.Round, cfg.RoundsPerDuel)
	for i := 0; i < cfg.RoundsPerDuel; i++ {
		chunk := questions[i*cfg.QuestionsPerRound : (i+1)*cfg.QuestionsPerRound]
		rounds[i] = models.Round{
			RoundNumber:          i + 1,
			CurrentQuestionIndex: 0,
			Player1Answers:       snapshotAnswers(chunk),
			Player2Answers:       snapshotAnswers(chunk),
		}
	}
	return rounds, nil
}

func snapshotAnswers(questions []models.Question) []models.PlayerAnswer {
	answers := make([]models.PlayerAnswer, len(questions))
	for i, q := range questions {
		answers[i] = models.PlayerAnswer{
			QuestionID:      q.ID,
			QuestionText:    q.Text,
			Options:         append([]models.Option(nil), q.Options...),
			CorrectOptionID: q.CorrectOptionID,
			Status:          models.AnswerUnanswered,
		}
	}
	return answers
}
