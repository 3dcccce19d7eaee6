package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"go.uber.org/zap"

	"studyduel/models"
	"studyduel/store"
)

type recordedPush struct {
	UserID string
	Title  string
	Body   string
	Data   map[string]string
}

// notifierRecorder captures every push for assertions.
type notifierRecorder struct {
	mu     sync.Mutex
	pushes []recordedPush
}

func (r *notifierRecorder) Send(ctx context.Context, userID, title, body string, data map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pushes = append(r.pushes, recordedPush{UserID: userID, Title: title, Body: body, Data: data})
}

func (r *notifierRecorder) titlesFor(userID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var titles []string
	for _, p := range r.pushes {
		if p.UserID == userID {
			titles = append(titles, p.Title)
		}
	}
	return titles
}

type duelEnv struct {
	store    *store.Memory
	service  *DuelService
	notifier *notifierRecorder
}

func newDuelEnv(t *testing.T, cfg DuelConfig, questionCount int) *duelEnv {
	t.Helper()
	ctx := context.Background()
	mem := store.NewMemory()

	for _, u := range []models.User{
		{ID: "alice", Email: "alice@example.com", DisplayName: "Alice"},
		{ID: "bob", Email: "bob@example.com", DisplayName: "Bob"},
	} {
		user := u
		if _, err := mem.Users().Insert(ctx, &user); err != nil {
			t.Fatalf("failed to insert user: %v", err)
		}
	}
	if _, err := mem.Classrooms().Create(ctx, &models.Classroom{
		ID:       "class1",
		CourseID: "course1",
		Members:  []string{"alice", "bob"},
	}); err != nil {
		t.Fatalf("failed to create classroom: %v", err)
	}
	seedBank(t, mem.Questions(), questionCount)

	recorder := &notifierRecorder{}
	return &duelEnv{
		store:    mem,
		service:  NewDuelService(mem, recorder, cfg, zap.NewNop()),
		notifier: recorder,
	}
}

func seedBank(t *testing.T, bank store.QuestionStore, count int) {
	t.Helper()
	for i := 1; i <= count; i++ {
		q := models.Question{
			ID:   fmt.Sprintf("q%d", i),
			Text: fmt.Sprintf("Question %d", i),
			Options: []models.Option{
				{ID: "o1", Text: "right"},
				{ID: "o2", Text: "wrong"},
				{ID: "o3", Text: "wrong"},
				{ID: "o4", Text: "wrong"},
			},
			CorrectOptionID: "o1",
		}
		if _, err := bank.Insert(context.Background(), &q); err != nil {
			t.Fatalf("failed to seed question: %v", err)
		}
	}
}

// startDuel pairs alice (player1, joins first) with bob (player2).
func (e *duelEnv) startDuel(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	first, err := e.service.JoinQueue(ctx, "class1", "alice")
	if err != nil {
		t.Fatalf("alice failed to join queue: %v", err)
	}
	if first.Matched {
		t.Fatalf("expected alice to wait, got a match")
	}
	second, err := e.service.JoinQueue(ctx, "class1", "bob")
	if err != nil {
		t.Fatalf("bob failed to join queue: %v", err)
	}
	if !second.Matched || second.DuelID == "" {
		t.Fatalf("expected bob to be matched with a duel id, got %+v", second)
	}
	return second.DuelID
}

func (e *duelEnv) duel(t *testing.T, duelID string) *models.Duel {
	t.Helper()
	duel, err := e.store.Duels().Get(context.Background(), duelID)
	if err != nil {
		t.Fatalf("failed to fetch duel: %v", err)
	}
	return duel
}

func TestDuelTwoRoundsPlayer1Wins(t *testing.T) {
	ctx := context.Background()
	env := newDuelEnv(t, DuelConfig{RoundsPerDuel: 2, QuestionsPerRound: 1}, 2)
	duelID := env.startDuel(t)

	// Round 1: alice answers correctly.
	res, err := env.service.SubmitAnswer(ctx, duelID, "alice", "o1")
	if err != nil {
		t.Fatalf("alice's answer failed: %v", err)
	}
	if !res.IsCorrect || res.CorrectOptionID != "o1" {
		t.Errorf("expected correct answer feedback, got %+v", res)
	}
	duel := env.duel(t, duelID)
	if duel.ScorePlayer1 != 1 || duel.ScorePlayer2 != 0 {
		t.Errorf("expected score 1:0, got %d:%d", duel.ScorePlayer1, duel.ScorePlayer2)
	}
	if duel.CurrentTurn != "bob" {
		t.Errorf("expected turn to pass to bob, got %q", duel.CurrentTurn)
	}
	if duel.Rounds[0].CurrentQuestionIndex != 0 {
		t.Errorf("expected question cursor reset for bob, got %d", duel.Rounds[0].CurrentQuestionIndex)
	}

	// Round 1: bob answers incorrectly, closing the round.
	res, err = env.service.SubmitAnswer(ctx, duelID, "bob", "o2")
	if err != nil {
		t.Fatalf("bob's answer failed: %v", err)
	}
	if res.IsCorrect {
		t.Errorf("expected incorrect answer feedback")
	}
	duel = env.duel(t, duelID)
	if duel.CurrentRound != 1 {
		t.Errorf("expected round advance to index 1, got %d", duel.CurrentRound)
	}
	if duel.CurrentTurn != "alice" {
		t.Errorf("expected alice to open round 2, got %q", duel.CurrentTurn)
	}
	if duel.ScorePlayer1 != 1 || duel.ScorePlayer2 != 0 {
		t.Errorf("round close must not change scores, got %d:%d", duel.ScorePlayer1, duel.ScorePlayer2)
	}

	// Round 2: alice correct, bob incorrect. Duel finishes 2:0.
	if _, err := env.service.SubmitAnswer(ctx, duelID, "alice", "o1"); err != nil {
		t.Fatalf("alice's round 2 answer failed: %v", err)
	}
	if _, err := env.service.SubmitAnswer(ctx, duelID, "bob", "o3"); err != nil {
		t.Fatalf("bob's round 2 answer failed: %v", err)
	}
	duel = env.duel(t, duelID)
	if duel.Status != models.DuelFinished {
		t.Errorf("expected finished duel, got %q", duel.Status)
	}
	if duel.ScorePlayer1 != 2 || duel.ScorePlayer2 != 0 {
		t.Errorf("expected final score 2:0, got %d:%d", duel.ScorePlayer1, duel.ScorePlayer2)
	}
	if duel.CurrentTurn != "" {
		t.Errorf("expected cleared turn after finish, got %q", duel.CurrentTurn)
	}

	aliceTitles := env.notifier.titlesFor("alice")
	if len(aliceTitles) == 0 || aliceTitles[len(aliceTitles)-1] != "You won!" {
		t.Errorf("expected a win notification for alice, got %v", aliceTitles)
	}
	bobTitles := env.notifier.titlesFor("bob")
	if len(bobTitles) == 0 || bobTitles[len(bobTitles)-1] != "You lost." {
		t.Errorf("expected a loss notification for bob, got %v", bobTitles)
	}
}

func TestDuelDraw(t *testing.T) {
	ctx := context.Background()
	env := newDuelEnv(t, DuelConfig{RoundsPerDuel: 2, QuestionsPerRound: 2}, 4)
	duelID := env.startDuel(t)

	// Both players answer every question correctly.
	for round := 0; round < 2; round++ {
		for _, player := range []string{"alice", "bob"} {
			for q := 0; q < 2; q++ {
				if _, err := env.service.SubmitAnswer(ctx, duelID, player, "o1"); err != nil {
					t.Fatalf("submission failed for %s in round %d: %v", player, round, err)
				}
			}
		}
	}

	duel := env.duel(t, duelID)
	if duel.Status != models.DuelFinished {
		t.Fatalf("expected finished duel, got %q", duel.Status)
	}
	if duel.ScorePlayer1 != duel.ScorePlayer2 {
		t.Errorf("expected equal scores, got %d:%d", duel.ScorePlayer1, duel.ScorePlayer2)
	}
	for _, player := range []string{"alice", "bob"} {
		titles := env.notifier.titlesFor(player)
		if len(titles) == 0 || titles[len(titles)-1] != "Draw!" {
			t.Errorf("expected a draw notification for %s, got %v", player, titles)
		}
	}
}

func TestSubmitAnswerTurnLegality(t *testing.T) {
	ctx := context.Background()
	env := newDuelEnv(t, DuelConfig{RoundsPerDuel: 1, QuestionsPerRound: 1}, 1)
	duelID := env.startDuel(t)
	before := env.duel(t, duelID)

	if _, err := env.service.SubmitAnswer(ctx, duelID, "bob", "o1"); err != ErrNotYourTurn {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}
	if _, err := env.service.SubmitAnswer(ctx, duelID, "mallory", "o1"); err != ErrNotParticipant {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}

	after := env.duel(t, duelID)
	if after.Version != before.Version || after.ScorePlayer1 != before.ScorePlayer1 || after.ScorePlayer2 != before.ScorePlayer2 {
		t.Errorf("rejected submissions must not mutate the duel")
	}
}

func TestSubmitAnswerFinishedDuelImmutable(t *testing.T) {
	ctx := context.Background()
	env := newDuelEnv(t, DuelConfig{RoundsPerDuel: 1, QuestionsPerRound: 1}, 1)
	duelID := env.startDuel(t)

	if _, err := env.service.SubmitAnswer(ctx, duelID, "alice", "o1"); err != nil {
		t.Fatalf("alice's answer failed: %v", err)
	}
	if _, err := env.service.SubmitAnswer(ctx, duelID, "bob", "o1"); err != nil {
		t.Fatalf("bob's answer failed: %v", err)
	}
	finished := env.duel(t, duelID)
	if finished.Status != models.DuelFinished {
		t.Fatalf("expected finished duel, got %q", finished.Status)
	}

	if _, err := env.service.SubmitAnswer(ctx, duelID, "alice", "o1"); err != ErrDuelFinished {
		t.Fatalf("expected ErrDuelFinished, got %v", err)
	}
	after := env.duel(t, duelID)
	if after.Version != finished.Version {
		t.Errorf("finished duel must stay untouched")
	}
}

func TestScoreMonotonicity(t *testing.T) {
	ctx := context.Background()
	env := newDuelEnv(t, DuelConfig{RoundsPerDuel: 2, QuestionsPerRound: 3}, 6)
	duelID := env.startDuel(t)

	// Alternating right and wrong answers; scores never decrease and grow by
	// at most one per submission.
	options := []string{"o1", "o2", "o1", "o2", "o1", "o2"}
	prev1, prev2 := 0, 0
	for round := 0; round < 2; round++ {
		for _, player := range []string{"alice", "bob"} {
			for q := 0; q < 3; q++ {
				if _, err := env.service.SubmitAnswer(ctx, duelID, player, options[q%len(options)]); err != nil {
					t.Fatalf("submission failed: %v", err)
				}
				duel := env.duel(t, duelID)
				if duel.ScorePlayer1 < prev1 || duel.ScorePlayer2 < prev2 {
					t.Fatalf("score decreased: %d:%d after %d:%d", duel.ScorePlayer1, duel.ScorePlayer2, prev1, prev2)
				}
				if duel.ScorePlayer1 > prev1+1 || duel.ScorePlayer2 > prev2+1 {
					t.Fatalf("score jumped by more than one")
				}
				prev1, prev2 = duel.ScorePlayer1, duel.ScorePlayer2
			}
		}
	}
}

func TestRoundSymmetry(t *testing.T) {
	env := newDuelEnv(t, DuelConfig{RoundsPerDuel: 3, QuestionsPerRound: 2}, 6)
	duelID := env.startDuel(t)
	duel := env.duel(t, duelID)

	if len(duel.Rounds) != 3 {
		t.Fatalf("expected 3 rounds, got %d", len(duel.Rounds))
	}
	for i, round := range duel.Rounds {
		if len(round.Player1Answers) != 2 || len(round.Player2Answers) != 2 {
			t.Fatalf("round %d has wrong answer counts", i)
		}
		for j := range round.Player1Answers {
			if round.Player1Answers[j].QuestionID != round.Player2Answers[j].QuestionID {
				t.Errorf("round %d question %d differs between players", i, j)
			}
			if round.Player1Answers[j].Status != models.AnswerUnanswered {
				t.Errorf("expected unanswered initial status")
			}
		}
	}
}

func TestGetStatus(t *testing.T) {
	ctx := context.Background()
	env := newDuelEnv(t, DuelConfig{RoundsPerDuel: 2, QuestionsPerRound: 2}, 4)
	duelID := env.startDuel(t)

	progress, err := env.service.GetStatus(ctx, duelID)
	if err != nil {
		t.Fatalf("status read failed: %v", err)
	}
	if progress.CurrentRound != 0 || progress.CurrentQuestionIndex != 0 || progress.CurrentTurnID != "alice" {
		t.Errorf("unexpected initial progress: %+v", progress)
	}

	if _, err := env.service.SubmitAnswer(ctx, duelID, "alice", "o1"); err != nil {
		t.Fatalf("submission failed: %v", err)
	}
	progress, err = env.service.GetStatus(ctx, duelID)
	if err != nil {
		t.Fatalf("status read failed: %v", err)
	}
	if progress.CurrentQuestionIndex != 1 || progress.CurrentTurnID != "alice" {
		t.Errorf("expected cursor advance within alice's turn, got %+v", progress)
	}

	if _, err := env.service.GetStatus(ctx, "missing"); err != ErrDuelNotFound {
		t.Errorf("expected ErrDuelNotFound, got %v", err)
	}
}

func TestGetStatusCorruptRound(t *testing.T) {
	ctx := context.Background()
	env := newDuelEnv(t, DuelConfig{RoundsPerDuel: 1, QuestionsPerRound: 1}, 1)

	corrupt := &models.Duel{
		ClassroomID:  "class1",
		Player1:      "alice",
		Player2:      "bob",
		Status:       models.DuelActive,
		CurrentRound: 7,
		CurrentTurn:  "alice",
	}
	id, err := env.store.Duels().Insert(ctx, corrupt)
	if err != nil {
		t.Fatalf("failed to insert corrupt duel: %v", err)
	}
	if _, err := env.service.GetStatus(ctx, id); err != ErrRoundCorrupt {
		t.Errorf("expected ErrRoundCorrupt, got %v", err)
	}
}
