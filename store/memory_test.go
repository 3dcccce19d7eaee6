package store

import (
	"context"
	"sync"
	"testing"

	"studyduel/models"
)

func TestClaimWaitingSlot(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	if _, err := mem.Classrooms().Create(ctx, &models.Classroom{ID: "c1", CourseID: "course1"}); err != nil {
		t.Fatalf("failed to create classroom: %v", err)
	}

	opponent, matched, err := mem.Classrooms().ClaimWaitingSlot(ctx, "c1", "alice")
	if err != nil || matched || opponent != "" {
		t.Fatalf("expected alice to take the empty slot, got (%q, %v, %v)", opponent, matched, err)
	}

	if _, _, err := mem.Classrooms().ClaimWaitingSlot(ctx, "c1", "alice"); err != ErrAlreadyQueued {
		t.Fatalf("expected ErrAlreadyQueued for the waiter, got %v", err)
	}

	opponent, matched, err = mem.Classrooms().ClaimWaitingSlot(ctx, "c1", "bob")
	if err != nil || !matched || opponent != "alice" {
		t.Fatalf("expected bob to claim alice, got (%q, %v, %v)", opponent, matched, err)
	}

	// Slot is cleared after a claim.
	classroom, err := mem.Classrooms().Get(ctx, "c1")
	if err != nil {
		t.Fatalf("failed to fetch classroom: %v", err)
	}
	if classroom.WaitingPlayer != "" {
		t.Errorf("expected an empty slot after pairing, got %q", classroom.WaitingPlayer)
	}

	if _, _, err := mem.Classrooms().ClaimWaitingSlot(ctx, "missing", "alice"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for an unknown classroom, got %v", err)
	}
}

func TestClaimWaitingSlotConcurrentJoiners(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	if _, err := mem.Classrooms().Create(ctx, &models.Classroom{ID: "c1", CourseID: "course1"}); err != nil {
		t.Fatalf("failed to create classroom: %v", err)
	}

	players := []string{"p1", "p2", "p3", "p4", "p5", "p6"}
	var wg sync.WaitGroup
	var mu sync.Mutex
	matches := 0
	waits := 0
	for _, p := range players {
		wg.Add(1)
		go func(player string) {
			defer wg.Done()
			_, matched, err := mem.Classrooms().ClaimWaitingSlot(ctx, "c1", player)
			if err != nil {
				t.Errorf("unexpected error for %s: %v", player, err)
				return
			}
			mu.Lock()
			if matched {
				matches++
			} else {
				waits++
			}
			mu.Unlock()
		}(p)
	}
	wg.Wait()

	// Every claim consumes exactly one earlier wait, so an even number of
	// joiners yields a fully-paired queue.
	if matches != 3 || waits != 3 {
		t.Errorf("expected 3 matches and 3 waits, got %d/%d", matches, waits)
	}
}

func TestDuelUpdateVersionConflict(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	duel := &models.Duel{
		ClassroomID: "c1",
		Player1:     "alice",
		Player2:     "bob",
		Status:      models.DuelActive,
		CurrentTurn: "alice",
		Rounds:      []models.Round{{RoundNumber: 1}},
	}
	id, err := mem.Duels().Insert(ctx, duel)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	first, err := mem.Duels().Get(ctx, id)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	second, err := mem.Duels().Get(ctx, id)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	first.ScorePlayer1 = 1
	if err := mem.Duels().Update(ctx, first); err != nil {
		t.Fatalf("first update failed: %v", err)
	}

	second.ScorePlayer2 = 1
	if err := mem.Duels().Update(ctx, second); err != ErrVersionConflict {
		t.Fatalf("expected ErrVersionConflict for the stale writer, got %v", err)
	}

	// The stale write left no trace.
	current, err := mem.Duels().Get(ctx, id)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if current.ScorePlayer1 != 1 || current.ScorePlayer2 != 0 {
		t.Errorf("expected only the winning write applied, got %d:%d", current.ScorePlayer1, current.ScorePlayer2)
	}
}

func TestMemoryGetReturnsCopies(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	duel := &models.Duel{
		ClassroomID: "c1",
		Player1:     "alice",
		Player2:     "bob",
		Status:      models.DuelActive,
		CurrentTurn: "alice",
		Rounds: []models.Round{{
			RoundNumber:    1,
			Player1Answers: []models.PlayerAnswer{{QuestionID: "q1", Status: models.AnswerUnanswered}},
			Player2Answers: []models.PlayerAnswer{{QuestionID: "q1", Status: models.AnswerUnanswered}},
		}},
	}
	id, err := mem.Duels().Insert(ctx, duel)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	leaked, _ := mem.Duels().Get(ctx, id)
	leaked.Rounds[0].Player1Answers[0].Status = models.AnswerCorrect
	leaked.ScorePlayer1 = 99

	fresh, _ := mem.Duels().Get(ctx, id)
	if fresh.ScorePlayer1 != 0 || fresh.Rounds[0].Player1Answers[0].Status != models.AnswerUnanswered {
		t.Errorf("mutating a read copy must not change the stored duel")
	}
}
