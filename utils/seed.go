package utils

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"studyduel/models"
	"studyduel/store"
)

type seedQuestion struct {
	text       string
	answers    [4]string
	correctIdx int
}

// Enough for one full default duel (5 rounds x 3 questions).
var sampleQuestions = []seedQuestion{
	{"What does HTTP stand for?", [4]string{"HyperText Transfer Protocol", "High Throughput Transport Protocol", "Hyperlink Text Processing", "Host Transfer Protocol"}, 0},
	{"Which data structure works first-in, first-out?", [4]string{"Stack", "Queue", "Tree", "Heap"}, 1},
	{"What is the time complexity of binary search?", [4]string{"O(n)", "O(n log n)", "O(log n)", "O(1)"}, 2},
	{"Which layer of the OSI model handles routing?", [4]string{"Transport", "Session", "Data link", "Network"}, 3},
	{"What does SQL stand for?", [4]string{"Structured Query Language", "Sequential Query Logic", "Standard Question Language", "Simple Query Layer"}, 0},
	{"Which sorting algorithm is stable?", [4]string{"Quicksort", "Merge sort", "Heapsort", "Selection sort"}, 1},
	{"What is the derivative of x^2?", [4]string{"x", "x^2", "2x", "2"}, 2},
	{"Which number is prime?", [4]string{"21", "27", "33", "31"}, 3},
	{"What does RAM stand for?", [4]string{"Random Access Memory", "Rapid Access Module", "Read And Modify", "Runtime Allocated Memory"}, 0},
	{"Which protocol secures HTTP traffic?", [4]string{"FTP", "TLS", "SMTP", "UDP"}, 1},
	{"What is 0b1010 in decimal?", [4]string{"8", "12", "10", "14"}, 2},
	{"Which keyword starts a goroutine?", [4]string{"async", "spawn", "thread", "go"}, 3},
	{"What does DNS resolve?", [4]string{"Names to IP addresses", "Ports to sockets", "Files to blocks", "Keys to values"}, 0},
	{"Which base does hexadecimal use?", [4]string{"8", "16", "32", "64"}, 1},
	{"What is the integral of 1/x?", [4]string{"x", "1/x^2", "ln|x|", "e^x"}, 2},
}

// SeedQuestions populates the question bank with sample data when it is
// empty, so a fresh environment can start a duel right away.
func SeedQuestions(ctx context.Context, questions store.QuestionStore, log *zap.Logger) {
	seedCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	count, err := questions.Count(seedCtx)
	if err != nil || count > 0 {
		return
	}

	for _, sq := range sampleQuestions {
		question := models.Question{
			Text:            sq.text,
			CorrectOptionID: fmt.Sprintf("a%d", sq.correctIdx+1),
		}
		for i, text := range sq.answers {
			question.Options = append(question.Options, models.Option{
				ID:   fmt.Sprintf("a%d", i+1),
				Text: text,
			})
		}
		if _, err := questions.Insert(seedCtx, &question); err != nil {
			log.Warn("failed to seed question", zap.Error(err))
			return
		}
	}
	log.Info("seeded question bank", zap.Int("questions", len(sampleQuestions)))
}
