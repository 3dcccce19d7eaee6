package services

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"studyduel/store"
)

const leaderboardTTL = 30 * time.Second

// LeaderboardEntry is one row of a classroom leaderboard.
type LeaderboardEntry struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Points      int    `json:"points"`
	Duels       int    `json:"duels"`
}

// LeaderboardService aggregates finished duels into per-classroom rankings.
// Results are cached in Redis for a short TTL; when Redis is not configured
// or unavailable the service computes directly from the store.
type LeaderboardService struct {
	duels      store.DuelStore
	classrooms store.ClassroomStore
	users      store.UserStore
	cache      *redis.Client
	log        *zap.Logger
}

// NewLeaderboardService wires the leaderboard service. cache may be nil.
func NewLeaderboardService(st store.Store, cache *redis.Client, log *zap.Logger) *LeaderboardService {
	return &LeaderboardService{
		duels:      st.Duels(),
		classrooms: st.Classrooms(),
		users:      st.Users(),
		cache:      cache,
		log:        log,
	}
}

// ClassroomLeaderboard ranks the classroom's players by total points scored
// across their finished duels, descending.
func (s *LeaderboardService) ClassroomLeaderboard(ctx context.Context, classroomID string) ([]LeaderboardEntry, error) {
	if entries, ok := s.fromCache(ctx, classroomID); ok {
		return entries, nil
	}

	if _, err := s.classrooms.Get(ctx, classroomID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrClassroomNotFound
		}
		return nil, err
	}

	duels, err := s.duels.FinishedByClassroom(ctx, classroomID)
	if err != nil {
		return nil, err
	}

	points := make(map[string]int)
	played := make(map[string]int)
	for _, d := range duels {
		points[d.Player1] += d.ScorePlayer1
		points[d.Player2] += d.ScorePlayer2
		played[d.Player1]++
		played[d.Player2]++
	}

	entries := make([]LeaderboardEntry, 0, len(points))
	for userID, p := range points {
		name := "Unknown"
		if user, err := s.users.Get(ctx, userID); err == nil && user.DisplayName != "" {
			name = user.DisplayName
		}
		entries = append(entries, LeaderboardEntry{
			UserID:      userID,
			DisplayName: name,
			Points:      p,
			Duels:       played[userID],
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].UserID < entries[j].UserID
	})

	s.toCache(ctx, classroomID, entries)
	return entries, nil
}

func leaderboardKey(classroomID string) string {
	return "leaderboard:" + classroomID
}

func (s *LeaderboardService) fromCache(ctx context.Context, classroomID string) ([]LeaderboardEntry, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, leaderboardKey(classroomID)).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		s.log.Warn("leaderboard cache read failed", zap.Error(err))
		return nil, false
	}
	var entries []LeaderboardEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, false
	}
	return entries, true
}

func (s *LeaderboardService) toCache(ctx context.Context, classroomID string, entries []LeaderboardEntry) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, leaderboardKey(classroomID), raw, leaderboardTTL).Err(); err != nil {
		s.log.Warn("leaderboard cache write failed", zap.Error(err))
	}
}
