package state

import (
	"sort"

	"dailydsa/model"
)

// Leaderboard keeps scores in first-seen order so ties rank stably.
type Leaderboard struct {
	entries []model.LeaderboardEntry
	index   map[string]int
}

func NewLeaderboard(entries ...model.LeaderboardEntry) *Leaderboard {
	lb := &Leaderboard{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		if _, dup := lb.index[e.UserID]; dup {
			continue
		}
		if e.Score < 0 {
			e.Score = 0
		}
		lb.index[e.UserID] = len(lb.entries)
		lb.entries = append(lb.entries, e)
	}
	return lb
}

// entry returns the user's entry, inserting a zero score when absent.
func (lb *Leaderboard) entry(userID string) *model.LeaderboardEntry {
	i, ok := lb.index[userID]
	if !ok {
		i = len(lb.entries)
		lb.index[userID] = i
		lb.entries = append(lb.entries, model.LeaderboardEntry{UserID: userID})
	}
	return &lb.entries[i]
}

func (lb *Leaderboard) Score(userID string) (int, bool) {
	i, ok := lb.index[userID]
	if !ok {
		return 0, false
	}
	return lb.entries[i].Score, true
}

// Add credits points and returns the new total.
func (lb *Leaderboard) Add(userID string, points int) int {
	e := lb.entry(userID)
	e.Score += points
	return e.Score
}

// Penalize subtracts n, never going below zero. Unknown users are left out.
func (lb *Leaderboard) Penalize(userID string, n int) int {
	i, ok := lb.index[userID]
	if !ok {
		return 0
	}
	e := &lb.entries[i]
	e.Score = max(0, e.Score-n)
	return e.Score
}

// Remove drops the user's entry; the remaining users keep their order.
func (lb *Leaderboard) Remove(userID string) {
	i, ok := lb.index[userID]
	if !ok {
		return
	}
	lb.entries = append(lb.entries[:i], lb.entries[i+1:]...)
	delete(lb.index, userID)
	for j := i; j < len(lb.entries); j++ {
		lb.index[lb.entries[j].UserID] = j
	}
}

// Rank orders users by score, highest first; ties keep first-seen order.
func (lb *Leaderboard) Rank() []model.LeaderboardEntry {
	out := lb.Entries()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// Entries returns a copy in insertion order.
func (lb *Leaderboard) Entries() []model.LeaderboardEntry {
	out := make([]model.LeaderboardEntry, len(lb.entries))
	copy(out, lb.entries)
	return out
}

func (lb *Leaderboard) Len() int {
	return len(lb.entries)
}
