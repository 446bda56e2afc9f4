package state

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dailydsa/model"
)

func TestLeaderboardRankTieOrder(t *testing.T) {
	lb := NewLeaderboard()
	lb.Add("u1", 30)
	lb.Add("u2", 30)
	lb.Add("u3", 10)

	assert.Equal(t, []model.LeaderboardEntry{
		{UserID: "u1", Score: 30},
		{UserID: "u2", Score: 30},
		{UserID: "u3", Score: 10},
	}, lb.Rank())
}

func TestLeaderboardTieOrderFromSnapshot(t *testing.T) {
	lb := NewLeaderboard(
		model.LeaderboardEntry{UserID: "late", Score: 5},
		model.LeaderboardEntry{UserID: "b", Score: 20},
		model.LeaderboardEntry{UserID: "a", Score: 20},
	)
	rank := lb.Rank()
	assert.Equal(t, "b", rank[0].UserID)
	assert.Equal(t, "a", rank[1].UserID)
	assert.Equal(t, "late", rank[2].UserID)
}

func TestLeaderboardPenalizeFloor(t *testing.T) {
	lb := NewLeaderboard()
	lb.Add("u1", 1)

	assert.Equal(t, 0, lb.Penalize("u1", 2))
	assert.Equal(t, 0, lb.Penalize("ghost", 2))

	_, tracked := lb.Score("ghost")
	assert.False(t, tracked)
}

func TestLedgerPrune(t *testing.T) {
	l := NewLedger()
	l.MarkDone("u1", "a")
	l.MarkDone("u1", "b")
	l.MarkDone("u2", "a")

	assert.True(t, l.Prune("a"))
	assert.False(t, l.Done("u1", "a"))
	assert.True(t, l.Done("u1", "b"))
	assert.NotContains(t, l.Map(), "u2")
	assert.False(t, l.Prune("zzz"))
}

func TestLedgerFromMapSkipsFalse(t *testing.T) {
	l := LedgerFromMap(map[string]map[string]bool{"u1": {"a": true, "b": false}})
	assert.True(t, l.Done("u1", "a"))
	assert.Equal(t, map[string]map[string]bool{"u1": {"a": true}}, l.Map())
}

func TestHistory(t *testing.T) {
	h := NewHistory("b", "a")
	h.Add("c")
	h.Remove("b")

	assert.True(t, h.Contains("a"))
	assert.False(t, h.Contains("b"))
	assert.Equal(t, []string{"a", "c"}, h.Slice())
}

func TestActivityFor(t *testing.T) {
	s := New()
	a := s.ActivityFor("u1")
	a.LastDone = "2024-01-01"
	assert.Equal(t, "2024-01-01", s.Activity["u1"].LastDone)
}

func TestLeaderboardRemoveKeepsOrder(t *testing.T) {
	lb := NewLeaderboard()
	lb.Add("u1", 10)
	lb.Add("u2", 10)
	lb.Add("u3", 10)

	lb.Remove("u2")
	lb.Remove("nobody")
	assert.Equal(t, []model.LeaderboardEntry{
		{UserID: "u1", Score: 10},
		{UserID: "u3", Score: 10},
	}, lb.Rank())

	lb.Add("u3", 5)
	score, ok := lb.Score("u3")
	assert.True(t, ok)
	assert.Equal(t, 15, score)
}

func TestLedgerUnmark(t *testing.T) {
	l := NewLedger()
	l.MarkDone("u1", "a")
	l.MarkDone("u1", "b")

	l.Unmark("u1", "a")
	assert.False(t, l.Done("u1", "a"))
	assert.True(t, l.Done("u1", "b"))

	l.Unmark("u1", "b")
	assert.Empty(t, l.Map())
}
