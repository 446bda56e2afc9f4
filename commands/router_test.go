package commands

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailydsa/catalog"
	"dailydsa/model"
	"dailydsa/repository"
	"dailydsa/service"
)

var ist = time.FixedZone("IST", 5*3600+1800)

func testCatalog() *catalog.Catalog {
	return catalog.New([]model.Problem{
		{Title: "Two Sum", URL: "https://leetcode.com/problems/two-sum", Difficulty: model.DifficultyEasy, Topics: []string{"array"}},
		{Title: "Coin Change", URL: "https://leetcode.com/problems/coin-change", Difficulty: model.DifficultyMedium, Topics: []string{"dynamic programming"}},
		{Title: "Word Ladder", URL: "https://leetcode.com/problems/word-ladder", Difficulty: model.DifficultyHard, Topics: []string{"graph"}},
	})
}

func newRouter(t *testing.T, c *catalog.Catalog) (*Router, *service.BotService) {
	t.Helper()
	r, svc, _ := newRouterWithStore(t, c)
	return r, svc
}

func newRouterWithStore(t *testing.T, c *catalog.Catalog) (*Router, *service.BotService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	svc := service.NewService(service.Options{
		Store:    store,
		Catalog:  c,
		Location: ist,
		Clock:    func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, ist) },
		Rand:     rand.New(rand.NewPCG(7, 7)),
	})
	return NewRouter(svc, "!", "Sets reset at 12:00 AM IST.", nil), svc, store
}

func send(t *testing.T, r *Router, user, content string) Reply {
	t.Helper()
	reply, ok := r.Handle(context.Background(), Request{
		CommunityID: "guild-1",
		ChannelID:   "chan-1",
		UserID:      user,
		UserName:    user,
		Content:     content,
	})
	require.True(t, ok, "expected %q to be handled", content)
	return reply
}

func TestParse(t *testing.T) {
	r, _ := newRouter(t, testCatalog())

	verb, args, ok := r.Parse("  !SET_CONFIG 2 easy,medium array  ")
	require.True(t, ok)
	assert.Equal(t, "set_config", verb)
	assert.Equal(t, []string{"2", "easy,medium", "array"}, args)

	_, _, ok = r.Parse("hello there")
	assert.False(t, ok)
	_, _, ok = r.Parse("!")
	assert.False(t, ok)
}

func TestHandleIgnoresPlainMessages(t *testing.T) {
	r, _ := newRouter(t, testCatalog())
	_, ok := r.Handle(context.Background(), Request{Content: "good morning"})
	assert.False(t, ok)
}

func TestUnknownCommand(t *testing.T) {
	r, _ := newRouter(t, testCatalog())
	reply := send(t, r, "u1", "!dance")
	assert.Contains(t, reply.Text, "!help")
	assert.Equal(t, "chan-1", reply.ChannelID)
}

func TestHelpListsCommandsAndScoring(t *testing.T) {
	r, _ := newRouter(t, testCatalog())
	for _, verb := range []string{"!help", "!commands", "!info"} {
		reply := send(t, r, "u1", verb)
		require.NotNil(t, reply.Embed)
		last := reply.Embed.Fields[len(reply.Embed.Fields)-1]
		assert.Equal(t, "Scoring", last.Name)
		assert.Contains(t, last.Value, "Easy +10, Medium +20, Hard +30")
		assert.Contains(t, last.Value, "-2 pts")
		assert.Contains(t, last.Value, "12:00 AM IST")
	}
}

func TestDailyBeforeConfiguration(t *testing.T) {
	r, _ := newRouter(t, testCatalog())
	reply := send(t, r, "u1", "!daily")
	assert.Equal(t, "Questions not generated yet for today.", reply.Text)
}

func TestSetConfigThenDaily(t *testing.T) {
	r, _ := newRouter(t, testCatalog())

	reply := send(t, r, "admin", "!set_config 3 easy,medium,hard")
	require.NotNil(t, reply.Embed, reply.Text)
	assert.Contains(t, reply.Text, "Configuration saved: 3 question(s)")
	assert.Contains(t, reply.Text, "all topics")
	assert.Len(t, reply.Embed.Fields, 3)

	reply = send(t, r, "u1", "!show")
	require.NotNil(t, reply.Embed)
	assert.Equal(t, "Today's DSA Challenge (2024-05-01)", reply.Embed.Title)
	assert.Len(t, reply.Embed.Fields, 3)
	assert.True(t, strings.HasPrefix(reply.Embed.Fields[0].Name, "1. "))
}

func TestSetConfigErrors(t *testing.T) {
	r, _ := newRouter(t, testCatalog())

	reply := send(t, r, "admin", "!set_config three easy")
	assert.Equal(t, "Invalid configuration: question count must be a positive integer", reply.Text)

	reply = send(t, r, "admin", "!set_config 2")
	assert.Contains(t, reply.Text, "usage: !set_config")

	reply = send(t, r, "admin", "!set_config 1 easy trees")
	assert.Contains(t, reply.Text, "Unknown topic(s): trees")
	assert.Contains(t, reply.Text, "array, dynamic programming, graph")

	reply = send(t, r, "admin", "!set_config 1 easy graph")
	assert.Contains(t, reply.Text, "Configuration saved.")
	assert.Contains(t, reply.Text, "No problems left")
}

func TestSetConfigMultiWordTopics(t *testing.T) {
	r, svc := newRouter(t, testCatalog())

	reply := send(t, r, "admin", "!set_config 1 medium dynamic programming")
	require.NotNil(t, reply.Embed, reply.Text)
	assert.Contains(t, reply.Text, "dynamic programming")
	require.Len(t, reply.Embed.Fields, 1)
	assert.Contains(t, reply.Embed.Fields[0].Name, "Coin Change")

	cfg, ok := svc.Config("guild-1")
	require.True(t, ok)
	assert.Equal(t, []string{"dynamic programming"}, cfg.Topics)

	reply = send(t, r, "admin", "!set_config 3 easy,medium,hard array, Dynamic-Programming")
	require.NotNil(t, reply.Embed, reply.Text)
	assert.Len(t, reply.Embed.Fields, 2)

	cfg, _ = svc.Config("guild-1")
	assert.Equal(t, []string{"array", "dynamic programming"}, cfg.Topics)
}

func TestDoneAndSubmit(t *testing.T) {
	r, svc := newRouter(t, testCatalog())
	send(t, r, "admin", "!set_config 3 easy,medium,hard")
	set, ok, err := svc.Daily("guild-1")
	require.NoError(t, err)
	require.True(t, ok)

	first := set.Problems[0]
	reply := send(t, r, "u1", "!done 1")
	assert.Equal(t, fmt.Sprintf("<@u1> completed **%s** (+%d pts) - Total: %d",
		first.Title, first.Difficulty.Points(), first.Difficulty.Points()), reply.Text)

	reply = send(t, r, "u1", "!done 1")
	assert.Equal(t, fmt.Sprintf("You already completed **%s** today!", first.Title), reply.Text)

	reply = send(t, r, "u1", "!done 9")
	assert.Equal(t, "Invalid question number or daily not yet posted.", reply.Text)

	second := set.Problems[1]
	reply = send(t, r, "u1", "!submit "+strings.ToUpper(second.Title))
	assert.Contains(t, reply.Text, "completed **"+second.Title+"**")

	reply = send(t, r, "u1", "!done Reverse Linked List")
	assert.Equal(t, `"Reverse Linked List" is not part of today's set.`, reply.Text)

	reply = send(t, r, "u1", "!submit")
	assert.Contains(t, reply.Text, "usage: !submit <title>")
}

func TestLeaderboard(t *testing.T) {
	r, _ := newRouter(t, testCatalog())

	reply := send(t, r, "u1", "!leaderboard")
	assert.Equal(t, "No scores yet!", reply.Text)

	send(t, r, "admin", "!set_config 3 easy,medium,hard")
	send(t, r, "u1", "!done 1")
	send(t, r, "u2", "!done 1")
	send(t, r, "u2", "!done 2")

	reply = send(t, r, "u1", "!lb")
	require.NotNil(t, reply.Embed)
	lines := strings.Split(reply.Embed.Description, "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "1. <@u2>"))
	assert.True(t, strings.HasPrefix(lines[1], "2. <@u1>"))
}

func TestLeaderboardEmbedShowsRequesterOutsideTop(t *testing.T) {
	var ranked []model.LeaderboardEntry
	for i := 0; i < 12; i++ {
		ranked = append(ranked, model.LeaderboardEntry{UserID: fmt.Sprintf("u%d", i), Score: 100 - i})
	}

	embed := LeaderboardEmbed(ranked, "u11", 10)
	lines := strings.Split(embed.Description, "\n")
	require.Len(t, lines, 12)
	assert.Equal(t, "...", lines[10])
	assert.Equal(t, "12. <@u11>: 89 pts", lines[11])

	embed = LeaderboardEmbed(ranked, "u3", 10)
	assert.Len(t, strings.Split(embed.Description, "\n"), 10)
}

func TestDeleteToday(t *testing.T) {
	r, _ := newRouter(t, testCatalog())

	reply := send(t, r, "admin", "!delete_today")
	assert.Equal(t, "There is no active set to clear.", reply.Text)

	send(t, r, "admin", "!set_config 1 easy")
	reply = send(t, r, "admin", "!delete_today")
	assert.Equal(t, "Today's problems were cleared.", reply.Text)

	reply = send(t, r, "u1", "!daily")
	assert.Equal(t, "Questions not generated yet for today.", reply.Text)
}

func TestTopics(t *testing.T) {
	r, _ := newRouter(t, testCatalog())
	reply := send(t, r, "u1", "!topics")
	require.NotNil(t, reply.Embed)
	assert.Equal(t, "Topics (3)", reply.Embed.Title)
	assert.Equal(t, "array, dynamic programming, graph", reply.Embed.Description)
}

func TestCatalogUnavailable(t *testing.T) {
	r, _ := newRouter(t, nil)
	for _, content := range []string{"!daily", "!done 1", "!topics", "!set_config 1 easy"} {
		reply := send(t, r, "u1", content)
		assert.Equal(t, "Problem catalog is not loaded. Please try again later.", reply.Text, content)
	}
}

func TestDoneAfterFailedSaveCanBeRetried(t *testing.T) {
	r, svc, store := newRouterWithStore(t, testCatalog())
	send(t, r, "admin", "!set_config 1 easy")
	set, _, err := svc.Daily("guild-1")
	require.NoError(t, err)
	require.Len(t, set.Problems, 1)

	store.FailSaves = true
	reply := send(t, r, "u1", "!done 1")
	assert.Equal(t, "Could not save your changes right now. Please try again.", reply.Text)

	store.FailSaves = false
	reply = send(t, r, "u1", "!done 1")
	assert.Equal(t, "<@u1> completed **Two Sum** (+10 pts) - Total: 10", reply.Text)
}
