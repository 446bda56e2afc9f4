package commands

import (
	"fmt"
	"strings"

	"dailydsa/model"
)

func mention(userID string) string {
	return "<@" + userID + ">"
}

// DailyEmbed renders a daily set. Sets from an earlier day are labelled as current.
func DailyEmbed(set model.DailySet, today string) *Embed {
	title := "Today's DSA Challenge"
	if set.Date != "" && set.Date != today {
		title = "Current DSA Challenge"
	}
	if set.Date != "" {
		title += " (" + set.Date + ")"
	}

	fields := make([]Field, 0, len(set.Problems))
	for i, p := range set.Problems {
		value := "<" + p.URL + ">"
		if len(p.Topics) > 0 {
			value += "\n" + strings.Join(p.Topics, ", ")
		}
		fields = append(fields, Field{
			Name:  fmt.Sprintf("%d. %s (%s, +%d)", i+1, p.Title, p.Difficulty, p.Difficulty.Points()),
			Value: value,
		})
	}
	return &Embed{Title: title, Fields: fields}
}

// LeaderboardEmbed renders the top entries, appending the requester's own
// position when it falls outside them.
func LeaderboardEmbed(ranked []model.LeaderboardEntry, requester string, top int) *Embed {
	var b strings.Builder
	for i, e := range ranked {
		if i < top {
			fmt.Fprintf(&b, "%d. %s: %d pts\n", i+1, mention(e.UserID), e.Score)
			continue
		}
		if e.UserID == requester {
			fmt.Fprintf(&b, "...\n%d. %s: %d pts\n", i+1, mention(e.UserID), e.Score)
			break
		}
	}
	return &Embed{
		Title:       "Leaderboard",
		Description: strings.TrimRight(b.String(), "\n"),
	}
}
