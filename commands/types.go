package commands

import (
	"context"

	"dailydsa/model"
	"dailydsa/service"
)

// Request is one chat message addressed to the bot.
type Request struct {
	CommunityID string `json:"community_id"`
	ChannelID   string `json:"channel_id"`
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name"`
	Content     string `json:"content"`
}

type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type Embed struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Fields      []Field `json:"fields,omitempty"`
}

// Reply is the rendered answer to a Request, or an unsolicited announcement.
type Reply struct {
	CommunityID string `json:"community_id"`
	ChannelID   string `json:"channel_id"`
	Text        string `json:"text,omitempty"`
	Embed       *Embed `json:"embed,omitempty"`
}

// Service is the subset of the bot service the commands need.
type Service interface {
	Today() string
	Daily(communityID string) (model.DailySet, bool, error)
	Submit(ctx context.Context, userID, communityID, title string) (model.Outcome, error)
	SubmitByIndex(ctx context.Context, userID, communityID string, n int) (model.Outcome, error)
	Rank() []model.LeaderboardEntry
	SetConfig(ctx context.Context, req service.SetConfigRequest) (model.DailySet, error)
	DeleteToday(ctx context.Context, communityID string) (bool, error)
	Topics() ([]string, error)
}
