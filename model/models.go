package model

import "time"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

const DefaultPoints = 10

// AllTopics disables topic filtering when present in a community's topics.
const AllTopics = "all"

// Points is the score awarded for a first-time completion.
func (d Difficulty) Points() int {
	switch d {
	case DifficultyEasy:
		return 10
	case DifficultyMedium:
		return 20
	case DifficultyHard:
		return 30
	default:
		return DefaultPoints
	}
}

// Problem is a catalog entry. ID is the lowercased title.
type Problem struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	URL        string     `json:"url"`
	Difficulty Difficulty `json:"difficulty"`
	Topics     []string   `json:"topics"`
}

type CommunityConfig struct {
	CommunityID   string       `json:"community_id"`
	QuestionCount int          `json:"question_count"`
	Difficulties  []Difficulty `json:"difficulties"`
	Topics        []string     `json:"topics"`
	ChannelID     string       `json:"channel_id"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// AcceptsAllTopics reports whether topic filtering is disabled.
func (c CommunityConfig) AcceptsAllTopics() bool {
	if len(c.Topics) == 0 {
		return true
	}
	for _, t := range c.Topics {
		if t == AllTopics {
			return true
		}
	}
	return false
}

// Assignment is the set of problems active for a community on Date.
type Assignment struct {
	CommunityID string    `json:"community_id"`
	Date        string    `json:"date"`
	ProblemIDs  []string  `json:"problem_ids"`
	CreatedAt   time.Time `json:"created_at"`
}

func (a Assignment) Contains(problemID string) bool {
	for _, id := range a.ProblemIDs {
		if id == problemID {
			return true
		}
	}
	return false
}

type LeaderboardEntry struct {
	UserID string `json:"user_id"`
	Score  int    `json:"score"`
}

// UserActivity drives the idle penalty sweep.
type UserActivity struct {
	LastDone      string `json:"last_done"`
	LastPenalized string `json:"last_penalized,omitempty"`
}

type OutcomeKind int

const (
	OutcomeScored OutcomeKind = iota
	OutcomeAlreadyDone
	OutcomeNotToday
	OutcomeUnknownProblem
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeScored:
		return "Scored"
	case OutcomeAlreadyDone:
		return "AlreadyDone"
	case OutcomeNotToday:
		return "NotToday"
	case OutcomeUnknownProblem:
		return "UnknownProblem"
	default:
		return "Unknown"
	}
}

// Outcome is the result of a submission. Points and Total are set for Scored.
type Outcome struct {
	Kind    OutcomeKind
	Problem Problem
	Points  int
	Total   int
}

// DailySet is an assignment resolved against the catalog, ready to display.
type DailySet struct {
	CommunityID string
	ChannelID   string
	Date        string
	Problems    []Problem
}
