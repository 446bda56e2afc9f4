package state

import (
	"dailydsa/model"
)

// Record names of the persisted snapshots.
const (
	RecordLeaderboard = "leaderboard"
	RecordLedger      = "ledger"
	RecordAssignments = "assignments"
	RecordConfigs     = "configs"
	RecordHistory     = "history"
	RecordActivity    = "activity"
)

var Records = []string{
	RecordLeaderboard,
	RecordLedger,
	RecordAssignments,
	RecordConfigs,
	RecordHistory,
	RecordActivity,
}

// State owns every mutable structure of the bot. It is not safe for
// concurrent use; the service serialises access.
type State struct {
	History     *History
	Ledger      *Ledger
	Leaderboard *Leaderboard
	Activity    map[string]*model.UserActivity
	Assignments map[string]model.Assignment
	Configs     map[string]model.CommunityConfig
}

func New() *State {
	return &State{
		History:     NewHistory(),
		Ledger:      NewLedger(),
		Leaderboard: NewLeaderboard(),
		Activity:    make(map[string]*model.UserActivity),
		Assignments: make(map[string]model.Assignment),
		Configs:     make(map[string]model.CommunityConfig),
	}
}

// ActivityFor returns the user's activity record, inserting an empty one when absent.
func (s *State) ActivityFor(userID string) *model.UserActivity {
	a, ok := s.Activity[userID]
	if !ok {
		a = &model.UserActivity{}
		s.Activity[userID] = a
	}
	return a
}

// Snapshot returns the persisted form of a record.
func (s *State) Snapshot(record string) any {
	switch record {
	case RecordLeaderboard:
		return s.Leaderboard.Entries()
	case RecordLedger:
		return s.Ledger.Map()
	case RecordAssignments:
		return s.Assignments
	case RecordConfigs:
		return s.Configs
	case RecordHistory:
		return s.History.Slice()
	case RecordActivity:
		return s.Activity
	default:
		return nil
	}
}
