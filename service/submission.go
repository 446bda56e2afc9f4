package service

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap/zapcore"

	"dailydsa/errs"
	"dailydsa/model"
	"dailydsa/state"
	"dailydsa/utils"
)

// Submit marks title as completed by the user. Only the first valid
// submission of a problem scores; NotToday, AlreadyDone and UnknownProblem
// leave the state untouched. The returned error is reserved for an
// unavailable catalog or a failed write; a failed write is rolled back so
// the user can submit again.
func (s *BotService) Submit(ctx context.Context, userID, communityID, title string) (model.Outcome, error) {
	traceID := uuid.New().String()
	if err := s.requireCatalog(); err != nil {
		return model.Outcome{}, err
	}

	id := utils.NormalizeTitle(title)
	assignment, ok := s.state.Assignments[communityID]
	if !ok || !assignment.Contains(id) {
		return s.reject(traceID, userID, communityID, title, model.OutcomeNotToday, model.Problem{}), nil
	}

	problem, ok := s.catalog.Lookup(id)
	if !ok {
		return s.reject(traceID, userID, communityID, title, model.OutcomeUnknownProblem, model.Problem{}), nil
	}

	if s.state.Ledger.Done(userID, problem.ID) {
		return s.reject(traceID, userID, communityID, title, model.OutcomeAlreadyDone, problem), nil
	}

	points := problem.Difficulty.Points()
	_, ranked := s.state.Leaderboard.Score(userID)
	prevActivity, active := s.state.Activity[userID]
	var prevLastDone string
	if active {
		prevLastDone = prevActivity.LastDone
	}

	s.state.Ledger.MarkDone(userID, problem.ID)
	total := s.state.Leaderboard.Add(userID, points)
	s.state.ActivityFor(userID).LastDone = s.Today()

	outcome := model.Outcome{
		Kind:    model.OutcomeScored,
		Problem: problem,
		Points:  points,
		Total:   total,
	}

	s.logger.Log(zapcore.InfoLevel, traceID, "Submission scored", map[string]any{
		"method":      "Submit",
		"userId":      userID,
		"communityId": communityID,
		"problemId":   problem.ID,
		"points":      points,
		"total":       total,
	}, component, nil)

	if err := s.persist(ctx, traceID, "Submit", state.RecordLedger, state.RecordLeaderboard, state.RecordActivity); err != nil {
		s.state.Ledger.Unmark(userID, problem.ID)
		if ranked {
			s.state.Leaderboard.Add(userID, -points)
		} else {
			s.state.Leaderboard.Remove(userID)
		}
		if active {
			prevActivity.LastDone = prevLastDone
		} else {
			delete(s.state.Activity, userID)
		}
		s.logger.Log(zapcore.WarnLevel, traceID, "Submission rolled back", map[string]any{
			"method":    "Submit",
			"userId":    userID,
			"problemId": problem.ID,
			"errorType": errs.Type(err),
		}, component, err)
		return model.Outcome{}, err
	}
	return outcome, nil
}

// SubmitByIndex resolves a 1-based position in today's set, numbered the way
// Daily lists it, and submits it.
func (s *BotService) SubmitByIndex(ctx context.Context, userID, communityID string, n int) (model.Outcome, error) {
	if err := s.requireCatalog(); err != nil {
		return model.Outcome{}, err
	}
	assignment, ok := s.state.Assignments[communityID]
	if !ok {
		return model.Outcome{Kind: model.OutcomeNotToday}, nil
	}
	shown := s.resolve(assignment).Problems
	if n < 1 || n > len(shown) {
		return model.Outcome{Kind: model.OutcomeNotToday}, nil
	}
	return s.Submit(ctx, userID, communityID, shown[n-1].ID)
}

func (s *BotService) reject(traceID, userID, communityID, title string, kind model.OutcomeKind, p model.Problem) model.Outcome {
	s.logger.Log(zapcore.InfoLevel, traceID, "Submission not scored", map[string]any{
		"method":      "Submit",
		"userId":      userID,
		"communityId": communityID,
		"title":       title,
		"outcome":     kind.String(),
	}, component, nil)
	return model.Outcome{Kind: kind, Problem: p}
}

// Rank returns the leaderboard, highest score first.
func (s *BotService) Rank() []model.LeaderboardEntry {
	return s.state.Leaderboard.Rank()
}

// ApplyIdlePenalties takes IdlePenalty points from every participant who has
// not completed anything on today. Users who never completed a problem are
// exempt, and a user is penalised at most once per day.
func (s *BotService) ApplyIdlePenalties(ctx context.Context, today string) ([]string, error) {
	traceID := uuid.New().String()

	users := make([]string, 0, len(s.state.Activity))
	for user := range s.state.Activity {
		users = append(users, user)
	}
	sort.Strings(users)

	var penalized []string
	for _, user := range users {
		a := s.state.Activity[user]
		if a.LastDone == today || a.LastPenalized == today {
			continue
		}
		s.state.Leaderboard.Penalize(user, IdlePenalty)
		a.LastPenalized = today
		penalized = append(penalized, user)
	}

	s.logger.Log(zapcore.InfoLevel, traceID, "Idle penalties applied", map[string]any{
		"method":    "ApplyIdlePenalties",
		"date":      today,
		"penalized": len(penalized),
	}, component, nil)

	if len(penalized) == 0 {
		return nil, nil
	}
	return penalized, s.persist(ctx, traceID, "ApplyIdlePenalties", state.RecordLeaderboard, state.RecordActivity)
}
