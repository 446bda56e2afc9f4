package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap/zapcore"

	"dailydsa/errs"
	"dailydsa/model"
	"dailydsa/selector"
	"dailydsa/state"
)

// RunSelection draws a fresh set for the community and replaces its current
// assignment. On ErrNoCandidates the previous assignment is left untouched.
func (s *BotService) RunSelection(ctx context.Context, communityID string) (model.DailySet, error) {
	traceID := uuid.New().String()
	s.logger.Log(zapcore.InfoLevel, traceID, "Starting RunSelection", map[string]any{
		"method":      "RunSelection",
		"communityId": communityID,
	}, component, nil)

	if err := s.requireCatalog(); err != nil {
		return model.DailySet{}, err
	}
	cfg, ok := s.state.Configs[communityID]
	if !ok {
		return model.DailySet{}, fmt.Errorf("%w, %s", errs.ErrNotConfigured, communityID)
	}

	set, ledgerChanged, err := s.selectAndAssign(traceID, cfg)
	if err != nil {
		return model.DailySet{}, err
	}

	records := []string{state.RecordAssignments, state.RecordHistory}
	if ledgerChanged {
		records = append(records, state.RecordLedger)
	}
	if err := s.persist(ctx, traceID, "RunSelection", records...); err != nil {
		return set, err
	}

	s.logger.Log(zapcore.InfoLevel, traceID, "Daily set assigned", map[string]any{
		"method":      "RunSelection",
		"communityId": communityID,
		"problems":    len(set.Problems),
		"date":        set.Date,
	}, component, nil)
	return set, nil
}

// selectAndAssign runs the selector and applies the result in memory only.
func (s *BotService) selectAndAssign(traceID string, cfg model.CommunityConfig) (model.DailySet, bool, error) {
	picked, err := selector.SelectDaily(cfg, s.catalog.All(), s.state.History, s.rng)
	if err != nil {
		s.logger.Log(zapcore.WarnLevel, traceID, "Selection produced no problems", map[string]any{
			"method":      "RunSelection",
			"communityId": cfg.CommunityID,
			"errorType":   errs.Type(err),
		}, component, err)
		return model.DailySet{}, false, err
	}

	ids := make([]string, len(picked))
	for i, p := range picked {
		ids[i] = p.ID
	}

	ledgerChanged := false
	if prev, ok := s.state.Assignments[cfg.CommunityID]; ok {
		ledgerChanged = s.state.Ledger.Prune(prev.ProblemIDs...)
	}

	assignment := model.Assignment{
		CommunityID: cfg.CommunityID,
		Date:        s.Today(),
		ProblemIDs:  ids,
		CreatedAt:   s.now().UTC(),
	}
	s.state.Assignments[cfg.CommunityID] = assignment
	s.state.History.Add(ids...)

	return s.resolve(assignment), ledgerChanged, nil
}

// GenerateDaily runs a selection for every configured community that has no
// assignment for today yet, returning the sets that were produced.
func (s *BotService) GenerateDaily(ctx context.Context) ([]model.DailySet, error) {
	traceID := uuid.New().String()
	today := s.Today()

	if err := s.requireCatalog(); err != nil {
		s.logger.Log(zapcore.ErrorLevel, traceID, "Skipping daily generation", map[string]any{
			"method":    "GenerateDaily",
			"errorType": errs.Type(err),
		}, component, err)
		return nil, err
	}

	var (
		sets   []model.DailySet
		failed []error
	)
	for _, communityID := range s.Communities() {
		if a, ok := s.state.Assignments[communityID]; ok && a.Date == today {
			continue
		}
		set, err := s.RunSelection(ctx, communityID)
		if err != nil {
			failed = append(failed, fmt.Errorf("community %s: %w", communityID, err))
		}
		// an unsaved set is still today's assignment and must be announced
		if len(set.Problems) > 0 {
			sets = append(sets, set)
		}
	}

	s.logger.Log(zapcore.InfoLevel, traceID, "Daily generation finished", map[string]any{
		"method":    "GenerateDaily",
		"date":      today,
		"generated": len(sets),
		"failed":    len(failed),
	}, component, nil)
	return sets, errors.Join(failed...)
}

// DeleteToday clears the community's current assignment. History is kept so
// the deleted problems are not handed out again.
func (s *BotService) DeleteToday(ctx context.Context, communityID string) (bool, error) {
	traceID := uuid.New().String()
	a, ok := s.state.Assignments[communityID]
	if !ok {
		return false, nil
	}

	delete(s.state.Assignments, communityID)
	records := []string{state.RecordAssignments}
	if s.state.Ledger.Prune(a.ProblemIDs...) {
		records = append(records, state.RecordLedger)
	}

	s.logger.Log(zapcore.InfoLevel, traceID, "Assignment deleted", map[string]any{
		"method":      "DeleteToday",
		"communityId": communityID,
		"problems":    len(a.ProblemIDs),
	}, component, nil)
	return true, s.persist(ctx, traceID, "DeleteToday", records...)
}
