package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap/zapcore"

	"dailydsa/errs"
	"dailydsa/model"
	"dailydsa/state"
	"dailydsa/utils"
)

type SetConfigRequest struct {
	CommunityID   string   `validate:"required"`
	QuestionCount int      `validate:"gt=0"`
	Difficulties  []string `validate:"min=1,dive,required"`
	Topics        []string `validate:"dive,required"`
	ChannelID     string   `validate:"required"`
}

// SetConfig validates and stores a community's configuration, frees its
// previous assignment and immediately selects a new one. When the new
// configuration matches nothing the config is still stored and the returned
// error wraps ErrNoCandidates.
func (s *BotService) SetConfig(ctx context.Context, req SetConfigRequest) (model.DailySet, error) {
	traceID := uuid.New().String()
	s.logger.Log(zapcore.InfoLevel, traceID, "Starting SetConfig", map[string]any{
		"method":        "SetConfig",
		"communityId":   req.CommunityID,
		"questionCount": req.QuestionCount,
		"difficulties":  req.Difficulties,
		"topics":        req.Topics,
	}, component, nil)

	if err := s.requireCatalog(); err != nil {
		return model.DailySet{}, err
	}

	cfg, err := s.buildConfig(req)
	if err != nil {
		s.logger.Log(zapcore.InfoLevel, traceID, "Rejected configuration", map[string]any{
			"method":      "SetConfig",
			"communityId": req.CommunityID,
			"errorType":   errs.Type(err),
		}, component, err)
		return model.DailySet{}, err
	}

	records := []string{state.RecordConfigs, state.RecordAssignments, state.RecordHistory}
	if prev, ok := s.state.Assignments[req.CommunityID]; ok {
		s.state.History.Remove(prev.ProblemIDs...)
		delete(s.state.Assignments, req.CommunityID)
		if s.state.Ledger.Prune(prev.ProblemIDs...) {
			records = append(records, state.RecordLedger)
		}
	}
	s.state.Configs[req.CommunityID] = cfg

	set, ledgerChanged, selErr := s.selectAndAssign(traceID, cfg)
	if ledgerChanged {
		records = append(records, state.RecordLedger)
	}
	if err := s.persist(ctx, traceID, "SetConfig", records...); err != nil {
		return set, err
	}
	if selErr != nil {
		return model.DailySet{}, selErr
	}

	s.logger.Log(zapcore.InfoLevel, traceID, "Configuration stored", map[string]any{
		"method":      "SetConfig",
		"communityId": req.CommunityID,
		"problems":    len(set.Problems),
	}, component, nil)
	return set, nil
}

func (s *BotService) buildConfig(req SetConfigRequest) (model.CommunityConfig, error) {
	if err := s.validate.Struct(req); err != nil {
		return model.CommunityConfig{}, translateValidation(err)
	}

	var difficulties []model.Difficulty
	seen := make(map[model.Difficulty]bool)
	for _, token := range req.Difficulties {
		d := model.Difficulty(utils.NormalizeDifficulty(token))
		if !s.catalog.HasDifficulty(d) {
			available := make([]string, 0, 3)
			for _, known := range s.catalog.Difficulties() {
				available = append(available, string(known))
			}
			return model.CommunityConfig{}, fmt.Errorf("%w, unknown difficulty %q (available: %s)",
				errs.ErrConfigValidation, token, strings.Join(available, ", "))
		}
		if !seen[d] {
			seen[d] = true
			difficulties = append(difficulties, d)
		}
	}

	var (
		topics  []string
		unknown []string
	)
	seenTopic := make(map[string]bool)
	for _, token := range req.Topics {
		t := utils.NormalizeTopic(token)
		if seenTopic[t] {
			continue
		}
		seenTopic[t] = true
		if t != model.AllTopics && !s.catalog.HasTopic(t) {
			unknown = append(unknown, token)
			continue
		}
		topics = append(topics, t)
	}
	if len(unknown) > 0 {
		return model.CommunityConfig{}, &errs.TopicError{Unknown: unknown, Valid: s.catalog.Topics()}
	}

	return model.CommunityConfig{
		CommunityID:   req.CommunityID,
		QuestionCount: req.QuestionCount,
		Difficulties:  difficulties,
		Topics:        topics,
		ChannelID:     req.ChannelID,
		UpdatedAt:     s.now().UTC(),
	}, nil
}

func translateValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w, %w", errs.ErrConfigValidation, err)
	}
	fe := verrs[0]
	// dive errors carry an index suffix, e.g. Difficulties[0]
	field := fe.StructField()
	switch {
	case strings.HasPrefix(field, "QuestionCount"):
		return fmt.Errorf("%w, question count must be a positive integer", errs.ErrConfigValidation)
	case strings.HasPrefix(field, "Difficulties"):
		return fmt.Errorf("%w, at least one difficulty is required", errs.ErrConfigValidation)
	case strings.HasPrefix(field, "Topics"):
		return fmt.Errorf("%w, topics cannot be empty", errs.ErrConfigValidation)
	default:
		return fmt.Errorf("%w, %s is %s", errs.ErrConfigValidation, strings.ToLower(fe.Field()), fe.Tag())
	}
}
