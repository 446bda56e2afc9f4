package service

import (
	"context"
	crand "crypto/rand"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap/zapcore"

	"dailydsa/catalog"
	"dailydsa/errs"
	"dailydsa/logger"
	"dailydsa/model"
	"dailydsa/repository"
	"dailydsa/state"
)

const (
	component   = "SERVICE"
	dateLayout  = "2006-01-02"
	IdlePenalty = 2
)

type Options struct {
	Store    repository.Store
	Catalog  *catalog.Catalog
	Logger   *logger.Logger
	Location *time.Location
	Clock    func() time.Time
	Rand     *rand.Rand
}

// BotService owns the bot state and implements every command. It is not safe
// for concurrent use: callers run it on a Loop.
type BotService struct {
	store    repository.Store
	catalog  *catalog.Catalog
	state    *state.State
	logger   *logger.Logger
	loc      *time.Location
	now      func() time.Time
	rng      *rand.Rand
	validate *validator.Validate
}

func NewService(opts Options) *BotService {
	s := &BotService{
		store:    opts.Store,
		catalog:  opts.Catalog,
		state:    state.New(),
		logger:   opts.Logger,
		loc:      opts.Location,
		now:      opts.Clock,
		rng:      opts.Rand,
		validate: validator.New(),
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.logger == nil {
		s.logger = logger.NewNop()
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.rng == nil {
		s.rng = newSeededRand()
	}
	return s
}

func newSeededRand() *rand.Rand {
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		t := uint64(time.Now().UnixNano())
		return rand.New(rand.NewPCG(t, t>>1))
	}
	return rand.New(rand.NewChaCha8(seed))
}

// Today is the current date in the bot's timezone.
func (s *BotService) Today() string {
	return s.now().In(s.loc).Format(dateLayout)
}

func (s *BotService) CatalogLoaded() bool {
	return s.catalog != nil && s.catalog.Len() > 0
}

// ReplaceCatalog swaps in a freshly loaded catalog.
func (s *BotService) ReplaceCatalog(c *catalog.Catalog) {
	s.catalog = c
	s.logger.Log(zapcore.InfoLevel, "", "Catalog replaced", map[string]any{
		"method":   "ReplaceCatalog",
		"problems": c.Len(),
	}, component, nil)
}

func (s *BotService) requireCatalog() error {
	if !s.CatalogLoaded() {
		return errs.ErrCatalogUnavailable
	}
	return nil
}

// Hydrate loads every record from the store. Missing records start empty;
// unreadable or malformed records start empty and are logged.
func (s *BotService) Hydrate(ctx context.Context) {
	traceID := uuid.New().String()
	st := state.New()

	var entries []model.LeaderboardEntry
	if s.load(ctx, traceID, state.RecordLeaderboard, &entries) {
		st.Leaderboard = state.NewLeaderboard(entries...)
	}

	var ledger map[string]map[string]bool
	if s.load(ctx, traceID, state.RecordLedger, &ledger) {
		st.Ledger = state.LedgerFromMap(ledger)
	}

	var assignments map[string]model.Assignment
	if s.load(ctx, traceID, state.RecordAssignments, &assignments) && assignments != nil {
		st.Assignments = assignments
	}

	var configs map[string]model.CommunityConfig
	if s.load(ctx, traceID, state.RecordConfigs, &configs) && configs != nil {
		st.Configs = configs
	}

	var history []string
	if s.load(ctx, traceID, state.RecordHistory, &history) {
		st.History = state.NewHistory(history...)
	}

	var activity map[string]*model.UserActivity
	if s.load(ctx, traceID, state.RecordActivity, &activity) && activity != nil {
		for user, a := range activity {
			if a != nil {
				st.Activity[user] = a
			}
		}
	}

	// history must cover every live assignment
	for _, a := range st.Assignments {
		st.History.Add(a.ProblemIDs...)
	}

	s.state = st
	s.logger.Log(zapcore.InfoLevel, traceID, "State hydrated", map[string]any{
		"method":      "Hydrate",
		"users":       st.Leaderboard.Len(),
		"communities": len(st.Configs),
		"assignments": len(st.Assignments),
		"history":     st.History.Len(),
	}, component, nil)
}

func (s *BotService) load(ctx context.Context, traceID, record string, v any) bool {
	err := s.store.Load(ctx, record, v)
	if err == nil {
		return true
	}
	if errors.Is(err, errs.ErrRecordNotFound) {
		s.logger.Log(zapcore.InfoLevel, traceID, "Record not found, starting empty", map[string]any{
			"method": "Hydrate",
			"record": record,
		}, component, nil)
		return false
	}
	s.logger.Log(zapcore.WarnLevel, traceID, "Record unreadable, starting empty", map[string]any{
		"method":    "Hydrate",
		"record":    record,
		"errorType": errs.Type(err),
	}, component, err)
	return false
}

// persist writes the named records. Every record is attempted; the in-memory
// state stays authoritative when any of them fails.
func (s *BotService) persist(ctx context.Context, traceID, method string, records ...string) error {
	var failed []error
	for _, record := range records {
		if err := s.store.Save(ctx, record, s.state.Snapshot(record)); err != nil {
			s.logger.Log(zapcore.ErrorLevel, traceID, "Failed to persist record", map[string]any{
				"method":    method,
				"record":    record,
				"errorType": "STORAGE_ERROR",
			}, component, err)
			failed = append(failed, err)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("%w, %w", errs.ErrStorageIO, errors.Join(failed...))
	}
	return nil
}

// Config returns the community's configuration.
func (s *BotService) Config(communityID string) (model.CommunityConfig, bool) {
	cfg, ok := s.state.Configs[communityID]
	return cfg, ok
}

// Communities lists configured community ids, sorted.
func (s *BotService) Communities() []string {
	out := make([]string, 0, len(s.state.Configs))
	for id := range s.state.Configs {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// HistoryContains reports whether a problem has been handed out before.
func (s *BotService) HistoryContains(problemID string) bool {
	return s.state.History.Contains(problemID)
}

// Topics returns the catalog's topic vocabulary.
func (s *BotService) Topics() ([]string, error) {
	if err := s.requireCatalog(); err != nil {
		return nil, err
	}
	return s.catalog.Topics(), nil
}

// Daily resolves the community's current assignment. ok is false when the
// community has nothing assigned.
func (s *BotService) Daily(communityID string) (model.DailySet, bool, error) {
	if err := s.requireCatalog(); err != nil {
		return model.DailySet{}, false, err
	}
	a, ok := s.state.Assignments[communityID]
	if !ok {
		return model.DailySet{}, false, nil
	}
	return s.resolve(a), true, nil
}

func (s *BotService) resolve(a model.Assignment) model.DailySet {
	set := model.DailySet{
		CommunityID: a.CommunityID,
		ChannelID:   s.state.Configs[a.CommunityID].ChannelID,
		Date:        a.Date,
		Problems:    make([]model.Problem, 0, len(a.ProblemIDs)),
	}
	for _, id := range a.ProblemIDs {
		if p, ok := s.catalog.Lookup(id); ok {
			set.Problems = append(set.Problems, p)
		}
	}
	return set
}
