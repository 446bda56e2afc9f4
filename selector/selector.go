package selector

import (
	"fmt"
	"math/rand/v2"

	"dailydsa/errs"
	"dailydsa/model"
	"dailydsa/utils"
)

// History is the anti-repeat set consulted during selection.
type History interface {
	Contains(id string) bool
}

// SelectDaily filters problems by the community's difficulties and topics,
// drops anything already in history and draws up to cfg.QuestionCount of the
// rest uniformly without replacement.
func SelectDaily(cfg model.CommunityConfig, problems []model.Problem, history History, rng *rand.Rand) ([]model.Problem, error) {
	candidates := Candidates(cfg, problems, history)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w, community %s", errs.ErrNoCandidates, cfg.CommunityID)
	}

	n := min(cfg.QuestionCount, len(candidates))
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	return candidates[:n], nil
}

// Candidates returns the problems eligible for cfg, in catalog order.
func Candidates(cfg model.CommunityConfig, problems []model.Problem, history History) []model.Problem {
	difficulties := make(map[model.Difficulty]bool, len(cfg.Difficulties))
	for _, d := range cfg.Difficulties {
		difficulties[d] = true
	}

	var topics map[string]bool
	if !cfg.AcceptsAllTopics() {
		topics = make(map[string]bool, len(cfg.Topics))
		for _, t := range cfg.Topics {
			topics[utils.NormalizeTopic(t)] = true
		}
	}

	var out []model.Problem
	for _, p := range problems {
		if !difficulties[p.Difficulty] {
			continue
		}
		if topics != nil && !anyTopic(p.Topics, topics) {
			continue
		}
		if history != nil && history.Contains(p.ID) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func anyTopic(tags []string, accepted map[string]bool) bool {
	for _, tag := range tags {
		if accepted[utils.NormalizeTopic(tag)] {
			return true
		}
	}
	return false
}
