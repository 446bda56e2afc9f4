package catalog

import (
	"sort"

	"dailydsa/model"
	"dailydsa/utils"
)

// Catalog is the read-only problem table. The zero value is empty.
type Catalog struct {
	problems     []model.Problem
	byID         map[string]int
	difficulties map[model.Difficulty]bool
	topics       map[string]bool
}

// New builds a catalog from problems, keeping the first of any duplicate titles.
func New(problems []model.Problem) *Catalog {
	c := &Catalog{
		byID:         make(map[string]int, len(problems)),
		difficulties: make(map[model.Difficulty]bool),
		topics:       make(map[string]bool),
	}
	for _, p := range problems {
		p.ID = utils.NormalizeTitle(p.Title)
		if p.ID == "" {
			continue
		}
		if _, dup := c.byID[p.ID]; dup {
			continue
		}
		topics := make([]string, 0, len(p.Topics))
		for _, t := range p.Topics {
			if t = utils.NormalizeTopic(t); t != "" {
				topics = append(topics, t)
				c.topics[t] = true
			}
		}
		p.Topics = topics
		c.byID[p.ID] = len(c.problems)
		c.problems = append(c.problems, p)
		c.difficulties[p.Difficulty] = true
	}
	return c
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.problems)
}

// All returns the problems in load order. Callers must not modify the slice.
func (c *Catalog) All() []model.Problem {
	if c == nil {
		return nil
	}
	return c.problems
}

// Lookup finds a problem by title or identifier, ignoring case.
func (c *Catalog) Lookup(title string) (model.Problem, bool) {
	if c == nil {
		return model.Problem{}, false
	}
	i, ok := c.byID[utils.NormalizeTitle(title)]
	if !ok {
		return model.Problem{}, false
	}
	return c.problems[i], true
}

func (c *Catalog) HasDifficulty(d model.Difficulty) bool {
	return c != nil && c.difficulties[d]
}

// Difficulties returns the difficulties present, easiest first.
func (c *Catalog) Difficulties() []model.Difficulty {
	if c == nil {
		return nil
	}
	out := make([]model.Difficulty, 0, len(c.difficulties))
	for d := range c.difficulties {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Points() < out[j].Points() ||
			(out[i].Points() == out[j].Points() && out[i] < out[j])
	})
	return out
}

func (c *Catalog) HasTopic(topic string) bool {
	return c != nil && c.topics[utils.NormalizeTopic(topic)]
}

// Topics returns the sorted topic vocabulary.
func (c *Catalog) Topics() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.topics))
	for t := range c.topics {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
