package state

import "sort"

// History is the cross-community set of problem identifiers already handed out.
type History struct {
	ids map[string]struct{}
}

func NewHistory(ids ...string) *History {
	h := &History{ids: make(map[string]struct{}, len(ids))}
	h.Add(ids...)
	return h
}

func (h *History) Contains(id string) bool {
	_, ok := h.ids[id]
	return ok
}

func (h *History) Add(ids ...string) {
	for _, id := range ids {
		h.ids[id] = struct{}{}
	}
}

func (h *History) Remove(ids ...string) {
	for _, id := range ids {
		delete(h.ids, id)
	}
}

func (h *History) Len() int {
	return len(h.ids)
}

// Slice returns the identifiers sorted, for persistence.
func (h *History) Slice() []string {
	out := make([]string, 0, len(h.ids))
	for id := range h.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
