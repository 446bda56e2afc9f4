package state

// Ledger records which user completed which problem.
type Ledger struct {
	done map[string]map[string]bool
}

func NewLedger() *Ledger {
	return &Ledger{done: make(map[string]map[string]bool)}
}

// LedgerFromMap adopts a persisted user -> problem -> done mapping.
func LedgerFromMap(m map[string]map[string]bool) *Ledger {
	l := NewLedger()
	for user, problems := range m {
		for id, done := range problems {
			if done {
				l.userEntries(user)[id] = true
			}
		}
	}
	return l
}

func (l *Ledger) Done(userID, problemID string) bool {
	return l.done[userID][problemID]
}

// userEntries returns the user's completion map, inserting an empty one when absent.
func (l *Ledger) userEntries(userID string) map[string]bool {
	entries, ok := l.done[userID]
	if !ok {
		entries = make(map[string]bool)
		l.done[userID] = entries
	}
	return entries
}

func (l *Ledger) MarkDone(userID, problemID string) {
	l.userEntries(userID)[problemID] = true
}

// Unmark removes a single completion.
func (l *Ledger) Unmark(userID, problemID string) {
	entries, ok := l.done[userID]
	if !ok {
		return
	}
	delete(entries, problemID)
	if len(entries) == 0 {
		delete(l.done, userID)
	}
}

// Prune drops every user's entries for the given problems and reports
// whether anything changed.
func (l *Ledger) Prune(problemIDs ...string) bool {
	changed := false
	for user, entries := range l.done {
		for _, id := range problemIDs {
			if _, ok := entries[id]; ok {
				delete(entries, id)
				changed = true
			}
		}
		if len(entries) == 0 {
			delete(l.done, user)
		}
	}
	return changed
}

func (l *Ledger) Map() map[string]map[string]bool {
	out := make(map[string]map[string]bool, len(l.done))
	for user, entries := range l.done {
		cp := make(map[string]bool, len(entries))
		for id, done := range entries {
			cp[id] = done
		}
		out[user] = cp
	}
	return out
}
