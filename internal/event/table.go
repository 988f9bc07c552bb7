package event

// table maps kinds to their ordered subscriber lists.
//
// Lists are copy-on-write: add and remove always build a new slice, so a
// slice returned by get stays valid while handlers subscribe or unsubscribe
// during a dispatch. table is not synchronized; Emitter guards it.
type table struct {
	subs  map[*Kind][]any
	order []*Kind
}

func newTable() *table {
	return &table{
		subs: make(map[*Kind][]any),
	}
}

// add appends listener to kind's list unless it is already there.
// Returns true if the list changed.
func (t *table) add(kind *Kind, listener any) bool {
	old, exists := t.subs[kind]
	if !exists {
		t.subs[kind] = []any{listener}
		t.order = append(t.order, kind)
		return true
	}
	if indexOf(old, listener) >= 0 {
		return false
	}

	subs := make([]any, len(old)+1)
	copy(subs, old)
	subs[len(old)] = listener
	t.subs[kind] = subs
	return true
}

// remove deletes listener from kind's list and drops the kind entry when the
// list becomes empty. Returns true if the listener was found.
func (t *table) remove(kind *Kind, listener any) bool {
	old := t.subs[kind]
	idx := indexOf(old, listener)
	if idx < 0 {
		return false
	}

	if len(old) == 1 {
		delete(t.subs, kind)
		t.dropOrder(kind)
		return true
	}

	subs := make([]any, 0, len(old)-1)
	subs = append(subs, old[:idx]...)
	subs = append(subs, old[idx+1:]...)
	t.subs[kind] = subs
	return true
}

// get returns kind's subscriber list. The slice must not be modified.
func (t *table) get(kind *Kind) []any {
	return t.subs[kind]
}

// kinds returns a snapshot of the subscribed kinds in first-subscribed order.
func (t *table) kinds() []*Kind {
	out := make([]*Kind, len(t.order))
	copy(out, t.order)
	return out
}

// size returns the number of kinds and the total number of subscriptions.
func (t *table) size() (kinds, subscriptions int) {
	for _, subs := range t.subs {
		subscriptions += len(subs)
	}
	return len(t.subs), subscriptions
}

func (t *table) clear() {
	t.subs = make(map[*Kind][]any)
	t.order = nil
}

func (t *table) dropOrder(kind *Kind) {
	for i, k := range t.order {
		if k == kind {
			t.order = append(t.order[:i:i], t.order[i+1:]...)
			return
		}
	}
}

func indexOf(subs []any, listener any) int {
	for i, s := range subs {
		if s == listener {
			return i
		}
	}
	return -1
}
