package statistic

import "FlowTagger/internal/model"

// Entry is a single key and its count.
type Entry[K comparable] struct {
	Key   K
	Count uint64
}

// Tally counts occurrences per key and remembers the order in which keys were first seen.
type Tally[K comparable] struct {
	counts map[K]uint64
	order  []K
	total  uint64
}

// NewTally creates an empty tally.
func NewTally[K comparable]() *Tally[K] {
	return &Tally[K]{counts: make(map[K]uint64)}
}

// Inc adds one to the count for key.
func (t *Tally[K]) Inc(key K) {
	t.Add(key, 1)
}

// Add adds n to the count for key. Adding zero to an unseen key does not register it.
func (t *Tally[K]) Add(key K, n uint64) {
	if n == 0 {
		return
	}
	if _, ok := t.counts[key]; !ok {
		t.order = append(t.order, key)
	}
	t.counts[key] += n
	t.total += n
}

// Get returns the count for key, zero if it was never seen.
func (t *Tally[K]) Get(key K) uint64 {
	return t.counts[key]
}

// Len returns the number of distinct keys.
func (t *Tally[K]) Len() int {
	return len(t.order)
}

// Total returns the sum of all counts.
func (t *Tally[K]) Total() uint64 {
	return t.total
}

// Entries returns the counts in first-seen order.
func (t *Tally[K]) Entries() []Entry[K] {
	entries := make([]Entry[K], len(t.order))
	for i, k := range t.order {
		entries[i] = Entry[K]{Key: k, Count: t.counts[k]}
	}
	return entries
}

// Counts returns a copy of the counts as a plain map.
func (t *Tally[K]) Counts() map[K]uint64 {
	counts := make(map[K]uint64, len(t.counts))
	for k, v := range t.counts {
		counts[k] = v
	}
	return counts
}

// Clone returns an independent copy of the tally.
func (t *Tally[K]) Clone() *Tally[K] {
	order := make([]K, len(t.order))
	copy(order, t.order)
	return &Tally[K]{counts: t.Counts(), order: order, total: t.total}
}

// Merge sums other into t key by key. Keys new to t are appended in other's order.
func (t *Tally[K]) Merge(other *Tally[K]) {
	if other == nil {
		return
	}
	for _, k := range other.order {
		t.Add(k, other.counts[k])
	}
}

// SnapshotData represents the full result of a single aggregator.
// This is the data structure returned by the Report() method.
type SnapshotData struct {
	Name           string
	Records        uint64
	ByTag          *Tally[string]
	ByPortProtocol *Tally[model.PortProtocol]
}
