package internal

// AgingMap is a map whose entries carry a millisecond age that grows on every
// Tick and evicts the entry once it reaches ttlMS. It generalizes the
// teacher's generic lrucache.Cache[K,V] (github.com/soypat/lneto/internal/lrucache)
// from "evict on overflow" to "evict on elapsed time", which is the shape the
// ARP cache and pending-ARP-request tables need: both are driven by an
// explicit tick(ms) rather than a bounded ring of recent entries.
type AgingMap[K comparable, V any] struct {
	entries map[K]agingEntry[V]
}

type agingEntry[V any] struct {
	value V
	ageMS uint64
}

// NewAgingMap returns a ready-to-use AgingMap.
func NewAgingMap[K comparable, V any]() AgingMap[K, V] {
	return AgingMap[K, V]{entries: make(map[K]agingEntry[V])}
}

// Set inserts or replaces k's value and resets its age to zero.
func (m *AgingMap[K, V]) Set(k K, v V) {
	if m.entries == nil {
		m.entries = make(map[K]agingEntry[V])
	}
	m.entries[k] = agingEntry[V]{value: v}
}

// Get returns k's value and whether it is present.
func (m *AgingMap[K, V]) Get(k K) (v V, ok bool) {
	e, ok := m.entries[k]
	return e.value, ok
}

// Delete removes k unconditionally.
func (m *AgingMap[K, V]) Delete(k K) { delete(m.entries, k) }

// Len returns the number of live entries.
func (m *AgingMap[K, V]) Len() int { return len(m.entries) }

// Tick advances every entry's age by ms and evicts entries whose age reaches
// ttlMS, invoking onEvict for each one evicted.
func (m *AgingMap[K, V]) Tick(ms uint64, ttlMS uint64, onEvict func(K, V)) {
	for k, e := range m.entries {
		e.ageMS += ms
		if e.ageMS >= ttlMS {
			delete(m.entries, k)
			if onEvict != nil {
				onEvict(k, e.value)
			}
			continue
		}
		m.entries[k] = e
	}
}
