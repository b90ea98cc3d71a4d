package stats

// orderedMap keeps insertion order so grouped output lists keys the way they
// first appeared in the record list.
type orderedMap[K comparable, V any] struct {
	index map[K]int
	keys  []K
	vals  []V
}

func newOrderedMap[K comparable, V any]() *orderedMap[K, V] {
	return &orderedMap[K, V]{index: make(map[K]int)}
}

// upsert returns a pointer to the value for k, adding a zero value on first sight.
// The pointer is only valid until the next upsert.
func (m *orderedMap[K, V]) upsert(k K) *V {
	i, ok := m.index[k]
	if !ok {
		var zero V
		i = len(m.keys)
		m.index[k] = i
		m.keys = append(m.keys, k)
		m.vals = append(m.vals, zero)
	}
	return &m.vals[i]
}

func (m *orderedMap[K, V]) len() int {
	return len(m.keys)
}

func (m *orderedMap[K, V]) each(fn func(K, *V)) {
	for i, k := range m.keys {
		fn(k, &m.vals[i])
	}
}
