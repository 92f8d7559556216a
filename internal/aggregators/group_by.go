package aggregators

// Groups maps each key to its items. Keys lists the keys in first-seen order.
type Groups[K comparable, T any] struct {
	Keys  []K
	Items map[K][]T
}

// GroupBy partitions items by key, keeping the relative order of items inside each group.
func GroupBy[K comparable, T any](items []T, keyOf func(T) K) *Groups[K, T] {
	g := &Groups[K, T]{Items: make(map[K][]T)}
	for _, item := range items {
		k := keyOf(item)
		if _, ok := g.Items[k]; !ok {
			g.Keys = append(g.Keys, k)
		}
		g.Items[k] = append(g.Items[k], item)
	}
	return g
}

// Get returns the items of key k, or nil when k has none.
func (g *Groups[K, T]) Get(k K) []T {
	return g.Items[k]
}
