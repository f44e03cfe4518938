package engine

import (
	"sort"

	"depstack.dev/depstack/internal/store"
)

// EvictionResult lists what Evict removed
type EvictionResult struct {
	Metadata []string
	Edges    []store.Edge
}

// Removed reports whether anything was evicted.
func (r EvictionResult) Removed() bool {
	return len(r.Metadata) > 0 || len(r.Edges) > 0
}

// Evict drops metadata entries and edges whose child is neither live nor a root.
// Roots are never evicted. Running it twice with the same live set removes nothing
// the second time.
func Evict(d *store.Declarations, live []string) EvictionResult {
	keep := make(map[string]bool, len(live)+len(d.Roots))
	for _, b := range live {
		keep[b] = true
	}
	for _, r := range d.Roots {
		keep[r.Name] = true
	}

	var result EvictionResult
	for name := range d.Branches {
		if !keep[name] {
			result.Metadata = append(result.Metadata, name)
		}
	}
	sort.Strings(result.Metadata)
	for _, name := range result.Metadata {
		delete(d.Branches, name)
	}

	edges := d.Edges[:0]
	for _, e := range d.Edges {
		if keep[e.Child] {
			edges = append(edges, e)
			continue
		}
		result.Edges = append(result.Edges, e)
	}
	d.Edges = edges
	return result
}
