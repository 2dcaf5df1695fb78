package pipeline

import (
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
)

// ErrNoPipeline is returned by Select when no registered pipeline
// supports the requested capability pair.
var ErrNoPipeline = errors.New("no pipeline for capability pair")

// Registry holds pipeline variants keyed by ID and resolves the best
// candidate for a capability pair. Safe for concurrent use.
type Registry[In, Out any] struct {
	mu        sync.RWMutex
	pipelines map[string]Pipeline[In, Out]
}

func NewRegistry[In, Out any]() *Registry[In, Out] {
	return &Registry[In, Out]{
		pipelines: make(map[string]Pipeline[In, Out]),
	}
}

// Register adds a pipeline variant. Duplicate IDs are an error so a
// misconfigured bootstrap fails loudly instead of shadowing a variant.
func (r *Registry[In, Out]) Register(p Pipeline[In, Out]) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.pipelines[p.ID()]; exists {
		return errors.Newf("pipeline %q already registered", p.ID())
	}
	r.pipelines[p.ID()] = p
	return nil
}

// Get looks up a pipeline by its registry key.
func (r *Registry[In, Out]) Get(id string) (Pipeline[In, Out], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pipelines[id]
	return p, ok
}

// Select returns the registered pipeline that supports the capability
// pair, ranked by priority descending. Ties break on ID so selection
// stays deterministic across restarts.
func (r *Registry[In, Out]) Select(in, out Capability) (Pipeline[In, Out], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var candidates []Pipeline[In, Out]
	for _, p := range r.pipelines {
		if p.Supports(in, out) {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return nil, errors.Wrapf(ErrNoPipeline, "%s -> %s", in, out)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Priority() != candidates[j].Priority() {
			return candidates[i].Priority() > candidates[j].Priority()
		}
		return candidates[i].ID() < candidates[j].ID()
	})
	return candidates[0], nil
}

// List describes all registered pipelines, sorted by ID.
func (r *Registry[In, Out]) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]Info, 0, len(r.pipelines))
	for _, p := range r.pipelines {
		infos = append(infos, describe(p))
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// describe probes the known capability tags to report what a pipeline
// handles without extending the contract.
func describe[In, Out any](p Pipeline[In, Out]) Info {
	info := Info{ID: p.ID(), Priority: p.Priority()}
	caps := []Capability{CapGitHubIssue, CapFirestoreDocument}
	for _, in := range caps {
		for _, out := range caps {
			if p.Supports(in, out) {
				info.Input = in
				info.Output = out
				return info
			}
		}
	}
	return info
}
