package metadata

import (
	"fmt"
	"sync"

	"github.com/EPOCHDevs/quantgraph-go/pkg/errs"
)

// Registry is the process-wide catalog of transform metadata. Registration
// takes the mutex's write lock and every read takes its read lock, so
// concurrent reads never block each other, matching the "write-once,
// read-many" lifecycle the compiler depends on.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]TransformMetaData

	// intradayOnly enumerates transform ids whose outputs are only defined
	// on intraday bars; consulted by the compiler's base-frequency inference.
	intradayOnly map[string]struct{}

	sealed bool
}

// NewRegistry returns an empty, writable registry.
func NewRegistry() *Registry {
	return &Registry{
		defs:         make(map[string]TransformMetaData),
		intradayOnly: make(map[string]struct{}),
	}
}

// Register adds metadata for a new transform type, failing if the id is
// already present or the registry has been sealed.
func (r *Registry) Register(md TransformMetaData) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return fmt.Errorf("metadata: registry is sealed, cannot register %q", md.ID)
	}
	if _, exists := r.defs[md.ID]; exists {
		return fmt.Errorf("%w: %q", errs.ErrDuplicateType, md.ID)
	}
	seenOptions := make(map[string]struct{}, len(md.Options))
	for _, o := range md.Options {
		if _, dup := seenOptions[o.ID]; dup {
			return fmt.Errorf("metadata: transform %q declares duplicate option id %q", md.ID, o.ID)
		}
		seenOptions[o.ID] = struct{}{}
	}
	seenOutputs := make(map[string]struct{}, len(md.Outputs))
	for _, o := range md.Outputs {
		if _, dup := seenOutputs[o.ID]; dup {
			return fmt.Errorf("metadata: transform %q declares duplicate output id %q", md.ID, o.ID)
		}
		seenOutputs[o.ID] = struct{}{}
	}

	r.defs[md.ID] = md
	if md.IntradayOnly {
		r.intradayOnly[md.ID] = struct{}{}
	}
	return nil
}

// Seal prevents any further Register calls, so the catalog no longer
// changes after it returns. Callers typically seal the registry at the end
// of process init, right after the code-registered factories and any YAML
// manifest have both run.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

// GetMetaData returns the metadata registered under id, if any.
func (r *Registry) GetMetaData(id string) (TransformMetaData, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	md, ok := r.defs[id]
	return md, ok
}

// IsValid reports whether id is a registered transform type.
func (r *Registry) IsValid(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.defs[id]
	return ok
}

// IsIntradayOnly reports whether id belongs to kIntradayOnlyIds.
func (r *Registry) IsIntradayOnly(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.intradayOnly[id]
	return ok
}

// List returns every registered transform id, in no particular order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.defs))
	for id := range r.defs {
		out = append(out, id)
	}
	return out
}
