package report

import (
	"container/list"
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/EPOCHDevs/quantgraph-go/pkg/types"
)

// filterCache is a thread-safe LRU cache for compiled boolean filter
// expressions, so a table/dashboard rebuilt every run does not recompile
// the same row-selector expression on every invocation.
type filterCache struct {
	capacity int
	mu       sync.RWMutex
	entries  map[string]*list.Element
	order    *list.List
}

type filterCacheEntry struct {
	key     string
	program *vm.Program
}

func newFilterCache(capacity int) *filterCache {
	if capacity <= 0 {
		capacity = 100
	}
	return &filterCache{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

func (c *filterCache) get(expression string) (*vm.Program, bool) {
	// MoveToFront mutates the recency list, so a read takes the write lock.
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[expression]; ok {
		c.order.MoveToFront(el)
		return el.Value.(*filterCacheEntry).program, true
	}
	return nil, false
}

func (c *filterCache) put(expression string, program *vm.Program) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[expression]; ok {
		c.order.MoveToFront(el)
		el.Value.(*filterCacheEntry).program = program
		return
	}
	el := c.order.PushFront(&filterCacheEntry{key: expression, program: program})
	c.entries[expression] = el
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*filterCacheEntry).key)
		}
	}
}

// ExprRowFilter compiles and caches expr-lang boolean expressions used as
// table/dashboard row selectors, evaluated against one row's columns at a
// time via the "row" environment variable.
type ExprRowFilter struct {
	cache *filterCache
}

// defaultRowFilter is the process-wide cache BuildTable's FilterExpr and
// BuildGapReport's EventFilterExpr compile their predicates against, so
// the same expression string reuses one compiled program across every
// report built in a run.
var defaultRowFilter = NewExprRowFilter()

// NewExprRowFilter builds an ExprRowFilter with a 100-entry program cache.
func NewExprRowFilter() *ExprRowFilter {
	return &ExprRowFilter{cache: newFilterCache(100)}
}

// Matches evaluates expression against one row's named column values,
// compiling and caching the program on first use.
func (f *ExprRowFilter) Matches(expression string, row map[string]any) (bool, error) {
	if expression == "" {
		return true, nil
	}

	env := map[string]any{"row": row}
	program, ok := f.cache.get(expression)
	if !ok {
		compiled, err := expr.Compile(expression, expr.Env(env), expr.AsBool())
		if err != nil {
			return false, fmt.Errorf("report: failed to compile row filter: %w", err)
		}
		program = compiled
		f.cache.put(expression, program)
	}

	result, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("report: failed to evaluate row filter: %w", err)
	}
	matched, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("report: row filter must return boolean, got %T", result)
	}
	return matched, nil
}

// RowAsMap converts one frame row to a plain map for use as an
// ExprRowFilter environment.
func RowAsMap(frame *types.Frame, row int) map[string]any {
	out := make(map[string]any, len(frame.Names()))
	for _, name := range frame.Names() {
		col, err := frame.Column(name)
		if err != nil {
			continue
		}
		if col.IsNull(row) {
			out[name] = nil
			continue
		}
		out[name] = col.Data[row]
	}
	return out
}
