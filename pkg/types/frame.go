package types

import "fmt"

// Frame is the column-oriented table shared by every component: a set of
// equal-length, independently typed columns keyed by their canonical
// "<node_id>#<handle>" name, all aligned to one shared TimeIndex.
type Frame struct {
	index   TimeIndex
	columns map[string]Column
	order   []string // insertion order, for deterministic iteration/printing
}

// NewFrame builds an empty Frame over the given index.
func NewFrame(index TimeIndex) *Frame {
	return &Frame{index: index, columns: make(map[string]Column)}
}

// Index returns the Frame's shared TimeIndex.
func (f *Frame) Index() TimeIndex { return f.index }

// Len returns the number of rows, i.e. the length of the shared TimeIndex.
func (f *Frame) Len() int { return f.index.Len() }

// Names returns the column names in insertion order.
func (f *Frame) Names() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// Has reports whether the Frame contains a column with the given name.
func (f *Frame) Has(name string) bool {
	_, ok := f.columns[name]
	return ok
}

// Column returns the named column, failing if it is absent.
func (f *Frame) Column(name string) (Column, error) {
	c, ok := f.columns[name]
	if !ok {
		return Column{}, fmt.Errorf("types: frame has no column %q", name)
	}
	return c, nil
}

// AddColumn inserts or replaces a column, failing if its length does not
// match the Frame's index length.
func (f *Frame) AddColumn(name string, col Column) error {
	if col.Len() != f.index.Len() {
		return fmt.Errorf("types: column %q has length %d, frame index has length %d", name, col.Len(), f.index.Len())
	}
	if _, exists := f.columns[name]; !exists {
		f.order = append(f.order, name)
	}
	f.columns[name] = col
	return nil
}

// DropColumn removes a column if present; it is a no-op otherwise.
func (f *Frame) DropColumn(name string) {
	if _, ok := f.columns[name]; !ok {
		return
	}
	delete(f.columns, name)
	for i, n := range f.order {
		if n == name {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
}

// Rename moves the column at `from` to `to`, preserving its position in the
// column order. It fails if `from` is absent or `to` already exists.
func (f *Frame) Rename(from, to string) error {
	if from == to {
		return nil
	}
	col, ok := f.columns[from]
	if !ok {
		return fmt.Errorf("types: frame has no column %q to rename", from)
	}
	if _, exists := f.columns[to]; exists {
		return fmt.Errorf("types: frame already has a column %q", to)
	}
	delete(f.columns, from)
	f.columns[to] = col
	for i, n := range f.order {
		if n == from {
			f.order[i] = to
			break
		}
	}
	return nil
}

// Select returns a new Frame containing only the named columns, in the
// order requested, sharing the same TimeIndex. It fails if any name is absent.
func (f *Frame) Select(names ...string) (*Frame, error) {
	out := NewFrame(f.index)
	for _, n := range names {
		col, ok := f.columns[n]
		if !ok {
			return nil, fmt.Errorf("types: frame has no column %q to select", n)
		}
		if err := out.AddColumn(n, col); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Merge returns a new Frame combining the receiver's columns with other's,
// failing on a duplicate column name or a mismatched TimeIndex length.
func (f *Frame) Merge(other *Frame) (*Frame, error) {
	if other.Len() != f.Len() {
		return nil, fmt.Errorf("types: cannot merge frames of length %d and %d", f.Len(), other.Len())
	}
	out := NewFrame(f.index)
	for _, n := range f.order {
		if err := out.AddColumn(n, f.columns[n]); err != nil {
			return nil, err
		}
	}
	for _, n := range other.order {
		if out.Has(n) {
			return nil, fmt.Errorf("types: merge conflict, column %q present in both frames", n)
		}
		if err := out.AddColumn(n, other.columns[n]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Slice returns a new Frame over the half-open row range [start, end),
// preserving every column's values and the shared TimeIndex segment.
func (f *Frame) Slice(start, end int) *Frame {
	out := NewFrame(f.index.Slice(start, end))
	for _, n := range f.order {
		col := f.columns[n]
		out.columns[n] = Column{
			Type: col.Type,
			Data: col.Data[start:end],
			Null: col.Null[start:end],
		}
	}
	out.order = append(out.order, f.order...)
	return out
}
