package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dayIndex(n int) TimeIndex {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	times := make([]time.Time, n)
	for i := range times {
		times[i] = base.AddDate(0, 0, i)
	}
	idx, err := NewTimeIndex(times, FreqDay)
	if err != nil {
		panic(err)
	}
	return idx
}

func TestNewTimeIndexRejectsNonMonotonic(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := NewTimeIndex([]time.Time{base, base}, FreqDay)
	assert.ErrorIs(t, err, errNonMonotonicIndex)
}

func TestConstantValueColumnNameDeterministic(t *testing.T) {
	a := NewDecimal(3.14)
	b := NewDecimal(3.14)
	assert.Equal(t, a.ColumnName(), b.ColumnName())
	assert.True(t, a.Equal(b))

	c := NewDecimal(2.71)
	assert.NotEqual(t, a.ColumnName(), c.ColumnName())
	assert.False(t, a.Equal(c))
}

func TestConstantValueTypedNull(t *testing.T) {
	n := MakeNull(Decimal)
	assert.True(t, n.IsNull())
	assert.Equal(t, Decimal, n.Type())
	assert.Nil(t, n.Raw())
}

func TestConstantValueGetWrongTypeFails(t *testing.T) {
	v := NewInteger(5)
	_, err := v.GetDecimal()
	assert.ErrorIs(t, err, errTypeMismatch)
}

func TestNodeReferenceColumnName(t *testing.T) {
	ref := NodeReference{NodeID: "sma_20", Handle: "result"}
	assert.Equal(t, "sma_20#result", ref.ColumnName())
}

func TestInputValueColumnIdentifier(t *testing.T) {
	ref := NewRefInput(NodeReference{NodeID: "sma_20", Handle: "result"})
	id, err := ref.ColumnIdentifier()
	require.NoError(t, err)
	assert.Equal(t, "sma_20#result", id)

	lit := NewLiteralInput(NewDecimal(1.0))
	id, err = lit.ColumnIdentifier()
	require.NoError(t, err)
	assert.Equal(t, NewDecimal(1.0).ColumnName(), id)

	null := NewNullInput()
	_, err = null.ColumnIdentifier()
	assert.ErrorIs(t, err, errNullIdentifier)
}

func TestFrameAddSelectMergeSlice(t *testing.T) {
	idx := dayIndex(5)
	f := NewFrame(idx)

	col := NewColumn(Decimal, 5)
	for i := 0; i < 5; i++ {
		col.Set(i, float64(i))
	}
	require.NoError(t, f.AddColumn("sma_20#result", col))
	assert.True(t, f.Has("sma_20#result"))
	assert.Equal(t, []string{"sma_20#result"}, f.Names())

	sel, err := f.Select("sma_20#result")
	require.NoError(t, err)
	assert.Equal(t, 5, sel.Len())

	other := NewFrame(idx)
	otherCol := NewColumn(Integer, 5)
	require.NoError(t, other.AddColumn("rsi_14#result", otherCol))

	merged, err := f.Merge(other)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"sma_20#result", "rsi_14#result"}, merged.Names())

	_, err = f.Merge(f)
	assert.Error(t, err)

	sliced := merged.Slice(1, 3)
	assert.Equal(t, 2, sliced.Len())
}

func TestFrameRenameAndDrop(t *testing.T) {
	idx := dayIndex(3)
	f := NewFrame(idx)
	require.NoError(t, f.AddColumn("a#result", NewColumn(Decimal, 3)))
	require.NoError(t, f.Rename("a#result", "b#result"))
	assert.False(t, f.Has("a#result"))
	assert.True(t, f.Has("b#result"))

	f.DropColumn("b#result")
	assert.False(t, f.Has("b#result"))
	assert.Empty(t, f.Names())
}

func TestSessionVariantNamedLookup(t *testing.T) {
	ns, err := NamedSessionFromString("regular")
	require.NoError(t, err)
	assert.Equal(t, SessionRegular, ns)

	_, err = NamedSessionFromString("nonsense")
	assert.Error(t, err)

	v := NewRangeSessionVariant(DayMinuteRange{StartMinute: 570, EndMinute: 960})
	assert.False(t, v.IsNamed())
	assert.Equal(t, 570, v.Range().StartMinute)
}
