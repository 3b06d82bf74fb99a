package numeric

import (
	"math"
	"testing"
	"time"

	"github.com/EPOCHDevs/quantgraph-go/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dayIndex(n int) types.TimeIndex {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	times := make([]time.Time, n)
	for i := range times {
		times[i] = base.AddDate(0, 0, i)
	}
	idx, _ := types.NewTimeIndex(times, types.FreqDay)
	return idx
}

func TestBuildMatrixColumnMajorLayout(t *testing.T) {
	idx := dayIndex(3)
	frame := types.NewFrame(idx)

	a := types.NewColumn(types.Decimal, 3)
	a.Set(0, 1.0)
	a.Set(1, 2.0)
	a.Set(2, 3.0)
	require.NoError(t, frame.AddColumn("a", a))

	b := types.NewColumn(types.Integer, 3)
	b.Set(0, int64(10))
	b.Set(1, int64(20))
	b.Set(2, int64(30))
	require.NoError(t, frame.AddColumn("b", b))

	m, err := BuildMatrix(frame, []string{"a", "b"}, NullToNaN)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Rows())
	assert.Equal(t, 2, m.Cols())
	assert.Equal(t, 1.0, m.At(0, 0))
	assert.Equal(t, 2.0, m.At(1, 0))
	assert.Equal(t, 20.0, m.At(1, 1))

	// column-major: column 1 (b) occupies indices [rows, 2*rows).
	assert.Equal(t, []float64{1, 2, 3, 10, 20, 30}, m.ColumnMajor())
}

func TestBuildMatrixNullToNaN(t *testing.T) {
	idx := dayIndex(2)
	frame := types.NewFrame(idx)
	a := types.NewColumn(types.Decimal, 2)
	a.Set(0, 1.0)
	// row 1 left null
	require.NoError(t, frame.AddColumn("a", a))

	m, err := BuildMatrix(frame, []string{"a"}, NullToNaN)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(m.At(1, 0)))
}

func TestBuildMatrixNullRejectFails(t *testing.T) {
	idx := dayIndex(2)
	frame := types.NewFrame(idx)
	a := types.NewColumn(types.Decimal, 2)
	a.Set(0, 1.0)
	require.NoError(t, frame.AddColumn("a", a))

	_, err := BuildMatrix(frame, []string{"a"}, NullReject)
	assert.Error(t, err)
}

func TestMatrixHandleRowMajorAndSlice(t *testing.T) {
	idx := dayIndex(4)
	frame := types.NewFrame(idx)
	a := types.NewColumn(types.Decimal, 4)
	for i := 0; i < 4; i++ {
		a.Set(i, float64(i))
	}
	require.NoError(t, frame.AddColumn("a", a))

	m, err := BuildMatrix(frame, []string{"a"}, NullToNaN)
	require.NoError(t, err)

	rowMajor := m.RowMajor()
	require.Len(t, rowMajor, 4)
	assert.Equal(t, []float64{2}, rowMajor[2])

	sliced := m.Slice(1, 3)
	assert.Equal(t, 2, sliced.Rows())
	assert.Equal(t, 1.0, sliced.At(0, 0))
	assert.Equal(t, 2.0, sliced.At(1, 0))
}

func TestColumnVectorBuildAndSlice(t *testing.T) {
	idx := dayIndex(3)
	frame := types.NewFrame(idx)
	a := types.NewColumn(types.Decimal, 3)
	a.Set(0, 5.0)
	a.Set(1, 6.0)
	a.Set(2, 7.0)
	require.NoError(t, frame.AddColumn("y", a))

	v, err := BuildColumnVector(frame, "y", NullToNaN)
	require.NoError(t, err)
	assert.Equal(t, 3, v.Len())
	assert.Equal(t, []float64{5, 6, 7}, v.Values())

	sliced := v.Slice(1, 3)
	assert.Equal(t, []float64{6, 7}, sliced.Values())
}
