package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrix(t *testing.T) {
	// Slice and Hstack
	{
		M := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		S := M.Slice(0, 2, 1, 3)
		assert.Equal(t, 2, rowsOf(S))
		assert.Equal(t, 2, colsOf(S))
		assert.True(t, near(S.At(0, 0), 2))
		assert.True(t, near(S.At(1, 1), 6))

		H := M.Hstack(S)
		assert.Equal(t, 5, colsOf(H))
		assert.True(t, near(H.At(0, 3), 2))
		assert.True(t, near(H.At(1, 4), 6))

		// Slicing copies; mutating the slice must not touch the source
		S.Set(0, 0, 99)
		assert.True(t, near(M.At(0, 1), 2))
	}
	// FlipRows
	{
		M := NewMatrix(3, 2, []float64{
			1, 2,
			3, 4,
			5, 6,
		})
		F := M.FlipRows()
		assert.True(t, near(F.At(0, 0), 5))
		assert.True(t, near(F.At(2, 1), 2))
		assert.True(t, near(F.FlipRows().At(0, 0), 1))
	}
	// Element-wise chaining
	{
		M := NewMatrix(2, 2, []float64{1, 2, 3, 4})
		R := M.Copy().Scale(2).AddScalar(-1)
		assert.True(t, near(R.At(0, 0), 1))
		assert.True(t, near(R.At(1, 1), 7))
		assert.True(t, near(M.At(1, 1), 4)) // Copy detached

		A := NewMatrix(2, 2, []float64{4, 3, 2, 1})
		assert.True(t, near(M.Copy().ElMul(A).Sum(), 4+6+6+4))
		assert.True(t, near(M.Copy().Subtract(A).Apply(math.Abs).Max(), 3))
		assert.True(t, near(M.Min(), 1))
	}
	// Row/Col extraction
	{
		M := NewMatrix(2, 3, []float64{1, 2, 3, 4, 5, 6})
		assert.True(t, near(M.Row(1).Sum(), 15))
		assert.True(t, near(M.Col(2).Sum(), 9))
		assert.True(t, near(M.Transpose().At(2, 1), 6))
	}
	// Read-only guard
	{
		M := NewMatrix(2, 2)
		M.SetReadOnly("guarded")
		assert.Panics(t, func() { M.Set(0, 0, 1) })
		assert.Panics(t, func() { M.Scale(2) })
		M.SetWritable()
		assert.NotPanics(t, func() { M.Set(0, 0, 1) })
	}
}

func TestVector(t *testing.T) {
	V := NewVector(4, []float64{1, 2, 3, 4})
	assert.True(t, near(V.Mean(), 2.5))
	assert.True(t, near(V.Max(), 4))

	V.Reverse()
	assert.True(t, near(V.At(0), 4))
	assert.True(t, near(V.At(3), 1))

	L := Linspace(0, 3, 4)
	assert.True(t, near(L.At(1), 1))
	assert.True(t, near(L.At(3), 3))
}

func rowsOf(M Matrix) int { r, _ := M.Dims(); return r }
func colsOf(M Matrix) int { _, c := M.Dims(); return c }

func near(a, b float64) (l bool) {
	if math.Abs(a-b) < 1.e-08*(math.Abs(a)+1) {
		l = true
	}
	return
}
