package utils

import (
	"fmt"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

type Vector struct {
	V *mat.VecDense
}

func NewVector(n int, dataO ...[]float64) (R Vector) {
	var v *mat.VecDense
	if len(dataO) != 0 {
		if len(dataO[0]) != n {
			err := fmt.Errorf("mismatch in allocation: NewVector n = %v, len(data[0]) = %v",
				n, len(dataO[0]))
			panic(err)
		}
		v = mat.NewVecDense(n, dataO[0])
	} else {
		v = mat.NewVecDense(n, make([]float64, n))
	}
	return Vector{v}
}

func (v Vector) Len() int                 { return v.V.Len() }
func (v Vector) At(i int) float64         { return v.V.AtVec(i) }
func (v Vector) RawVector() blas64.Vector { return v.V.RawVector() }
func (v Vector) Data() []float64          { return v.V.RawVector().Data }
func (v Vector) Set(i int, val float64)   { v.V.SetVec(i, val) }

func (v Vector) Copy() (R Vector) {
	data := make([]float64, v.Len())
	copy(data, v.Data())
	return NewVector(v.Len(), data)
}

func (v Vector) Scale(a float64) Vector { // Changes receiver
	data := v.Data()
	for i := range data {
		data[i] *= a
	}
	return v
}

func (v Vector) AddScalar(a float64) Vector { // Changes receiver
	data := v.Data()
	for i := range data {
		data[i] += a
	}
	return v
}

func (v Vector) Apply(f func(float64) float64) Vector { // Changes receiver
	data := v.Data()
	for i, val := range data {
		data[i] = f(val)
	}
	return v
}

// Reverse flips element order in place, used to orient force series so
// index 0 is the wing-nearest wake station.
func (v Vector) Reverse() Vector { // Changes receiver
	data := v.Data()
	for i, j := 0, len(data)-1; i < j; i, j = i+1, j-1 {
		data[i], data[j] = data[j], data[i]
	}
	return v
}

func (v Vector) Min() (min float64) {
	data := v.Data()
	min = data[0]
	for _, val := range data {
		if val < min {
			min = val
		}
	}
	return
}

func (v Vector) Max() (max float64) {
	data := v.Data()
	max = data[0]
	for _, val := range data {
		if val > max {
			max = val
		}
	}
	return
}

func (v Vector) Sum() (sum float64) {
	for _, val := range v.Data() {
		sum += val
	}
	return
}

func (v Vector) Mean() float64 {
	return v.Sum() / float64(v.Len())
}
