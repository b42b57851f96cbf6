package utils

const (
	NODETOL = 1.e-12
)

// Linspace fills a vector with n evenly spaced values over [min, max].
func Linspace(min, max float64, n int) (V Vector) {
	var (
		data = make([]float64, n)
		dx   = (max - min) / float64(n-1)
	)
	for i := range data {
		data[i] = min + float64(i)*dx
	}
	return NewVector(n, data)
}
