package readfiles

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wakelab/pivwake/utils"
)

func TestReadPIVDataset(t *testing.T) {
	var (
		dir    = t.TempDir()
		nr, nc = 3, 4
		X      = utils.NewMatrix(nr, nc)
		Y      = utils.NewMatrix(nr, nc)
	)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			X.Set(i, j, float64(j)*10)
			Y.Set(i, j, float64(nr-1-i)*10)
		}
	}
	assert.NoError(t, WriteGridFile(filepath.Join(dir, "x.txt"), X))
	assert.NoError(t, WriteGridFile(filepath.Join(dir, "y.txt"), Y))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "spacing.txt"), []byte("10 -10\n"), 0o644))

	for n := 0; n < 2; n++ {
		var (
			U = utils.NewMatrix(nr, nc)
			V = utils.NewMatrix(nr, nc)
		)
		U.AddScalar(float64(n) + 1.5)
		V.AddScalar(-0.25)
		uName := filepath.Join(dir, fmt.Sprintf("u_%03d.txt", n))
		vName := filepath.Join(dir, fmt.Sprintf("v_%03d.txt", n))
		assert.NoError(t, WriteGridFile(uName, U))
		assert.NoError(t, WriteGridFile(vName, V))
	}

	raw, err := ReadPIVDataset(dir, false)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(raw.U))
	assert.Equal(t, 2, len(raw.V))
	assert.True(t, near(raw.Dx, 10))
	assert.True(t, near(raw.Dy, -10))

	rnr, rnc := raw.X.Dims()
	assert.Equal(t, nr, rnr)
	assert.Equal(t, nc, rnc)
	assert.True(t, near(raw.X.At(1, 2), 20))
	assert.True(t, near(raw.Y.At(0, 0), 20))

	// Frame files load in name order
	assert.True(t, near(raw.U[0].At(0, 0), 1.5))
	assert.True(t, near(raw.U[1].At(2, 3), 2.5))
	assert.True(t, near(raw.V[1].At(1, 1), -0.25))
}

func TestReadPIVDatasetErrors(t *testing.T) {
	// Missing grid files
	_, err := ReadPIVDataset(t.TempDir(), false)
	assert.Error(t, err)

	// Ragged grid rows
	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "bad.txt"),
		[]byte("1 2 3\n4 5\n"), 0o644))
	_, err = readGridFile(filepath.Join(dir, "bad.txt"))
	assert.Error(t, err)

	// Comments and blank lines are skipped
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "ok.txt"),
		[]byte("# header\n\n1 2\n3 4\n"), 0o644))
	M, err := readGridFile(filepath.Join(dir, "ok.txt"))
	assert.NoError(t, err)
	mnr, mnc := M.Dims()
	assert.Equal(t, 2, mnr)
	assert.Equal(t, 2, mnc)
	assert.True(t, near(M.At(1, 0), 3))
}

func near(a, b float64) (l bool) {
	if math.Abs(a-b) < 1.e-08*(math.Abs(a)+1) {
		l = true
	}
	return
}
