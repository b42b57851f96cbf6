package readfiles

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wakelab/pivwake/utils"
	"github.com/wakelab/pivwake/wake"
)

// WriteStitchedWake dumps every stitched quantity plus the shift log to the
// output directory in the same whitespace-grid layout the reader consumes.
func WriteStitchedWake(dir string, w *wake.StitchedWake) (err error) {
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return
	}
	fields := []struct {
		name string
		M    utils.Matrix
	}{
		{"xc", w.X}, {"yc", w.Y},
		{"u", w.U}, {"v", w.V},
		{"uf", w.UF}, {"vf", w.VF},
		{"dudx", w.DUDX}, {"dudy", w.DUDY},
		{"dvdx", w.DVDX}, {"dvdy", w.DVDY},
		{"vorticity", w.Vort}, {"swirl", w.Swirl},
	}
	for _, f := range fields {
		if err = WriteGridFile(filepath.Join(dir, f.name+".txt"), f.M); err != nil {
			return
		}
	}
	return writeShiftLog(filepath.Join(dir, "shifts.txt"), w)
}

// WriteGridFile writes one matrix as whitespace-delimited text, one matrix
// row per line.
func WriteGridFile(filename string, M utils.Matrix) (err error) {
	var file *os.File
	if file, err = os.Create(filename); err != nil {
		return
	}
	defer file.Close()

	var (
		writer = bufio.NewWriter(file)
		nr, nc = M.Dims()
	)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			if j > 0 {
				fmt.Fprint(writer, " ")
			}
			fmt.Fprintf(writer, "%.9e", M.At(i, j))
		}
		fmt.Fprintln(writer)
	}
	return writer.Flush()
}

func writeShiftLog(filename string, w *wake.StitchedWake) (err error) {
	var file *os.File
	if file, err = os.Create(filename); err != nil {
		return
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	fmt.Fprintln(writer, "# pair shiftX shiftY score valid")
	for i, s := range w.Shifts {
		fmt.Fprintf(writer, "%d %d %d %.6f %v\n", i, s.ShiftX, s.ShiftY, s.Score, s.Valid)
	}
	for _, ev := range w.Events {
		fmt.Fprintf(writer, "# event: %s\n", ev)
	}
	return writer.Flush()
}
