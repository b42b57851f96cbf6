package readfiles

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/wakelab/pivwake/utils"
	"github.com/wakelab/pivwake/wake"
)

// ReadPIVDataset loads a pre-exported PIV dataset directory into the raw
// (pixel-indexed) input contract. The directory holds whitespace-delimited
// numeric grids:
//
//	x.txt, y.txt            pixel coordinate grids
//	u_NNN.txt, v_NNN.txt    velocity components, one pair per frame
//	spacing.txt             one line: dx dy (dy sign encodes the vendor's
//	                        vertical axis convention)
//
// Parsing of vendor .mat/.vec files stays outside this module; exporters
// produce this layout.
func ReadPIVDataset(dir string, verbose bool) (raw wake.RawDataset, err error) {
	if verbose {
		fmt.Printf("Reading PIV dataset from directory: %s\n", dir)
	}
	if raw.X, err = readGridFile(filepath.Join(dir, "x.txt")); err != nil {
		return
	}
	if raw.Y, err = readGridFile(filepath.Join(dir, "y.txt")); err != nil {
		return
	}
	if raw.Dx, raw.Dy, err = readSpacing(filepath.Join(dir, "spacing.txt")); err != nil {
		return
	}

	uFiles, err := sortedFrameFiles(dir, "u_")
	if err != nil {
		return
	}
	vFiles, err := sortedFrameFiles(dir, "v_")
	if err != nil {
		return
	}
	if len(uFiles) != len(vFiles) || len(uFiles) == 0 {
		err = fmt.Errorf("dataset %s: found %d u frames and %d v frames", dir, len(uFiles), len(vFiles))
		return
	}
	for n := range uFiles {
		var U, V utils.Matrix
		if U, err = readGridFile(uFiles[n]); err != nil {
			return
		}
		if V, err = readGridFile(vFiles[n]); err != nil {
			return
		}
		raw.U = append(raw.U, U)
		raw.V = append(raw.V, V)
	}
	if verbose {
		nr, nc := raw.X.Dims()
		fmt.Printf("Read %d frames of %dx%d cells\n", len(raw.U), nr, nc)
	}
	return
}

// readGridFile reads one whitespace-delimited numeric grid, one matrix row
// per line.
func readGridFile(filename string) (M utils.Matrix, err error) {
	var (
		file *os.File
		rows [][]float64
		nc   int
	)
	if file, err = os.Open(filename); err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if nc == 0 {
			nc = len(fields)
		} else if len(fields) != nc {
			err = fmt.Errorf("%s: ragged row %d, %d fields, want %d",
				filename, len(rows)+1, len(fields), nc)
			return
		}
		row := make([]float64, nc)
		for j, f := range fields {
			if row[j], err = strconv.ParseFloat(f, 64); err != nil {
				err = fmt.Errorf("%s: row %d: %w", filename, len(rows)+1, err)
				return
			}
		}
		rows = append(rows, row)
	}
	if err = scanner.Err(); err != nil {
		return
	}
	if len(rows) == 0 {
		err = fmt.Errorf("%s: empty grid file", filename)
		return
	}
	data := make([]float64, 0, len(rows)*nc)
	for _, row := range rows {
		data = append(data, row...)
	}
	M = utils.NewMatrix(len(rows), nc, data)
	return
}

func readSpacing(filename string) (dx, dy float64, err error) {
	var file *os.File
	if file, err = os.Open(filename); err != nil {
		return
	}
	defer file.Close()
	if _, err = fmt.Fscan(file, &dx, &dy); err != nil {
		err = fmt.Errorf("%s: %w", filename, err)
	}
	return
}

func sortedFrameFiles(dir, prefix string) (files []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".txt") {
			files = append(files, filepath.Join(dir, name))
		}
	}
	sort.Strings(files)
	return
}
