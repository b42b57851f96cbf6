package wake

import (
	"github.com/wakelab/pivwake/utils"
)

// NormalizeConfig carries the ingestion parameters of the coordinate and
// unit normalizer.
type NormalizeConfig struct {
	PixelsPerCM float64 // imaging scale
	LaserDT     float64 // seconds between the two laser pulses of one frame
	FrameDT     float64 // seconds between consecutive frames
	HCut        int     // columns trimmed from each horizontal edge
	VCut        int     // rows trimmed from each vertical edge
}

// Normalize converts a raw pixel-indexed dataset into the canonical
// FrameSequence: borders trimmed, coordinates in meters, velocities in m/s,
// origin at the bottom-left with y up and recentered about the vertical
// midpoint. Both vendor axis conventions (encoded in the sign of Dy) resolve
// to this one canonical orientation, so no downstream stage re-checks signs.
func Normalize(raw RawDataset, cfg NormalizeConfig) (fs *FrameSequence, err error) {
	var (
		nr, nc       = raw.X.Dims()
		metersPerPix = 0.01 / cfg.PixelsPerCM
	)
	if cfg.PixelsPerCM <= 0 || cfg.LaserDT <= 0 {
		return nil, &ConfigurationError{Detail: "pixels_per_cm and laser_dt must be positive"}
	}
	if 2*cfg.HCut >= nc || 2*cfg.VCut >= nr {
		return nil, dimErrf("Normalize",
			"cuts (h=%d, v=%d) exceed grid extent %dx%d", cfg.HCut, cfg.VCut, nr, nc)
	}
	for n := range raw.U {
		unr, unc := raw.U[n].Dims()
		if unr != nr || unc != nc {
			return nil, dimErrf("Normalize",
				"frame %d shape %dx%d does not match grid %dx%d", n, unr, unc, nr, nc)
		}
	}

	trim := func(M utils.Matrix) utils.Matrix {
		return M.Slice(cfg.VCut, nr-cfg.VCut, cfg.HCut, nc-cfg.HCut)
	}
	flipped := raw.Dy < 0

	X := trim(raw.X).Scale(metersPerPix)
	Y := trim(raw.Y).Scale(metersPerPix)
	if flipped {
		X = X.FlipRows()
		Y = Y.FlipRows()
	}
	// Recenter y about the vertical midpoint of the trimmed window.
	Y.AddScalar(-0.5 * (Y.Max() + Y.Min()))

	grid := Grid{
		X:  X.SetReadOnly("Grid.X"),
		Y:  Y.SetReadOnly("Grid.Y"),
		Dx: raw.Dx * metersPerPix,
		Dy: raw.Dy * metersPerPix,
	}
	if flipped {
		grid.Dy = -grid.Dy
	}

	frames := make([]*Frame, len(raw.U))
	pixToMps := metersPerPix / cfg.LaserDT
	for n := range raw.U {
		U := trim(raw.U[n]).Scale(pixToMps)
		V := trim(raw.V[n]).Scale(pixToMps)
		if flipped {
			U = U.FlipRows()
			V = V.FlipRows().Scale(-1)
		}
		frames[n] = &Frame{
			U: U.SetReadOnly("Frame.U"),
			V: V.SetReadOnly("Frame.V"),
		}
	}
	// The affected partial derivatives (dudy, dvdx in the vendor convention)
	// need no sign fix here: gradients are derived downstream from these
	// already-canonical fields.
	fs = &FrameSequence{
		Grid:    grid,
		Frames:  frames,
		FrameDT: cfg.FrameDT,
	}
	return
}
