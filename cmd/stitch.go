/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wakelab/pivwake/InputParameters"
	"github.com/wakelab/pivwake/plotting"
	"github.com/wakelab/pivwake/readfiles"
	"github.com/wakelab/pivwake/wake"
)

// StitchCmd represents the stitch command
var StitchCmd = &cobra.Command{
	Use:   "stitch",
	Short: "Reconstruct the continuous wake from sequential PIV frames",
	Long: `
Estimates the inter-frame advection shift of every consecutive frame pair by
normalized cross-correlation and concatenates the overlap windows into one
chord-normalized wake field.

pivwake stitch -D dataset/ -I params.yaml -O out/`,
	Run: func(cmd *cobra.Command, args []string) {
		sm := &StitchModel{}
		sm.DatasetDir, _ = cmd.Flags().GetString("dataset")
		sm.ParamsFile, _ = cmd.Flags().GetString("inputParametersFile")
		sm.OutDir, _ = cmd.Flags().GetString("outDir")
		sm.Quantity, _ = cmd.Flags().GetString("quantity")
		sm.Bounds.MinX, _ = cmd.Flags().GetInt("minShiftX")
		sm.Bounds.MaxX, _ = cmd.Flags().GetInt("maxShiftX")
		sm.Bounds.MinY, _ = cmd.Flags().GetInt("minShiftY")
		sm.Bounds.MaxY, _ = cmd.Flags().GetInt("maxShiftY")
		sm.Plots, _ = cmd.Flags().GetBool("plots")
		if _, err := RunStitch(sm); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(StitchCmd)
	StitchCmd.Flags().StringP("dataset", "D", "", "PIV dataset directory (x.txt, y.txt, spacing.txt, u_NNN.txt, v_NNN.txt)")
	StitchCmd.Flags().StringP("inputParametersFile", "I", "", "YAML file with the fifteen experiment parameters")
	StitchCmd.Flags().StringP("outDir", "O", ".", "output directory for stitched fields and plots")
	StitchCmd.Flags().StringP("quantity", "q", "velocity_fluctuations", "correlation input: velocity | velocity_fluctuations")
	StitchCmd.Flags().Int("minShiftX", 1, "minimum candidate x shift, cells")
	StitchCmd.Flags().Int("maxShiftX", 20, "maximum candidate x shift, cells")
	StitchCmd.Flags().Int("minShiftY", -4, "minimum candidate y shift, cells")
	StitchCmd.Flags().Int("maxShiftY", 4, "maximum candidate y shift, cells")
	StitchCmd.Flags().Bool("plots", true, "write vorticity and swirl heat maps")
}

type StitchModel struct {
	DatasetDir string
	ParamsFile string
	OutDir     string
	Quantity   string
	Bounds     wake.ShiftBounds
	Plots      bool
}

// RunStitch executes the full reconstruction pipeline: normalize, decompose,
// compute gradients, then the correlation-driven stitching loop.
func RunStitch(sm *StitchModel) (w *wake.StitchedWake, err error) {
	wp, fs, err := preparePipeline(sm.DatasetDir, sm.ParamsFile)
	if err != nil {
		return
	}
	estimator := &wake.ShiftEstimator{
		Bounds:   sm.Bounds,
		Quantity: wake.NewCorrelationQuantity(sm.Quantity),
		UInf:     wp.FreestreamVelocity,
		FrameDT:  wp.FrameDT,
		Dx:       fs.Grid.Dx,
	}
	stitcher := &wake.Stitcher{
		Seq:       fs,
		Estimator: estimator,
		Config: wake.StitchConfig{
			Chord:        wp.Chord,
			InitialFrame: wp.CycleStartFrame,
			FinalFrame:   wp.CycleEndFrame,
			LogProgress:  true,
		},
	}
	if w, err = stitcher.Run(); err != nil {
		return
	}
	fmt.Printf("stitched %d frame pairs, %d recoverable events\n", len(w.Shifts), len(w.Events))

	if err = readfiles.WriteStitchedWake(sm.OutDir, w); err != nil {
		return
	}
	if sm.Plots {
		if err = plotting.VorticityHeatMap(w, filepath.Join(sm.OutDir, "vorticity.png")); err != nil {
			return
		}
		if err = plotting.SwirlHeatMap(w, filepath.Join(sm.OutDir, "swirl.png")); err != nil {
			return
		}
	}
	return
}

// preparePipeline loads parameters and the dataset and runs the stages every
// consumer needs: normalization, fluctuation decomposition, gradients.
func preparePipeline(datasetDir, paramsFile string) (wp *InputParameters.WakeParameters, fs *wake.FrameSequence, err error) {
	if datasetDir == "" || paramsFile == "" {
		err = fmt.Errorf("must supply a dataset directory (-D) and a parameters file (-I)")
		return
	}
	var data []byte
	if data, err = os.ReadFile(paramsFile); err != nil {
		return
	}
	wp = &InputParameters.WakeParameters{}
	if err = wp.Parse(data); err != nil {
		return
	}
	wp.Print()

	raw, err := readfiles.ReadPIVDataset(datasetDir, true)
	if err != nil {
		return
	}
	if fs, err = wake.Normalize(raw, wake.NormalizeConfig{
		PixelsPerCM: wp.PixelsPerCM,
		LaserDT:     wp.LaserDT,
		FrameDT:     wp.FrameDT,
		HCut:        wp.HorizontalCut,
		VCut:        wp.VerticalCut,
	}); err != nil {
		return
	}
	if err = fs.DecomposeFluctuations(); err != nil {
		return
	}
	fs.ComputeGradients(wake.LSGradient)
	return
}
