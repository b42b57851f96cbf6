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

	"github.com/wakelab/pivwake/forces"
	"github.com/wakelab/pivwake/plotting"
	"github.com/wakelab/pivwake/wake"
)

// ForcesCmd represents the forces command
var ForcesCmd = &cobra.Command{
	Use:   "forces",
	Short: "Estimate drag and lift coefficients from the reconstructed wake",
	Long: `
Runs the reconstruction pipeline, then integrates momentum deficit for drag
and vorticity flux for circulation/lift, under the selected policy (1-4).

pivwake forces -D dataset/ -I params.yaml -p 2`,
	Run: func(cmd *cobra.Command, args []string) {
		fm := &ForcesModel{}
		fm.StitchModel.DatasetDir, _ = cmd.Flags().GetString("dataset")
		fm.StitchModel.ParamsFile, _ = cmd.Flags().GetString("inputParametersFile")
		fm.StitchModel.OutDir, _ = cmd.Flags().GetString("outDir")
		fm.StitchModel.Quantity, _ = cmd.Flags().GetString("quantity")
		fm.StitchModel.Bounds.MinX, _ = cmd.Flags().GetInt("minShiftX")
		fm.StitchModel.Bounds.MaxX, _ = cmd.Flags().GetInt("maxShiftX")
		fm.StitchModel.Bounds.MinY, _ = cmd.Flags().GetInt("minShiftY")
		fm.StitchModel.Bounds.MaxY, _ = cmd.Flags().GetInt("maxShiftY")
		fm.PolicySelector, _ = cmd.Flags().GetInt("policy")
		fm.Threshold, _ = cmd.Flags().GetFloat64("threshold")
		fm.ThresholdOffset, _ = cmd.Flags().GetFloat64("thresholdOffset")
		fm.MaskMode, _ = cmd.Flags().GetString("maskMode")
		if err := RunForces(fm); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(ForcesCmd)
	ForcesCmd.Flags().StringP("dataset", "D", "", "PIV dataset directory")
	ForcesCmd.Flags().StringP("inputParametersFile", "I", "", "YAML file with the fifteen experiment parameters")
	ForcesCmd.Flags().StringP("outDir", "O", ".", "output directory for the force report")
	ForcesCmd.Flags().StringP("quantity", "q", "velocity_fluctuations", "correlation input: velocity | velocity_fluctuations")
	ForcesCmd.Flags().Int("minShiftX", 1, "minimum candidate x shift, cells")
	ForcesCmd.Flags().Int("maxShiftX", 20, "maximum candidate x shift, cells")
	ForcesCmd.Flags().Int("minShiftY", -4, "minimum candidate y shift, cells")
	ForcesCmd.Flags().Int("maxShiftY", 4, "maximum candidate y shift, cells")
	ForcesCmd.Flags().IntP("policy", "p", 1, "circulation policy: 1=stitched, 2=stitched+threshold, 3=per-frame trapezoidal, 4=per-frame summation")
	ForcesCmd.Flags().Float64("threshold", 0, "vorticity threshold passed to the masking collaborator")
	ForcesCmd.Flags().Float64("thresholdOffset", 0, "vorticity offset subtracted before thresholding")
	ForcesCmd.Flags().String("maskMode", "absolute", "threshold mode: absolute | relative")
}

type ForcesModel struct {
	StitchModel     StitchModel
	PolicySelector  int
	Threshold       float64
	ThresholdOffset float64
	MaskMode        string
}

func RunForces(fm *ForcesModel) (err error) {
	policy, err := forces.NewCirculationPolicy(fm.PolicySelector)
	if err != nil {
		return
	}
	wp, fs, err := preparePipeline(fm.StitchModel.DatasetDir, fm.StitchModel.ParamsFile)
	if err != nil {
		return
	}

	var w *wake.StitchedWake
	if policy == forces.StitchedRaw || policy == forces.StitchedThresholded {
		estimator := &wake.ShiftEstimator{
			Bounds:   fm.StitchModel.Bounds,
			Quantity: wake.NewCorrelationQuantity(fm.StitchModel.Quantity),
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
	}

	de := &forces.DragEstimator{
		Seq:          fs,
		UInf:         wp.FreestreamVelocity,
		Rho:          wp.AirDensity,
		Chord:        wp.Chord,
		InitialFrame: wp.CycleStartFrame,
		FinalFrame:   wp.CycleEndFrame,
	}
	steady, err := de.Steady()
	if err != nil {
		return
	}
	unsteady, err := de.Unsteady()
	if err != nil {
		return
	}

	le := &forces.LiftEstimator{
		Wake:         w,
		Seq:          fs,
		Grad:         wake.LSGradient,
		UInf:         wp.FreestreamVelocity,
		Rho:          wp.AirDensity,
		Mu:           wp.AirViscosity,
		Chord:        wp.Chord,
		InitialFrame: wp.CycleStartFrame,
		FinalFrame:   wp.CycleEndFrame,
		Thresholds: forces.ThresholdConfig{
			Offset:    fm.ThresholdOffset,
			Mode:      wake.NewMaskMode(fm.MaskMode),
			Threshold: fm.Threshold,
		},
	}
	circ, err := le.CirculationSeries(policy)
	if err != nil {
		return
	}

	if len(circ.CircNorm) > 0 {
		fmt.Printf("final normalized circulation = %8.5f, Cl_circ = %8.5f\n",
			circ.CircNorm[len(circ.CircNorm)-1], circ.ClCirc[len(circ.ClCirc)-1])
	}
	reportFile := filepath.Join(fm.StitchModel.OutDir, "forces.html")
	if err = plotting.ForceReport(steady, unsteady, circ, reportFile); err != nil {
		return
	}
	fmt.Printf("wrote force report to %s\n", reportFile)
	return
}
