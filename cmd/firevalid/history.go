package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"firevalid/internal/logging"
	"firevalid/internal/raster"
	"firevalid/internal/toa"
)

var (
	histGlob     string
	histSamples  int
	histCellArea float64
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the simulated burn-area history",
	Long:  "history builds the cumulative burned-area curve from a time-of-arrival raster stack and prints it as JSON, without running a full validation.",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.New()
		ctx := logging.NewContext(context.Background(), logger)

		stack, err := raster.OpenStack(histGlob)
		if err != nil {
			return err
		}
		g := stack[0]
		logging.FromContext(ctx).Info("loaded surface", "frames", len(stack),
			"shape", fmt.Sprintf("%dx%d", g.Height, g.Width))

		cellArea := histCellArea
		if cellArea <= 0 {
			cellArea = g.Transform.CellArea()
		}
		curve := toa.History(g, cellArea, histSamples)

		data, err := json.MarshalIndent(curve, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	historyCmd.Flags().StringVar(&histGlob, "toa", "outputs/time_of_arrival_*.nc", "Glob matching time-of-arrival rasters")
	historyCmd.Flags().IntVar(&histSamples, "samples", 0, "Number of evenly spaced thresholds (0 = exact curve)")
	historyCmd.Flags().Float64Var(&histCellArea, "cell-area", 0, "Per-cell area in m² (0 = derive from grid transform)")
}
