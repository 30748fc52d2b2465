package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"statforge/internal/protocols"
)

func newMeasureCommand() *cobra.Command {
	var (
		analysisType string
		markerFlags  []string
		flight       float64
	)

	cmd := &cobra.Command{
		Use:   "measure",
		Short: "Compute a protocol result from manually marked times",
		Example: `  statforge measure --type "Catcher Pop Time" --marker catch=0.50 --marker release=1.25 --marker target=2.05
  statforge measure --type "Infield Transfer" --marker glove=1.10 --marker release=1.82`,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			markers, err := parseMarkers(markerFlags)
			if err != nil {
				return err
			}

			var opts protocols.Options
			if cmd.Flags().Changed("flight") {
				opts.EstimatedFlight = &flight
			}

			result, err := protocols.ComputeResult(analysisType, markers, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s\n", analysisType, formatSeconds(result.DurationSeconds))
			if result.TransferSeconds != nil {
				fmt.Fprintf(out, "  transfer: %s\n", formatSeconds(*result.TransferSeconds))
			}
			if result.ThrowSeconds != nil {
				fmt.Fprintf(out, "  throw:    %s\n", formatSeconds(*result.ThrowSeconds))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&analysisType, "type", protocols.TypeCatcherPopTime, "Analysis type to compute")
	cmd.Flags().StringArrayVar(&markerFlags, "marker", nil, "Marker as name=seconds; repeat per marker")
	cmd.Flags().Float64Var(&flight, "flight", 0, "Estimated flight time when no target marker is set")

	return cmd
}
