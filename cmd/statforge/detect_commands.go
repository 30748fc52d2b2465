package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"statforge/internal/audiodetect"
	"statforge/internal/media"
	"statforge/internal/motiondetect"
)

func newDetectCommand(ctx *commandContext) *cobra.Command {
	detectCmd := &cobra.Command{
		Use:   "detect",
		Short: "Run a single detector against a recording",
	}

	detectCmd.AddCommand(newDetectCatchesCommand(ctx))
	detectCmd.AddCommand(newDetectReleaseCommand(ctx))

	return detectCmd
}

func newDetectCatchesCommand(ctx *commandContext) *cobra.Command {
	var (
		maxCandidates int
		spacing       float64
		multiplier    float64
	)

	cmd := &cobra.Command{
		Use:   "catches <audio.wav|video>",
		Short: "List catch sound candidates from the audio track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.ensureLogger()

			sig, err := loadSignal(cmd, ctx, args[0])
			if err != nil {
				return err
			}

			if maxCandidates == 0 {
				maxCandidates = cfg.Detection.MaxReps
			}
			if spacing == 0 {
				spacing = cfg.Detection.MinSpacingSeconds
			}
			if multiplier == 0 {
				multiplier = cfg.Detection.HeightStdDevMultiplier
			}

			candidates, err := audiodetect.DetectCandidates(sig, audiodetect.Options{
				MaxCandidates:          maxCandidates,
				MinSpacingSeconds:      spacing,
				HeightStdDevMultiplier: multiplier,
			}, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			headers := []string{"#", "Time", "Confidence", "Strength"}
			aligns := []columnAlignment{alignRight, alignRight, alignRight, alignRight}
			rows := make([][]string, 0, len(candidates))
			for i, c := range candidates {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					formatSeconds(c.Time),
					fmt.Sprintf("%.2f", c.Confidence),
					fmt.Sprintf("%.4f", c.Strength),
				})
			}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			fmt.Fprintf(out, "%d candidate(s) in %s of audio\n", len(candidates), formatSeconds(sig.Duration()))
			return nil
		},
	}

	cmd.Flags().IntVar(&maxCandidates, "max", 0, "Maximum candidates to report")
	cmd.Flags().Float64Var(&spacing, "spacing", 0, "Minimum seconds between candidates")
	cmd.Flags().Float64Var(&multiplier, "multiplier", 0, "Stddev multiplier for the peak height threshold")

	return cmd
}

func newDetectReleaseCommand(ctx *commandContext) *cobra.Command {
	var (
		catchTime float64
		roiFlag   string
		window    float64
	)

	cmd := &cobra.Command{
		Use:   "release <video>",
		Short: "Find the throwing motion after a known catch time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.ensureLogger()
			if !cmd.Flags().Changed("catch") {
				return fmt.Errorf("--catch is required")
			}

			roi, err := parseROI(roiFlag, cfg.Detection.ROIPreset)
			if err != nil {
				return err
			}
			if window == 0 {
				window = cfg.Detection.ReleaseWindowSeconds
			}

			src, err := media.OpenVideo(cmd.Context(), cfg.Tools.FFprobeBinary, cfg.Tools.FFmpegBinary, args[0])
			if err != nil {
				return err
			}
			result, err := motiondetect.Detect(src, catchTime, roi, window, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Release time: %s (confidence %.2f)\n", formatSeconds(result.ReleaseTime), result.Confidence)
			if len(result.Candidates) > 1 {
				alternates := make([]string, 0, len(result.Candidates)-1)
				for _, t := range result.Candidates[1:] {
					alternates = append(alternates, formatSeconds(t))
				}
				fmt.Fprintf(out, "Alternates: %s\n", strings.Join(alternates, ", "))
			}
			if cfg.Detection.LowConfidenceWarn > 0 && result.Confidence < cfg.Detection.LowConfidenceWarn {
				printWarn(out, "Low motion confidence; verify the release marker manually.")
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&catchTime, "catch", 0, "Catch time in seconds the search starts from")
	cmd.Flags().StringVar(&roiFlag, "roi", "", "Motion search region: preset name or x1,y1,x2,y2")
	cmd.Flags().Float64Var(&window, "window", 0, "Seconds of video searched after the catch")

	return cmd
}

// loadSignal accepts either a WAV file directly or a recording whose audio
// track is extracted first.
func loadSignal(cmd *cobra.Command, ctx *commandContext, path string) (audiodetect.Signal, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		return media.LoadWAVMono(path)
	}
	if !media.IsVideoFile(path) {
		return audiodetect.Signal{}, fmt.Errorf("%s is neither a wav file nor a supported recording", path)
	}

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return audiodetect.Signal{}, err
	}
	wavDir, err := os.MkdirTemp("", "statforge-audio-")
	if err != nil {
		return audiodetect.Signal{}, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(wavDir)

	wavPath := filepath.Join(wavDir, "audio.wav")
	if err := media.ExtractAudioWAV(cmd.Context(), cfg.Tools.FFmpegBinary, path, wavPath); err != nil {
		return audiodetect.Signal{}, err
	}
	return media.LoadWAVMono(wavPath)
}
