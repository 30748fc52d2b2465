package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"statforge/internal/media"
	"statforge/internal/motiondetect"
	"statforge/internal/protocols"
	"statforge/internal/repset"
	"statforge/internal/store"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var (
		player    string
		position  string
		notes     string
		modeFlag  string
		flight    float64
		roiFlag   string
		maxReps   int
		spacing   float64
		window    float64
		threshold float64
		save      bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <video>",
		Short: "Auto-build a rep set from a recording",
		Long: `Analyze runs the full detection pipeline over one recording: catch events
from the audio track, the throwing motion after each catch from the video, and
pop metrics for every surviving pair.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.ensureLogger()
			videoPath := args[0]
			if !media.IsVideoFile(videoPath) {
				return fmt.Errorf("%s is not a supported recording (use .mov, .mp4, or .m4v)", videoPath)
			}

			mode, estimatedFlight, err := resolveMode(modeFlag, cmd.Flags().Changed("flight"), flight, cfg.Detection.EstimatedFlightSeconds)
			if err != nil {
				return err
			}
			roi, err := parseROI(roiFlag, cfg.Detection.ROIPreset)
			if err != nil {
				return err
			}
			if maxReps == 0 {
				maxReps = cfg.Detection.MaxReps
			}
			if spacing == 0 {
				spacing = cfg.Detection.MinSpacingSeconds
			}
			if window == 0 {
				window = cfg.Detection.ReleaseWindowSeconds
			}
			if !cmd.Flags().Changed("threshold") {
				threshold = cfg.Detection.ConfidenceThreshold
			}

			wavDir, err := os.MkdirTemp("", "statforge-audio-")
			if err != nil {
				return fmt.Errorf("create temp dir: %w", err)
			}
			defer os.RemoveAll(wavDir)

			wavPath := filepath.Join(wavDir, "audio.wav")
			if err := media.ExtractAudioWAV(cmd.Context(), cfg.Tools.FFmpegBinary, videoPath, wavPath); err != nil {
				return err
			}
			sig, err := media.LoadWAVMono(wavPath)
			if err != nil {
				return err
			}

			openFrames := func() (motiondetect.FrameSource, error) {
				return media.OpenVideo(cmd.Context(), cfg.Tools.FFprobeBinary, cfg.Tools.FFmpegBinary, videoPath)
			}
			reps, summary, err := repset.Build(cmd.Context(), sig, openFrames, repset.Options{
				MaxReps:                maxReps,
				MinSpacingSeconds:      spacing,
				ReleaseWindowSeconds:   window,
				ROI:                    roi,
				Mode:                   mode,
				ConfidenceThreshold:    threshold,
				EstimatedFlight:        estimatedFlight,
				HeightStdDevMultiplier: cfg.Detection.HeightStdDevMultiplier,
			}, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if summary.Found == 0 {
				fmt.Fprintln(out, "No catch events detected in the recording.")
				return nil
			}

			fmt.Fprintln(out, renderRepTable(reps))
			fmt.Fprintf(out, "Found %d candidate(s): kept %d, dropped %d\n", summary.Found, summary.Kept, summary.Dropped)
			warnLowConfidence(out, reps, cfg.Detection.LowConfidenceWarn)

			if !save {
				return nil
			}
			return ctx.withStore(func(st *store.Store) error {
				session, err := st.Save(cmd.Context(), store.Session{
					PlayerName:   player,
					Position:     protocols.NormalizePosition(position),
					AnalysisType: protocols.TypeCatcherPopTime,
					VideoPath:    videoPath,
					ROIPreset:    roi.Preset,
					MetricMode:   mode,
					Notes:        notes,
					Reps:         reps,
					Summary:      summary,
				})
				if err != nil {
					return err
				}
				printOK(out, "Saved session %s", session.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&player, "player", "", "Player name recorded with the session")
	cmd.Flags().StringVar(&position, "position", "", "Player position (defaults to Catcher)")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form session notes")
	cmd.Flags().StringVar(&modeFlag, "mode", string(protocols.ModeTransfer), "Metric mode: transfer or estimated_pop")
	cmd.Flags().Float64Var(&flight, "flight", 0, "Estimated throw flight time in seconds (estimated_pop mode)")
	cmd.Flags().StringVar(&roiFlag, "roi", "", "Motion search region: preset name or x1,y1,x2,y2")
	cmd.Flags().IntVar(&maxReps, "max-reps", 0, "Maximum catch candidates to keep")
	cmd.Flags().Float64Var(&spacing, "spacing", 0, "Minimum seconds between catch candidates")
	cmd.Flags().Float64Var(&window, "window", 0, "Seconds of video searched after each catch")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Drop reps whose detection confidence falls below this")
	cmd.Flags().BoolVar(&save, "save", false, "Persist the rep set as a session")

	return cmd
}

func resolveMode(modeFlag string, flightSet bool, flight, defaultFlight float64) (protocols.Mode, *float64, error) {
	switch protocols.Mode(strings.TrimSpace(modeFlag)) {
	case protocols.ModeTransfer, "":
		return protocols.ModeTransfer, nil, nil
	case protocols.ModeEstimatedPop:
		value := defaultFlight
		if flightSet {
			value = flight
		}
		return protocols.ModeEstimatedPop, &value, nil
	case protocols.ModeFullPop:
		return "", nil, fmt.Errorf("full_pop mode needs target markers; use `statforge measure` with a target marker instead")
	default:
		return "", nil, fmt.Errorf("unknown mode %q (expected transfer or estimated_pop)", modeFlag)
	}
}

func renderRepTable(reps []repset.RepMark) string {
	headers := []string{"#", "Catch", "Release", "Transfer", "Pop", "Catch Conf", "Release Conf"}
	aligns := []columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight}
	rows := make([][]string, 0, len(reps))
	for i, rep := range reps {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			formatSeconds(rep.CatchTime),
			formatSeconds(rep.ReleaseTime),
			formatSeconds(rep.Transfer),
			formatSeconds(rep.PopTotal),
			formatConfidence(rep.CatchConf),
			formatConfidence(rep.ReleaseConf),
		})
	}
	return renderTable(headers, rows, aligns)
}

func warnLowConfidence(out io.Writer, reps []repset.RepMark, warnBelow float64) {
	for i, rep := range reps {
		catchLow := rep.CatchConf != nil && *rep.CatchConf < warnBelow
		releaseLow := rep.ReleaseConf != nil && *rep.ReleaseConf < warnBelow
		if catchLow || releaseLow {
			printWarn(out, "Rep %d has low detection confidence; verify its markers manually.", i+1)
		}
	}
}
