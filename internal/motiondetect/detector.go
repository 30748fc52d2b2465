package motiondetect

import (
	"fmt"
	"sort"

	"log/slog"

	"gonum.org/v1/gonum/stat"

	"statforge/internal/analysis"
	"statforge/internal/logging"
)

const (
	// releaseSearchOffsetSeconds skips the impact itself so the catch frame
	// does not dominate the motion signal.
	releaseSearchOffsetSeconds = 0.05

	// maxWindowSeconds bounds how far past the catch the search may run.
	maxWindowSeconds = 3.0

	// highFPSThreshold is the frame rate above which every other frame is
	// skipped to bound decode cost.
	highFPSThreshold = 50.0

	fallbackFPS = 30.0

	maxAlternates = 5

	confidenceEpsilon = 1e-6
)

// Result is the release estimate for one detection window.
type Result struct {
	// ReleaseTime is the timestamp of maximum motion energy, in seconds.
	ReleaseTime float64
	// Confidence is maxScore/(maxScore+medianScore+eps), clamped to [0, 1].
	Confidence float64
	// Candidates holds up to 5 alternative times ordered by descending score.
	Candidates []float64
	// SampleInterval is the spacing between sampled frames in seconds.
	SampleInterval float64
}

// Detect searches the window after catchTime for the frame of maximum ROI
// motion. It takes ownership of src and closes it before returning.
func Detect(src FrameSource, catchTime float64, roi ROI, windowSeconds float64, logger *slog.Logger) (result Result, err error) {
	logger = logging.Ensure(logger).With("component", "motiondetect")
	defer func() {
		if closeErr := src.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close frame source: %w", closeErr)
		}
	}()

	if catchTime < 0 {
		return Result{}, analysis.Wrap(analysis.ErrInvalidParameter, "motiondetect", "validate", fmt.Sprintf("catch time must be non-negative, got %g", catchTime), nil)
	}
	if windowSeconds <= 0 || windowSeconds > maxWindowSeconds {
		return Result{}, analysis.Wrap(analysis.ErrInvalidParameter, "motiondetect", "validate", fmt.Sprintf("release window must be in (0, %.1f] seconds, got %g", maxWindowSeconds, windowSeconds), nil)
	}

	fps := src.FPS()
	if fps <= 0 {
		fps = fallbackFPS
	}
	duration := catchTime + windowSeconds + 0.5
	if frames := src.FrameCount(); frames > 0 {
		duration = float64(frames) / fps
	}

	start := catchTime + releaseSearchOffsetSeconds
	end := catchTime + windowSeconds
	if duration < end {
		end = duration
	}
	if end <= start {
		return Result{}, analysis.Wrap(analysis.ErrEmptyMotionWindow, "motiondetect", "resolve window",
			fmt.Sprintf("window [%.3f, %.3f] collapses past the end of the video", start, end), nil)
	}

	if seekErr := src.Seek(start); seekErr != nil {
		return Result{}, analysis.Wrap(analysis.ErrUnreadableFrame, "motiondetect", "seek", fmt.Sprintf("cannot position source at %.3fs", start), seekErr)
	}
	first, readErr := src.Next()
	if readErr != nil || first == nil {
		return Result{}, analysis.Wrap(analysis.ErrUnreadableFrame, "motiondetect", "decode", fmt.Sprintf("cannot decode starting frame at %.3fs", start), readErr)
	}

	rect, roiErr := roi.resolve(first.Width, first.Height)
	if roiErr != nil {
		return Result{}, roiErr
	}
	prevROI := extractROI(first, rect)

	frameStep := 1
	if fps > highFPSThreshold {
		frameStep = 2
	}
	sampleInterval := float64(frameStep) / fps

	var times, scores []float64
	idx := 1
	current := start
	for current <= end {
		frame, nextErr := src.Next()
		if nextErr != nil || frame == nil {
			break
		}
		current = start + float64(idx)/fps
		idx++
		if idx%frameStep != 0 {
			continue
		}
		curROI := extractROI(frame, rect)
		times = append(times, current)
		scores = append(scores, absDiffSum(curROI, prevROI))
		prevROI = curROI
	}

	if len(scores) == 0 {
		return Result{}, analysis.Wrap(analysis.ErrEmptyMotionWindow, "motiondetect", "scan", "no motion samples were produced in the detection window", nil)
	}

	top := 0
	for i, s := range scores {
		if s > scores[top] {
			top = i
		}
	}
	maxScore := scores[top]
	confidence := maxScore / (maxScore + median(scores) + confidenceEpsilon)

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })
	candidates := make([]float64, 0, maxAlternates)
	for _, i := range order {
		if len(candidates) == maxAlternates {
			break
		}
		candidates = append(candidates, times[i])
	}

	logger.Debug("release detected",
		"release_time", times[top],
		"samples", len(scores),
		"max_score", maxScore,
		"sample_interval", sampleInterval)

	return Result{
		ReleaseTime:    times[top],
		Confidence:     clamp01(confidence),
		Candidates:     candidates,
		SampleInterval: sampleInterval,
	}, nil
}

// extractROI copies the ROI region of a frame into a contiguous buffer.
func extractROI(frame *Frame, rect pixelRect) []uint8 {
	w := rect.width()
	out := make([]uint8, 0, w*rect.height())
	for y := rect.y1; y < rect.y2; y++ {
		row := frame.Pix[y*frame.Width+rect.x1 : y*frame.Width+rect.x2]
		out = append(out, row...)
	}
	return out
}

// absDiffSum sums the absolute luminance difference between two equally sized
// ROI buffers.
func absDiffSum(a, b []uint8) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	total := 0
	for i := 0; i < n; i++ {
		d := int(a[i]) - int(b[i])
		if d < 0 {
			d = -d
		}
		total += d
	}
	return float64(total)
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
