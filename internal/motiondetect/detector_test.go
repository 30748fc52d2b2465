package motiondetect_test

import (
	"errors"
	"io"
	"math"
	"testing"

	"statforge/internal/analysis"
	"statforge/internal/motiondetect"
)

const (
	fakeW = 64
	fakeH = 48
)

type fakeSource struct {
	fps     float64
	frames  []*motiondetect.Frame
	pos     int
	closes  int
	seekErr error
	readErr error
}

func (f *fakeSource) FPS() float64    { return f.fps }
func (f *fakeSource) FrameCount() int { return len(f.frames) }

func (f *fakeSource) Seek(seconds float64) error {
	if f.seekErr != nil {
		return f.seekErr
	}
	f.pos = int(seconds * f.fps)
	return nil
}

func (f *fakeSource) Next() (*motiondetect.Frame, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	if f.pos >= len(f.frames) {
		return nil, io.EOF
	}
	frame := f.frames[f.pos]
	f.pos++
	return frame, nil
}

func (f *fakeSource) Close() error {
	f.closes++
	return nil
}

func uniformFrame(value uint8) *motiondetect.Frame {
	pix := make([]uint8, fakeW*fakeH)
	for i := range pix {
		pix[i] = value
	}
	return &motiondetect.Frame{Width: fakeW, Height: fakeH, Pix: pix}
}

// burstSource builds a static video with a short bright burst around burstFrame.
func burstSource(fps float64, frames, burstFrame int) *fakeSource {
	src := &fakeSource{fps: fps}
	for i := 0; i < frames; i++ {
		value := uint8(100)
		if i >= burstFrame && i < burstFrame+3 {
			value = 200
		}
		src.frames = append(src.frames, uniformFrame(value))
	}
	return src
}

func TestDetectFindsMotionBurst(t *testing.T) {
	src := burstSource(30, 120, 60) // burst at t=2.0s
	result, err := motiondetect.Detect(src, 1.0, motiondetect.ROI{Preset: motiondetect.PresetAuto}, 2.0, nil)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if math.Abs(result.ReleaseTime-2.0) > 0.1 {
		t.Errorf("release time %.3f, want near 2.0", result.ReleaseTime)
	}
	if result.Confidence < 0 || result.Confidence > 1 {
		t.Errorf("confidence %v outside [0,1]", result.Confidence)
	}
	if len(result.Candidates) == 0 || len(result.Candidates) > 5 {
		t.Errorf("expected 1..5 alternate candidates, got %d", len(result.Candidates))
	}
	if result.Candidates[0] != result.ReleaseTime {
		t.Errorf("top alternate %v should equal release time %v", result.Candidates[0], result.ReleaseTime)
	}
	if math.Abs(result.SampleInterval-1.0/30) > 1e-9 {
		t.Errorf("sample interval %v, want %v", result.SampleInterval, 1.0/30)
	}
	if src.closes == 0 {
		t.Error("frame source not closed on success")
	}
}

func TestDetectHighFPSSkipsFrames(t *testing.T) {
	src := burstSource(60, 240, 120)
	result, err := motiondetect.Detect(src, 1.0, motiondetect.ROI{}, 2.0, nil)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if math.Abs(result.SampleInterval-2.0/60) > 1e-9 {
		t.Errorf("sample interval %v, want every other frame at 60fps (%v)", result.SampleInterval, 2.0/60)
	}
}

func TestDetectDeterministic(t *testing.T) {
	first, err := motiondetect.Detect(burstSource(30, 120, 55), 1.0, motiondetect.ROI{}, 2.0, nil)
	if err != nil {
		t.Fatalf("first detect: %v", err)
	}
	second, err := motiondetect.Detect(burstSource(30, 120, 55), 1.0, motiondetect.ROI{}, 2.0, nil)
	if err != nil {
		t.Fatalf("second detect: %v", err)
	}
	if first.ReleaseTime != second.ReleaseTime || first.Confidence != second.Confidence {
		t.Errorf("detection not deterministic: %+v vs %+v", first, second)
	}
}

func TestDetectCustomROI(t *testing.T) {
	rect := &motiondetect.NormRect{X1: 0.1, Y1: 0.1, X2: 0.9, Y2: 0.9}
	result, err := motiondetect.Detect(burstSource(30, 120, 60), 1.0, motiondetect.ROI{Rect: rect}, 2.0, nil)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if math.Abs(result.ReleaseTime-2.0) > 0.1 {
		t.Errorf("release time %.3f, want near 2.0", result.ReleaseTime)
	}
}

func TestDetectWindowBounds(t *testing.T) {
	tests := []struct {
		name    string
		window  float64
		wantErr error
	}{
		{"zero window", 0, analysis.ErrInvalidParameter},
		{"negative window", -0.5, analysis.ErrInvalidParameter},
		{"above maximum", 3.01, analysis.ErrInvalidParameter},
		{"upper bound accepted", 3.0, nil},
		{"small window accepted", 0.2, nil},
		// Accepted as a parameter, but the 0.05s search offset leaves nothing
		// to scan.
		{"window inside offset", 0.01, analysis.ErrEmptyMotionWindow},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src := burstSource(30, 150, 40)
			_, err := motiondetect.Detect(src, 1.0, motiondetect.ROI{}, tc.window, nil)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			} else if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if src.closes == 0 {
				t.Error("frame source not closed")
			}
		})
	}
}

func TestDetectWindowPastEndOfVideo(t *testing.T) {
	src := burstSource(30, 30, 10) // 1s of video
	_, err := motiondetect.Detect(src, 2.0, motiondetect.ROI{}, 1.0, nil)
	if !errors.Is(err, analysis.ErrEmptyMotionWindow) {
		t.Fatalf("expected ErrEmptyMotionWindow, got %v", err)
	}
	if src.closes == 0 {
		t.Error("frame source not closed on window error")
	}
}

func TestDetectUnreadableFrame(t *testing.T) {
	src := burstSource(30, 120, 60)
	src.readErr = errors.New("decoder failure")
	_, err := motiondetect.Detect(src, 1.0, motiondetect.ROI{}, 2.0, nil)
	if !errors.Is(err, analysis.ErrUnreadableFrame) {
		t.Fatalf("expected ErrUnreadableFrame, got %v", err)
	}
	if src.closes == 0 {
		t.Error("frame source not closed on decode error")
	}
}

func TestDetectSeekFailure(t *testing.T) {
	src := burstSource(30, 120, 60)
	src.seekErr = errors.New("seek failure")
	_, err := motiondetect.Detect(src, 1.0, motiondetect.ROI{}, 2.0, nil)
	if !errors.Is(err, analysis.ErrUnreadableFrame) {
		t.Fatalf("expected ErrUnreadableFrame, got %v", err)
	}
}

func TestDetectNegativeCatchTime(t *testing.T) {
	src := burstSource(30, 120, 60)
	_, err := motiondetect.Detect(src, -0.1, motiondetect.ROI{}, 2.0, nil)
	if !errors.Is(err, analysis.ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestDetectInvalidCustomROI(t *testing.T) {
	tests := []struct {
		name string
		rect motiondetect.NormRect
	}{
		{"x out of range", motiondetect.NormRect{X1: -0.1, Y1: 0.1, X2: 0.9, Y2: 0.9}},
		{"inverted x", motiondetect.NormRect{X1: 0.8, Y1: 0.1, X2: 0.2, Y2: 0.9}},
		{"inverted y", motiondetect.NormRect{X1: 0.1, Y1: 0.9, X2: 0.9, Y2: 0.1}},
		{"y above one", motiondetect.NormRect{X1: 0.1, Y1: 0.1, X2: 0.9, Y2: 1.1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rect := tc.rect
			src := burstSource(30, 120, 60)
			_, err := motiondetect.Detect(src, 1.0, motiondetect.ROI{Rect: &rect}, 2.0, nil)
			if !errors.Is(err, analysis.ErrInvalidParameter) {
				t.Fatalf("expected ErrInvalidParameter, got %v", err)
			}
			if src.closes == 0 {
				t.Error("frame source not closed on ROI error")
			}
		})
	}
}

func TestDetectUnknownPresetFallsBackToAuto(t *testing.T) {
	result, err := motiondetect.Detect(burstSource(30, 120, 60), 1.0, motiondetect.ROI{Preset: "Upper Half"}, 2.0, nil)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if math.Abs(result.ReleaseTime-2.0) > 0.1 {
		t.Errorf("release time %.3f, want near 2.0", result.ReleaseTime)
	}
}
