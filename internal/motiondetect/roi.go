package motiondetect

import (
	"fmt"

	"statforge/internal/analysis"
)

// ROI preset names understood by Resolve. "Auto" and "Lower Middle" share the
// same rectangle; presets target the region where a throwing motion happens for
// a camera set up behind or beside the plate.
const (
	PresetAuto        = "Auto"
	PresetLowerMiddle = "Lower Middle"
	PresetLowerLeft   = "Lower Left"
	PresetLowerRight  = "Lower Right"
)

// NormRect is a normalized sub-rectangle of the frame, each coordinate in
// [0, 1] relative to frame width/height. Normalized form keeps a custom ROI
// resolution-independent across the frames of one video.
type NormRect struct {
	X1, Y1, X2, Y2 float64
}

// ROI selects the frame region searched for motion: a named preset, or an
// explicit normalized rectangle which takes precedence when set.
type ROI struct {
	Preset string
	Rect   *NormRect
}

var presetRects = map[string]NormRect{
	PresetAuto:        {0.20, 0.35, 0.80, 0.95},
	PresetLowerMiddle: {0.20, 0.35, 0.80, 0.95},
	PresetLowerLeft:   {0.00, 0.35, 0.60, 0.95},
	PresetLowerRight:  {0.40, 0.35, 1.00, 0.95},
}

// PresetNames returns the known preset names in display order.
func PresetNames() []string {
	return []string{PresetAuto, PresetLowerMiddle, PresetLowerLeft, PresetLowerRight}
}

// pixelRect is a resolved ROI in pixel coordinates, half-open on x2/y2.
type pixelRect struct {
	x1, y1, x2, y2 int
}

func (p pixelRect) width() int  { return p.x2 - p.x1 }
func (p pixelRect) height() int { return p.y2 - p.y1 }

func (r ROI) normalized() (NormRect, error) {
	if r.Rect != nil {
		n := *r.Rect
		if n.X1 < 0 || n.Y1 < 0 || n.X2 > 1 || n.Y2 > 1 || n.X1 >= n.X2 || n.Y1 >= n.Y2 {
			return NormRect{}, analysis.Wrap(analysis.ErrInvalidParameter, "motiondetect", "resolve roi",
				fmt.Sprintf("normalized rectangle (%g,%g,%g,%g) must satisfy 0<=x1<x2<=1 and 0<=y1<y2<=1", n.X1, n.Y1, n.X2, n.Y2), nil)
		}
		return n, nil
	}
	if rect, ok := presetRects[r.Preset]; ok {
		return rect, nil
	}
	// Unknown or empty preset falls back to the Auto region.
	return presetRects[PresetAuto], nil
}

// resolve converts the ROI to pixel bounds for a specific frame size, clamping
// so the region is always at least one pixel wide and tall.
func (r ROI) resolve(frameW, frameH int) (pixelRect, error) {
	norm, err := r.normalized()
	if err != nil {
		return pixelRect{}, err
	}
	x1 := clampInt(int(float64(frameW)*norm.X1), 0, frameW-1)
	y1 := clampInt(int(float64(frameH)*norm.Y1), 0, frameH-1)
	x2 := clampInt(int(float64(frameW)*norm.X2), x1+1, frameW)
	y2 := clampInt(int(float64(frameH)*norm.Y2), y1+1, frameH)
	return pixelRect{x1: x1, y1: y1, x2: x2, y2: y2}, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
