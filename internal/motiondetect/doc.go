// Package motiondetect estimates the release timestamp that follows a catch by
// measuring frame-to-frame motion energy inside a region of interest.
//
// The detector seeks a FrameSource to just after the catch, diffs the ROI of
// each sampled frame against the previous sampled frame, and picks the time of
// maximum summed luminance difference. Confidence relates that maximum to the
// median motion score across the window. The frame source is closed on every
// exit path, since it typically wraps a native decoder process.
package motiondetect
