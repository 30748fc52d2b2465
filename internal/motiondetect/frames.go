package motiondetect

// Frame is a single decoded grayscale frame. Pix holds one luminance byte per
// pixel in row-major order with stride Width.
type Frame struct {
	Width  int
	Height int
	Pix    []uint8
}

// FrameSource is a seekable sequence of grayscale frames. Implementations wrap
// a decoder resource; callers that hand a source to Detect give up ownership,
// and the detector closes it on every exit path.
type FrameSource interface {
	// FPS returns the native frame rate, > 0.
	FPS() float64
	// FrameCount returns the total frame count, or 0 when unknown.
	FrameCount() int
	// Seek positions the source so the next frame decoded is at or after the
	// given timestamp in seconds.
	Seek(seconds float64) error
	// Next decodes the next frame, returning io.EOF when the stream ends.
	Next() (*Frame, error)
	// Close releases the underlying decoder resource. Safe to call twice.
	Close() error
}
