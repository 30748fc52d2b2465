package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"statforge/internal/motiondetect"
)

// Video streams grayscale frames from a recording via ffmpeg rawvideo output.
// It implements motiondetect.FrameSource. Seek restarts the decoder at the
// requested offset, so repeated searches over one recording stay cheap.
type Video struct {
	ctx        context.Context
	binary     string
	path       string
	width      int
	height     int
	fps        float64
	frameCount int

	cmd    *exec.Cmd
	stdout io.ReadCloser
}

// OpenVideo probes the recording and prepares a frame source for it. The
// decoder process starts lazily on the first Seek or Next call.
func OpenVideo(ctx context.Context, ffprobeBinary, ffmpegBinary, path string) (*Video, error) {
	if !IsVideoFile(path) {
		return nil, fmt.Errorf("open video %s: unsupported file type", path)
	}

	probe, err := Inspect(ctx, ffprobeBinary, path)
	if err != nil {
		return nil, err
	}
	stream := probe.VideoStream()
	if stream == nil {
		return nil, fmt.Errorf("open video %s: no video stream", path)
	}
	if stream.Width <= 0 || stream.Height <= 0 {
		return nil, fmt.Errorf("open video %s: missing frame dimensions", path)
	}

	ffmpegBinary = strings.TrimSpace(ffmpegBinary)
	if ffmpegBinary == "" {
		ffmpegBinary = "ffmpeg"
	}
	return &Video{
		ctx:        ctx,
		binary:     ffmpegBinary,
		path:       path,
		width:      stream.Width,
		height:     stream.Height,
		fps:        stream.FPS(),
		frameCount: stream.FrameTotal(probe.DurationSeconds()),
	}, nil
}

// FPS returns the probed frame rate.
func (v *Video) FPS() float64 { return v.fps }

// FrameCount returns the probed frame total.
func (v *Video) FrameCount() int { return v.frameCount }

// Seek positions the stream at the given offset by respawning the decoder
// with an input seek.
func (v *Video) Seek(seconds float64) error {
	if seconds < 0 {
		seconds = 0
	}
	if err := v.stop(); err != nil {
		return err
	}
	return v.spawn(seconds)
}

// Next returns the next decoded frame, or io.EOF once the stream is
// exhausted.
func (v *Video) Next() (*motiondetect.Frame, error) {
	if v.cmd == nil {
		if err := v.spawn(0); err != nil {
			return nil, err
		}
	}

	pix := make([]uint8, v.width*v.height)
	if _, err := io.ReadFull(v.stdout, pix); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read frame: %w", err)
	}
	return &motiondetect.Frame{Width: v.width, Height: v.height, Pix: pix}, nil
}

// Close stops the decoder process.
func (v *Video) Close() error {
	return v.stop()
}

func (v *Video) spawn(seconds float64) error {
	args := []string{"-hide_banner", "-loglevel", "error"}
	if seconds > 0 {
		args = append(args, "-ss", fmt.Sprintf("%.6f", seconds))
	}
	args = append(args,
		"-i", v.path,
		"-an",
		"-f", "rawvideo",
		"-pix_fmt", "gray",
		"pipe:1")

	cmd := exec.CommandContext(v.ctx, v.binary, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("decoder pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start decoder: %w", err)
	}
	v.cmd = cmd
	v.stdout = stdout
	return nil
}

func (v *Video) stop() error {
	if v.cmd == nil {
		return nil
	}
	cmd := v.cmd
	stdout := v.stdout
	v.cmd = nil
	v.stdout = nil

	// Closing stdout unblocks ffmpeg, which exits once its pipe breaks.
	_ = stdout.Close()
	if cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
	_ = cmd.Wait()
	return nil
}
