package media

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

const extractSampleRate = 44100

var videoExtensions = map[string]struct{}{
	".mov": {},
	".mp4": {},
	".m4v": {},
}

// IsVideoFile reports whether the path carries a supported recording
// extension.
func IsVideoFile(path string) bool {
	_, ok := videoExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// ExtractAudioWAV transcodes the recording's audio track to a mono 44.1 kHz
// WAV file at outPath, overwriting any existing file.
func ExtractAudioWAV(ctx context.Context, binary, videoPath, outPath string) error {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	if strings.TrimSpace(videoPath) == "" {
		return errors.New("extract audio: empty video path")
	}
	if strings.TrimSpace(outPath) == "" {
		return errors.New("extract audio: empty output path")
	}

	cmd := exec.CommandContext(ctx, binary,
		"-hide_banner", "-loglevel", "error",
		"-y",
		"-i", videoPath,
		"-vn",
		"-ac", "1",
		"-ar", fmt.Sprint(extractSampleRate),
		outPath)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("extract audio: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
