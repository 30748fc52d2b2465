package media

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"

	"statforge/internal/audiodetect"
)

// LoadWAVMono decodes a WAV file into a normalized mono signal. Multi-channel
// audio is downmixed by averaging and samples are scaled to [-1, 1] according
// to the source bit depth.
func LoadWAVMono(path string) (audiodetect.Signal, error) {
	file, err := os.Open(path)
	if err != nil {
		return audiodetect.Signal{}, fmt.Errorf("open wav: %w", err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return audiodetect.Signal{}, fmt.Errorf("decode wav %s: not a valid wav file", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return audiodetect.Signal{}, fmt.Errorf("decode wav %s: %w", path, err)
	}
	if buf == nil || buf.Format == nil || len(buf.Data) == 0 {
		return audiodetect.Signal{}, fmt.Errorf("decode wav %s: empty pcm payload", path)
	}

	var divisor float64
	switch decoder.BitDepth {
	case 8:
		divisor = 128
	case 16:
		divisor = 32768
	case 24:
		divisor = 8388608
	case 32:
		divisor = 2147483648
	default:
		return audiodetect.Signal{}, fmt.Errorf("decode wav %s: unsupported bit depth %d", path, decoder.BitDepth)
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	frames := len(buf.Data) / channels
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		sum := 0.0
		for c := 0; c < channels; c++ {
			value := float64(buf.Data[i*channels+c])
			if decoder.BitDepth == 8 {
				// 8-bit WAV is unsigned.
				value -= 128
			}
			sum += value / divisor
		}
		samples[i] = sum / float64(channels)
	}

	return audiodetect.Signal{SampleRate: buf.Format.SampleRate, Samples: samples}, nil
}
