package config

const (
	defaultDataDir = "~/.local/share/statforge"
	defaultLogDir  = "~/.local/share/statforge/logs"

	defaultLogFormat = "console"
	defaultLogLevel  = "info"

	defaultMaxReps                = 12
	defaultMinSpacingSeconds      = 1.5
	defaultReleaseWindowSeconds   = 1.2
	defaultROIPreset              = "Auto"
	defaultHeightStdDevMultiplier = 1.0
	defaultConfidenceThreshold    = 0.35
	defaultLowConfidenceWarn      = 0.35
	defaultEstimatedFlightSeconds = 0.8
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Tools: Tools{
			FFmpegBinary:  "ffmpeg",
			FFprobeBinary: "ffprobe",
		},
		Detection: Detection{
			MaxReps:                defaultMaxReps,
			MinSpacingSeconds:      defaultMinSpacingSeconds,
			ReleaseWindowSeconds:   defaultReleaseWindowSeconds,
			ROIPreset:              defaultROIPreset,
			HeightStdDevMultiplier: defaultHeightStdDevMultiplier,
			ConfidenceThreshold:    defaultConfidenceThreshold,
			LowConfidenceWarn:      defaultLowConfidenceWarn,
			EstimatedFlightSeconds: defaultEstimatedFlightSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
