// Package config loads and validates the TOML configuration file.
//
// Defaults cover every field, so a missing file yields a usable configuration.
// The detection section exposes the tunable heuristics (height stddev
// multiplier, confidence thresholds, default flight estimate) as named settings
// rather than burying them as constants in the detectors.
package config
