// Package repset assembles a full list of timed reps from one recording.
//
// The assembler chains the audio onset detector and the motion release detector
// across every catch candidate, drops candidates that fail release detection or
// fall under the configured confidence threshold, and reports a found/kept/
// dropped summary whose counts always reconcile. An empty recording is a
// legitimate empty result, not an error. Results preserve catch-time order and
// each rep carries its own detection confidences for later audit.
package repset
