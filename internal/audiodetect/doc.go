// Package audiodetect locates candidate catch events (ball-into-glove impacts)
// in a mono audio waveform.
//
// The detector smooths the absolute signal into a moving-average envelope, scans
// it for local maxima above a baseline-plus-stddev threshold, scores each peak
// by prominence relative to the strongest one, and deduplicates candidates that
// fall inside the configured minimum spacing. It is a pure function of its
// inputs: no I/O, no hidden state, identical inputs produce identical results.
//
// Audio extraction from the media container is the media package's concern; this
// package only sees samples and a sample rate.
package audiodetect
