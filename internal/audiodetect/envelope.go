package audiodetect

// movingAverage smooths values with a centered uniform window of the given
// length, returning a slice of the same length. Edges are zero-padded, so the
// first and last half-window of output is attenuated rather than renormalized.
func movingAverage(values []float64, window int) []float64 {
	if window <= 1 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}

	out := make([]float64, len(values))
	half := (window - 1) / 2
	scale := 1.0 / float64(window)

	// Running sum over [i+half-(window-1), i+half], clamped to the slice.
	sum := 0.0
	lo, hi := 0, -1
	for i := range values {
		wantLo := i + half - (window - 1)
		wantHi := i + half
		if wantHi > len(values)-1 {
			wantHi = len(values) - 1
		}
		for hi < wantHi {
			hi++
			sum += values[hi]
		}
		for lo < wantLo {
			sum -= values[lo]
			lo++
		}
		out[i] = sum * scale
	}
	return out
}

func absEnvelope(samples []float64, window int) []float64 {
	abs := make([]float64, len(samples))
	for i, v := range samples {
		if v < 0 {
			v = -v
		}
		abs[i] = v
	}
	return movingAverage(abs, window)
}
