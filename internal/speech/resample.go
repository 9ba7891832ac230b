package speech

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// resampleInt16 changes the sample rate of samples by truncating or padding
// its spectrum, which band-limits the result to the lower of the two rates.
func resampleInt16(samples []int16, fromRate, toRate int) []int16 {
	if fromRate == toRate || len(samples) == 0 {
		out := make([]int16, len(samples))
		copy(out, samples)
		return out
	}

	n := len(samples)
	m := int(int64(n) * int64(toRate) / int64(fromRate))
	if m == 0 {
		return nil
	}

	x := make([]float64, n)
	for i, s := range samples {
		x[i] = float64(s)
	}
	spectrum := fft.FFTReal(x)

	resized := make([]complex128, m)
	half := min(n, m) / 2
	for k := 0; k < half; k++ {
		resized[k] = spectrum[k]
	}
	for k := 1; k < half; k++ {
		resized[m-k] = spectrum[n-k]
	}

	scale := float64(m) / float64(n)
	out := make([]int16, m)
	for i, v := range fft.IFFT(resized) {
		out[i] = clampInt16(real(v) * scale)
	}
	return out
}

func clampInt16(v float64) int16 {
	v = math.Round(v)
	switch {
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	}
	return int16(v)
}

func int16ToInt(samples []int16) []int {
	out := make([]int, len(samples))
	for i, s := range samples {
		out[i] = int(s)
	}
	return out
}

func int16ToFloat32(samples []int16) []float32 {
	out := make([]float32, len(samples))
	for i, s := range samples {
		out[i] = float32(s) / 32768
	}
	return out
}
