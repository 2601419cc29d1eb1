package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Spectrum returns the magnitude spectrum of samples taken every dt seconds,
// with the mean removed. freqs[i] is the frequency in Hz of power[i].
func Spectrum(samples []float64, dt float64) (freqs, power []float64) {
	n := len(samples)
	if n < 2 || dt <= 0 {
		return nil, nil
	}

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(n)
	centered := make([]float64, n)
	for i, v := range samples {
		centered[i] = v - mean
	}

	coeffs := fft.FFTReal(centered)
	half := n/2 + 1
	freqs = make([]float64, half)
	power = make([]float64, half)
	for k := range half {
		freqs[k] = float64(k) / (float64(n) * dt)
		power[k] = cmplx.Abs(coeffs[k])
	}
	return freqs, power
}

// DominantFrequency is the non-zero frequency with the most power, or 0 when
// the signal is flat.
func DominantFrequency(samples []float64, dt float64) float64 {
	freqs, power := Spectrum(samples, dt)
	best, bestPower := 0, 0.0
	for k := 1; k < len(power); k++ {
		if power[k] > bestPower {
			best, bestPower = k, power[k]
		}
	}
	if best == 0 {
		return 0
	}
	return freqs[best]
}
