package spectral

import "gonum.org/v1/gonum/dsp/window"

// hannWindow returns the Hann coefficients of length n together with the
// window energy (sum of squared coefficients) used for density scaling.
func hannWindow(n int) (coeffs []float64, energy float64) {
	coeffs = make([]float64, n)
	for i := range coeffs {
		coeffs[i] = 1
	}
	window.Hann(coeffs)
	for _, w := range coeffs {
		energy += w * w
	}
	return coeffs, energy
}
