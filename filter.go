package main

import "math"

const (
	// The generator runs through a fixed low-pass stage so only the
	// fundamental of the 20-120 Hz sweep reaches the output.
	filterCutoffHz = 120.0
	filterQ        = 0.707
)

// LowPass is a biquad low-pass section (RBJ cookbook coefficients).
type LowPass struct {
	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     float64
}

func NewLowPass(cutoff, q, sampleRate float64) *LowPass {
	w0 := 2 * math.Pi * cutoff / sampleRate
	alpha := math.Sin(w0) / (2 * q)
	cosw0 := math.Cos(w0)
	a0 := 1 + alpha
	return &LowPass{
		b0: (1 - cosw0) / 2 / a0,
		b1: (1 - cosw0) / a0,
		b2: (1 - cosw0) / 2 / a0,
		a1: -2 * cosw0 / a0,
		a2: (1 - alpha) / a0,
	}
}

// Filter runs one sample through the section.
func (f *LowPass) Filter(x float64) float64 {
	y := f.b0*x + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
	f.x2, f.x1 = f.x1, x
	f.y2, f.y1 = f.y1, y
	return y
}
