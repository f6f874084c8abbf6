package main

import (
	"math"
	"testing"
)

func TestLowPassPassesDC(t *testing.T) {
	f := NewLowPass(filterCutoffHz, filterQ, DEFAULT_SAMPLE_RATE)

	var y float64
	for i := 0; i < DEFAULT_SAMPLE_RATE; i++ {
		y = f.Filter(1)
	}
	if math.Abs(y-1) > 1e-3 {
		t.Fatalf("DC gain = %g, want ~1", y)
	}
}

func TestLowPassAttenuatesTestToneFrequency(t *testing.T) {
	const sr = DEFAULT_SAMPLE_RATE
	f := NewLowPass(filterCutoffHz, filterQ, sr)

	// Run a 3030 Hz tone through and compare steady-state RMS values,
	// skipping the initial transient.
	var inSq, outSq float64
	n := 0
	for i := 0; i < sr; i++ {
		x := math.Sin(2 * math.Pi * 3030 * float64(i) / sr)
		y := f.Filter(x)
		if i < sr/10 {
			continue
		}
		inSq += x * x
		outSq += y * y
		n++
	}

	inRMS := math.Sqrt(inSq / float64(n))
	outRMS := math.Sqrt(outSq / float64(n))
	if outRMS > 0.02*inRMS {
		t.Fatalf("3030 Hz RMS through 120 Hz low-pass = %g (input %g), want strong attenuation", outRMS, inRMS)
	}
}

func TestLowPassPassesInBandTone(t *testing.T) {
	const sr = DEFAULT_SAMPLE_RATE
	f := NewLowPass(filterCutoffHz, filterQ, sr)

	var inSq, outSq float64
	n := 0
	for i := 0; i < sr; i++ {
		x := math.Sin(2 * math.Pi * 30 * float64(i) / sr)
		y := f.Filter(x)
		if i < sr/10 {
			continue
		}
		inSq += x * x
		outSq += y * y
		n++
	}

	ratio := math.Sqrt(outSq) / math.Sqrt(inSq)
	if ratio < 0.9 || ratio > 1.1 {
		t.Fatalf("30 Hz gain through 120 Hz low-pass = %g, want ~1", ratio)
	}
}
