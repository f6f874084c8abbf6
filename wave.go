package main

import "math"

// DEFAULT_SAMPLE_RATE is a good sample rate since it is at least twice as much as 20kHz,
// the upper bound for human hearing. See https://audio46.com/blogs/audio46-guidepost/what-is-sample-rate-and-bit-depth-do-they-matter for more.
const DEFAULT_SAMPLE_RATE = 44100

// glideTau is the time constant for smoothed frequency retargets. A
// short exponential approach avoids audible stepping when the knob
// moves while the generator is sounding.
const glideTau = 0.020

// Sine represents a sine wave whose frequency is itself an automated
// parameter, so retargets glide instead of jumping.
type Sine struct {
	freq       *Param
	sampleRate float64

	currentAngle float64
}

// NewSineWave returns a new Sine wave.
func NewSineWave(freq, sampleRate float64) *Sine {
	return &Sine{
		freq:         NewParam(sampleRate, freq),
		sampleRate:   sampleRate,
		currentAngle: 0,
	}
}

// Freq returns the instantaneous oscillator frequency in Hz.
func (s *Sine) Freq() float64 {
	return s.freq.Value()
}

// SetFreq retunes the oscillator immediately.
func (s *Sine) SetFreq(hz float64) {
	s.freq.Set(hz)
}

// GlideTo retunes the oscillator with an exponential approach toward hz.
func (s *Sine) GlideTo(hz float64) {
	s.freq.Glide(hz, glideTau)
}

// Next generates and returns the next single sample, without regard for the value.
func (s *Sine) Next() float64 {
	sample := math.Sin(s.currentAngle)
	s.currentAngle += 2 * math.Pi * s.freq.Step() / s.sampleRate
	if s.currentAngle > 2*math.Pi {
		s.currentAngle -= 2 * math.Pi
	}
	return sample
}
