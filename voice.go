package main

import "sync"

// Envelope timing shared by both sources. Starts ramp up over
// fadeInTime; soft-stops ramp down over stopFadeTime with the
// oscillator halting stopHaltMargin later, so the gain is at zero
// before the voice is released.
const (
	fadeInTime     = 0.080
	stopFadeTime   = 0.060
	stopHaltMargin = 0.010
	testToneTail   = 0.200
)

// SourceKind tags the sound source a voice implements.
type SourceKind int

const (
	SourceNone SourceKind = iota
	SourceGenerator
	SourceTestTone
)

func (k SourceKind) String() string {
	switch k {
	case SourceNone:
		return "none"
	case SourceGenerator:
		return "generator"
	case SourceTestTone:
		return "test tone"
	}
	return "unknown"
}

// voice is one oscillator -> optional low-pass -> gain chain scheduled
// on the mixer's sample clock. done is closed exactly once, when the
// mixer retires the voice (or drops it after a scheduling failure).
type voice struct {
	kind   SourceKind
	osc    *Sine
	filter *LowPass
	gain   *Param

	// stopAfter is a relative deadline in samples applied when the
	// voice joins the mixer; 0 means the voice runs until stopped.
	stopAfter int64
	// stopAt is the absolute sample index at which the mixer halts the
	// voice; -1 while unscheduled. Owned by the mixer.
	stopAt   int64
	stopping bool

	done     chan struct{}
	doneOnce sync.Once
}

func (v *voice) finish() {
	v.doneOnce.Do(func() { close(v.done) })
}

// next renders one sample of the chain.
func (v *voice) next() float64 {
	s := v.osc.Next()
	if v.filter != nil {
		s = v.filter.Filter(s)
	}
	return s * v.gain.Step()
}

// newGeneratorVoice builds the knob-controlled source: sine at hz
// through the fixed low-pass, fading in to level. It runs until the
// session stops it.
func newGeneratorVoice(hz, level, sampleRate float64) *voice {
	g := NewParam(sampleRate, 0)
	g.Ramp(level, fadeInTime)
	return &voice{
		kind:   SourceGenerator,
		osc:    NewSineWave(hz, sampleRate),
		filter: NewLowPass(filterCutoffHz, filterQ, sampleRate),
		gain:   g,
		stopAt: -1,
		done:   make(chan struct{}),
	}
}

// newTestToneVoice builds the fixed calibration source: unfiltered sine
// with its whole envelope scheduled up front, so it fades in, holds,
// fades out and halts with no further calls.
func newTestToneVoice(cfg TestToneConfig, sampleRate float64) *voice {
	g := NewParam(sampleRate, 0)
	g.Ramp(cfg.Level, fadeInTime)
	g.Hold(cfg.Duration - fadeInTime - testToneTail)
	g.Ramp(0, testToneTail)
	return &voice{
		kind:      SourceTestTone,
		osc:       NewSineWave(cfg.Freq, sampleRate),
		gain:      g,
		stopAfter: int64(cfg.Duration * sampleRate),
		stopAt:    -1,
		done:      make(chan struct{}),
	}
}
