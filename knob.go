package main

import (
	"fmt"
	"math"
	"strconv"
	"sync/atomic"
)

const (
	// MinHz and MaxHz bound the generator frequency.
	MinHz = 20
	MaxHz = 120

	// knobSweep is how far the indicator turns either side of vertical,
	// in degrees.
	knobSweep = 135.0

	// dragSmoothWindow is how many pointer samples the drag average
	// spans.
	dragSmoothWindow = 4
)

// clampHz rounds v to the nearest integer Hz and clamps it to the knob
// range.
func clampHz(v float64) int {
	hz := int(math.Round(v))
	if hz < MinHz {
		hz = MinHz
	}
	if hz > MaxHz {
		hz = MaxHz
	}
	return hz
}

// hzToAngle maps hz onto the knob sweep, MinHz at -knobSweep degrees
// and MaxHz at +knobSweep.
func hzToAngle(hz int) float64 {
	t := float64(hz-MinHz) / float64(MaxHz-MinHz)
	return -knobSweep + t*2*knobSweep
}

// angleToHz is the inverse of hzToAngle; angles outside the sweep clamp
// to the nearest bound.
func angleToHz(deg float64) int {
	t := (deg + knobSweep) / (2 * knobSweep)
	return clampHz(MinHz + t*float64(MaxHz-MinHz))
}

// Display is the set of attribute values the UI surface renders: the
// readout text, the ARIA slider attributes, the indicator rotation and
// the active-class toggle.
type Display struct {
	Text          string
	AriaValueNow  string
	AriaValueText string
	RotateDeg     float64
	Active        bool
}

// Knob is the frequency control. It owns the stored Hz value, which
// outlives any one generator run, and pushes retargets into the bound
// session. All methods except SetActive belong to the control thread.
type Knob struct {
	hz      int
	session *Session
	smooth  *RingBuffer
	active  atomic.Bool
	render  func(Display)
}

// NewKnob returns a knob at the given initial frequency. render
// (optional) is invoked with a fresh Display after every change.
func NewKnob(hz int, render func(Display)) *Knob {
	return &Knob{
		hz:     clampHz(float64(hz)),
		smooth: NewRingBuffer(dragSmoothWindow),
		render: render,
	}
}

// Bind attaches the session that live retargets are pushed into.
func (k *Knob) Bind(s *Session) {
	k.session = s
}

func (k *Knob) Hz() int {
	return k.hz
}

// SetHz clamps and rounds v, stores it, retargets a sounding generator
// and refreshes the display.
func (k *Knob) SetHz(v float64) {
	k.hz = clampHz(v)
	if k.session != nil {
		k.session.Retarget(k.hz)
	}
	if k.render != nil {
		k.render(k.Display())
	}
}

// Key applies a keyboard adjustment. Names follow DOM KeyboardEvent.Key;
// unrecognized keys return false.
func (k *Knob) Key(name string) bool {
	switch name {
	case "ArrowUp", "ArrowRight":
		k.SetHz(float64(k.hz + 1))
	case "ArrowDown", "ArrowLeft":
		k.SetHz(float64(k.hz - 1))
	case "PageUp":
		k.SetHz(float64(k.hz + 5))
	case "PageDown":
		k.SetHz(float64(k.hz - 5))
	case "Home":
		k.SetHz(MinHz)
	case "End":
		k.SetHz(MaxHz)
	default:
		return false
	}
	return true
}

// BeginDrag resets the smoothing window for a new pointer gesture.
func (k *Knob) BeginDrag() {
	k.smooth.Reset()
}

// Drag maps a pointer position relative to the knob center onto the
// sweep. Zero degrees is up, clockwise positive; angles beyond the
// sweep clamp to the nearest bound instead of wrapping. The smoothing
// window absorbs pointer jitter.
func (k *Knob) Drag(x, y float64) {
	deg := math.Atan2(x, -y) * 180 / math.Pi
	if deg < -knobSweep {
		deg = -knobSweep
	}
	if deg > knobSweep {
		deg = knobSweep
	}
	k.smooth.Insert(deg)
	k.SetHz(float64(angleToHz(k.smooth.Average())))
}

// SetActive records the session's audio-active indicator. Safe to call
// from the session's callback.
func (k *Knob) SetActive(on bool) {
	k.active.Store(on)
}

// Display reports the attribute values for the current knob state.
func (k *Knob) Display() Display {
	return Display{
		Text:          fmt.Sprintf("%d Hz", k.hz),
		AriaValueNow:  strconv.Itoa(k.hz),
		AriaValueText: fmt.Sprintf("%d hertz", k.hz),
		RotateDeg:     hzToAngle(k.hz),
		Active:        k.active.Load(),
	}
}
