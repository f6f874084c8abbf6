package main

import "math"

type segKind int

const (
	segRamp segKind = iota
	segHold
	segGlide
)

// segment is one pending stretch of automation. Ramp increments are
// computed lazily when the segment becomes the head, so a ramp always
// departs from wherever the parameter actually is at that moment.
type segment struct {
	kind    segKind
	target  float64
	n       int
	dx      float64
	coef    float64
	started bool
}

// Param is a scheduled automation value advanced one sample at a time.
// It supports the envelope shapes the session needs: immediate set,
// linear ramp over a duration, hold, and exponential approach. All
// methods must be called under the owning mixer's lock.
type Param struct {
	sampleRate float64
	x          float64
	segs       []*segment
}

func NewParam(sampleRate, initial float64) *Param {
	return &Param{sampleRate: sampleRate, x: initial}
}

// Value returns the current value without advancing time.
func (p *Param) Value() float64 {
	return p.x
}

// Set drops any pending automation and jumps to v.
func (p *Param) Set(v float64) {
	p.segs = nil
	p.x = v
}

// Cancel drops any pending automation, holding the current value.
func (p *Param) Cancel() {
	p.segs = nil
}

// Ramp appends a linear ramp to target lasting the given seconds.
func (p *Param) Ramp(target, seconds float64) {
	n := int(seconds * p.sampleRate)
	if n < 1 {
		n = 1
	}
	p.segs = append(p.segs, &segment{kind: segRamp, target: target, n: n})
}

// Hold appends a flat stretch of the given seconds.
func (p *Param) Hold(seconds float64) {
	n := int(seconds * p.sampleRate)
	if n < 1 {
		n = 1
	}
	p.segs = append(p.segs, &segment{kind: segHold, n: n})
}

// Glide replaces pending automation with an exponential approach toward
// target with time constant tau. The approach runs until superseded.
func (p *Param) Glide(target, tau float64) {
	coef := 1 - math.Exp(-1/(tau*p.sampleRate))
	p.segs = []*segment{{kind: segGlide, target: target, coef: coef}}
}

// Step advances one sample and returns the new value.
func (p *Param) Step() float64 {
	if len(p.segs) == 0 {
		return p.x
	}
	s := p.segs[0]
	switch s.kind {
	case segRamp:
		if !s.started {
			s.started = true
			s.dx = (s.target - p.x) / float64(s.n)
		}
		p.x += s.dx
		s.n--
		if s.n <= 0 {
			p.x = s.target
			p.segs = p.segs[1:]
		}
	case segHold:
		s.n--
		if s.n <= 0 {
			p.segs = p.segs[1:]
		}
	case segGlide:
		p.x += (s.target - p.x) * s.coef
	}
	return p.x
}
