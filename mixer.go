package main

import (
	"fmt"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/transforms"
	log "github.com/golang/glog"
)

// Mixer renders active voices against a shared sample clock. The output
// backend pulls from Render on the audio thread; the session mutates
// the voice set on the control thread; the lock covers both.
type Mixer struct {
	mu         sync.Mutex
	sampleRate float64
	now        int64
	voices     []*voice
	master     float64
	buf        *audio.FloatBuffer
	closed     bool
}

func NewMixer(sampleRate int, master float64) *Mixer {
	return &Mixer{
		sampleRate: float64(sampleRate),
		master:     master,
		buf: &audio.FloatBuffer{
			Format: &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		},
	}
}

func (m *Mixer) SampleRate() float64 {
	return m.sampleRate
}

// Add schedules a voice against the clock, resolving its relative stop
// deadline if it has one.
func (m *Mixer) Add(v *voice) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("mixer is closed")
	}

	if v.stopAfter > 0 {
		v.stopAt = m.now + v.stopAfter
	} else {
		v.stopAt = -1
	}
	m.voices = append(m.voices, v)
	return nil
}

// Stop schedules the voice's soft-stop: pending gain automation is
// cancelled, the gain ramps to zero from its current value over fade
// seconds, and the voice halts stopHaltMargin later. Stopping an
// already-stopping voice is a no-op.
func (m *Mixer) Stop(v *voice, fade float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("mixer is closed")
	}
	if v.stopping {
		return nil
	}

	v.stopping = true
	v.gain.Cancel()
	v.gain.Ramp(0, fade)
	v.stopAt = m.now + int64((fade+stopHaltMargin)*m.sampleRate)
	return nil
}

// Drop releases a voice without an envelope, signalling completion
// immediately. Used when soft-stop scheduling fails.
func (m *Mixer) Drop(v *voice) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.voices[:0]
	for _, w := range m.voices {
		if w != v {
			kept = append(kept, w)
		}
	}
	m.voices = kept
	v.finish()
}

// Retarget glides the voice's oscillator toward hz.
func (m *Mixer) Retarget(v *voice, hz float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v.osc.GlideTo(hz)
}

// Render fills out with the next len(out) mono samples and advances the
// clock, retiring any voice that passed its stop deadline.
func (m *Mixer) Render(out []float32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		for i := range out {
			out[i] = 0
		}
		return
	}

	if len(m.buf.Data) < len(out) {
		m.buf.Data = make([]float64, len(out))
	}
	data := m.buf.Data[:len(out)]

	for i := range data {
		var s float64
		for _, v := range m.voices {
			if v.stopAt < 0 || m.now < v.stopAt {
				s += v.next()
			}
		}
		data[i] = s
		m.now++
	}

	kept := m.voices[:0]
	for _, v := range m.voices {
		if v.stopAt >= 0 && m.now >= v.stopAt {
			v.finish()
			continue
		}
		kept = append(kept, v)
	}
	m.voices = kept

	scratch := &audio.FloatBuffer{Format: m.buf.Format, Data: data}
	if err := transforms.Gain(scratch, m.master); err != nil {
		log.Errorf("failed to apply master gain: %v", err)
	}
	for i, s := range data {
		out[i] = float32(s)
	}
}

// Voices reports how many voices the mixer holds, draining ones included.
func (m *Mixer) Voices() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.voices)
}

// Close retires every voice and fails all further scheduling. Render
// keeps working, producing silence, so a backend that is still pulling
// never blocks.
func (m *Mixer) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true
	for _, v := range m.voices {
		v.finish()
	}
	m.voices = nil
}
