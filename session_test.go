package main

import (
	"sync"
	"testing"
	"time"
)

// indicatorLog records audio-active edges; the session invokes the
// callback from both the control thread and release watchers.
type indicatorLog struct {
	mu    sync.Mutex
	edges []bool
}

func (l *indicatorLog) set(on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.edges = append(l.edges, on)
}

func (l *indicatorLog) snapshot() []bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]bool(nil), l.edges...)
}

func newTestSession(t *testing.T) (*Session, *Mixer, *indicatorLog) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Output = "none"
	cfg.SampleRate = testSampleRate

	mix := NewMixer(cfg.SampleRate, cfg.MasterLevel)
	ind := &indicatorLog{}
	s := NewSession(mix, cfg, ind.set)
	t.Cleanup(func() {
		s.Close()
		mix.Close()
	})
	return s, mix, ind
}

// waitState waits for the release watcher to land the session in want.
// Simulated time must already have been rendered past the deadline.
func waitState(t *testing.T, s *Session, want State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.State() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("state = %v, want %v", s.State(), want)
}

func currentVoice(s *Session) *voice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// soundingVoices counts mixer voices that are not fading out.
func soundingVoices(m *Mixer) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, v := range m.voices {
		if !v.stopping {
			n++
		}
	}
	return n
}

func TestSessionGeneratorLifecycle(t *testing.T) {
	s, mix, _ := newTestSession(t)

	s.StartGenerator(30)
	if got := s.State(); got != GeneratorActive {
		t.Fatalf("state = %v after start, want %v", got, GeneratorActive)
	}
	v := currentVoice(s)
	if v == nil || v.kind != SourceGenerator {
		t.Fatalf("current voice = %+v, want a generator", v)
	}
	if got := v.osc.Freq(); got != 30 {
		t.Fatalf("oscillator frequency = %g, want 30", got)
	}
	if v.filter == nil {
		t.Fatal("generator voice has no low-pass stage")
	}

	renderSeconds(mix, 0.1)
	s.Stop()
	renderSeconds(mix, 0.1)
	waitState(t, s, Idle)

	if got := mix.Voices(); got != 0 {
		t.Fatalf("Voices() = %d after release, want 0", got)
	}
}

func TestSessionTestToneAutoStops(t *testing.T) {
	s, mix, _ := newTestSession(t)

	s.PlayTestTone()
	if got := s.State(); got != TestToneActive {
		t.Fatalf("state = %v after test tone start, want %v", got, TestToneActive)
	}
	v := currentVoice(s)
	if v.filter != nil {
		t.Fatal("test tone voice has a filter stage, want none")
	}
	if got := v.osc.Freq(); got != 3030 {
		t.Fatalf("oscillator frequency = %g, want 3030", got)
	}

	renderSeconds(mix, 8.5)
	if got := s.State(); got != TestToneActive {
		t.Fatalf("state = %v before the 9s mark, want %v", got, TestToneActive)
	}

	renderSeconds(mix, 0.6)
	waitState(t, s, Idle)
}

func TestSessionPanicFromIdleIsNoop(t *testing.T) {
	s, _, ind := newTestSession(t)

	s.Panic()
	if got := s.State(); got != Idle {
		t.Fatalf("state = %v after panic from idle, want %v", got, Idle)
	}
	if edges := ind.snapshot(); len(edges) != 0 {
		t.Fatalf("indicator edges = %v after panic from idle, want none", edges)
	}
}

func TestSessionPanicStopsActiveSource(t *testing.T) {
	s, mix, _ := newTestSession(t)

	s.PlayTestTone()
	s.Panic()
	renderSeconds(mix, 0.1)
	waitState(t, s, Idle)

	// A second panic while already idle changes nothing.
	s.Panic()
	if got := s.State(); got != Idle {
		t.Fatalf("state = %v after repeated panic, want %v", got, Idle)
	}
}

func TestSessionStartGeneratorWhileTestTone(t *testing.T) {
	s, mix, _ := newTestSession(t)

	s.PlayTestTone()
	old := currentVoice(s)
	renderSeconds(mix, 0.1)

	s.StartGenerator(40)
	if got := s.State(); got != GeneratorActive {
		t.Fatalf("state = %v after handover, want %v", got, GeneratorActive)
	}
	if !old.stopping {
		t.Fatal("test tone voice not stopping after handover")
	}
	if got := mix.Voices(); got != 2 {
		t.Fatalf("Voices() = %d during handover, want 2 (one draining)", got)
	}

	renderSeconds(mix, 0.2)
	if got := mix.Voices(); got != 1 {
		t.Fatalf("Voices() = %d after the old source drained, want 1", got)
	}
	if got := s.State(); got != GeneratorActive {
		t.Fatalf("state = %v after the old source drained, want %v", got, GeneratorActive)
	}
}

func TestSessionRedundantStartIsNoop(t *testing.T) {
	s, _, _ := newTestSession(t)

	s.StartGenerator(30)
	v := currentVoice(s)
	s.StartGenerator(45)
	if currentVoice(s) != v {
		t.Fatal("redundant start replaced the sounding generator")
	}

	s2, _, _ := newTestSession(t)
	s2.PlayTestTone()
	w := currentVoice(s2)
	s2.PlayTestTone()
	if currentVoice(s2) != w {
		t.Fatal("redundant test tone start replaced the sounding tone")
	}
}

func TestSessionRapidRestart(t *testing.T) {
	s, mix, _ := newTestSession(t)

	s.StartGenerator(30)
	old := currentVoice(s)
	s.Stop()
	s.StartGenerator(45) // faster than the 60 ms fade completes

	if got := s.State(); got != GeneratorActive {
		t.Fatalf("state = %v after rapid restart, want %v", got, GeneratorActive)
	}
	v := currentVoice(s)
	if v == old {
		t.Fatal("rapid restart reused the stopping voice")
	}
	if got := v.osc.Freq(); got != 45 {
		t.Fatalf("restarted frequency = %g, want 45", got)
	}

	renderSeconds(mix, 0.2)
	if got := s.State(); got != GeneratorActive {
		t.Fatalf("state = %v after the old voice drained, want %v", got, GeneratorActive)
	}
	if got := mix.Voices(); got != 1 {
		t.Fatalf("Voices() = %d after the old voice drained, want 1", got)
	}
}

func TestSessionMutualExclusion(t *testing.T) {
	s, mix, _ := newTestSession(t)

	ops := []func(){
		func() { s.StartGenerator(30) },
		func() { s.PlayTestTone() },
		func() { s.StartGenerator(80) },
		func() { s.Panic() },
		func() { s.PlayTestTone() },
		func() { s.Stop() },
		func() { s.StartGenerator(120) },
		func() { s.PlayTestTone() },
		func() { s.Panic() },
	}
	for i, op := range ops {
		op()
		if got := soundingVoices(mix); got > 1 {
			t.Fatalf("op %d: %d sounding voices, want at most 1", i, got)
		}
		renderSeconds(mix, 0.02)
		if got := soundingVoices(mix); got > 1 {
			t.Fatalf("op %d (after render): %d sounding voices, want at most 1", i, got)
		}
	}

	renderSeconds(mix, 0.2)
	waitState(t, s, Idle)
	if got := mix.Voices(); got != 0 {
		t.Fatalf("Voices() = %d after final panic drained, want 0", got)
	}
}

func TestSessionRetargetGlides(t *testing.T) {
	s, mix, _ := newTestSession(t)
	knob := NewKnob(30, nil)
	knob.Bind(s)

	s.StartGenerator(knob.Hz())
	renderSeconds(mix, 0.1)

	knob.SetHz(45)
	v := currentVoice(s)
	if got := v.osc.Freq(); got != 30 {
		t.Fatalf("frequency jumped to %g immediately after retarget, want glide from 30", got)
	}

	prev := v.osc.Freq()
	for i := 0; i < 20; i++ {
		renderSeconds(mix, 0.005)
		f := v.osc.Freq()
		if f < prev || f > 45 {
			t.Fatalf("glide not monotone toward 45: %g -> %g", prev, f)
		}
		prev = f
	}
	// 100 ms is five time constants; the glide should be essentially done.
	if prev < 44.8 {
		t.Fatalf("frequency = %g after five time constants, want ~45", prev)
	}
}

func TestSessionRetargetIgnoredWhenNotGenerating(t *testing.T) {
	s, mix, _ := newTestSession(t)

	s.Retarget(45) // idle: nothing to retune

	s.PlayTestTone()
	s.Retarget(45)
	if got := currentVoice(s).osc.Freq(); got != 3030 {
		t.Fatalf("test tone frequency = %g after retarget, want 3030", got)
	}
	_ = mix
}

func TestSessionIndicatorEdges(t *testing.T) {
	s, mix, ind := newTestSession(t)

	s.StartGenerator(40)
	if edges := ind.snapshot(); len(edges) != 1 || !edges[0] {
		t.Fatalf("indicator edges = %v after start, want [true]", edges)
	}

	// Handing over to the test tone keeps the indicator lit: no edge.
	s.PlayTestTone()
	if edges := ind.snapshot(); len(edges) != 1 {
		t.Fatalf("indicator edges = %v after handover, want no new edge", edges)
	}

	s.Stop()
	renderSeconds(mix, 0.1)
	waitState(t, s, Idle)
	if edges := ind.snapshot(); len(edges) != 2 || edges[1] {
		t.Fatalf("indicator edges = %v after release, want [true false]", edges)
	}
}

func TestSessionForcedResetOnStopFailure(t *testing.T) {
	s, mix, _ := newTestSession(t)

	s.StartGenerator(40)
	v := currentVoice(s)

	// Close the mixer so soft-stop scheduling fails; the session must
	// land in idle immediately rather than wedge.
	mix.Close()
	s.Stop()

	if got := s.State(); got != Idle {
		t.Fatalf("state = %v after failed soft-stop, want %v", got, Idle)
	}
	if !isDone(v) {
		t.Fatal("voice done not signalled after forced reset")
	}
	if got := mix.Voices(); got != 0 {
		t.Fatalf("Voices() = %d after forced reset, want 0", got)
	}
}

func TestSessionStartFailsWhenMixerClosed(t *testing.T) {
	s, mix, ind := newTestSession(t)

	mix.Close()
	s.StartGenerator(40)

	if got := s.State(); got != Idle {
		t.Fatalf("state = %v after failed start, want %v", got, Idle)
	}
	if edges := ind.snapshot(); len(edges) != 0 {
		t.Fatalf("indicator edges = %v after failed start, want none", edges)
	}
}
