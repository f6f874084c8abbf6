package main

import (
	"sync"

	log "github.com/golang/glog"
)

// State is the session's lifecycle state.
type State int

const (
	Idle State = iota
	GeneratorActive
	TestToneActive
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case GeneratorActive:
		return "generator active"
	case TestToneActive:
		return "test tone active"
	}
	return "unknown"
}

// Session owns at most one sound source against the mixer and drives
// its soft-stop envelopes. It is explicitly constructed and torn down
// with Close; onActive (optional) is invoked on every edge between
// idle and sounding, and must not call back into the session.
type Session struct {
	mu       sync.Mutex
	mix      *Mixer
	cfg      *Config
	state    State
	current  *voice
	onActive func(bool)
}

func NewSession(mix *Mixer, cfg *Config, onActive func(bool)) *Session {
	return &Session{
		mix:      mix,
		cfg:      cfg,
		onActive: onActive,
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// StartGenerator starts the knob-controlled tone at hz, soft-stopping
// the test tone first if it is sounding. Starting an already-sounding
// generator is a no-op.
func (s *Session) StartGenerator(hz int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v := s.current; v != nil && v.kind == SourceGenerator && !v.stopping {
		return
	}
	v := newGeneratorVoice(float64(hz), s.cfg.Generator.Level, s.mix.SampleRate())
	s.startLocked(v, GeneratorActive)
}

// PlayTestTone starts the fixed calibration tone, soft-stopping the
// generator first if it is sounding. The tone releases itself after its
// configured duration with no further calls.
func (s *Session) PlayTestTone() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v := s.current; v != nil && v.kind == SourceTestTone && !v.stopping {
		return
	}
	v := newTestToneVoice(s.cfg.TestTone, s.mix.SampleRate())
	s.startLocked(v, TestToneActive)
}

// Stop soft-stops the active source; a no-op when idle or already
// stopping.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// Panic soft-stops whichever source is active; idempotent from idle.
func (s *Session) Panic() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return
	}
	log.Info("session: panic stop")
	s.stopLocked()
}

// Retarget glides a sounding generator toward hz; a no-op otherwise.
func (s *Session) Retarget(hz int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.current
	if s.state != GeneratorActive || v == nil || v.stopping {
		return
	}
	s.mix.Retarget(v, float64(hz))
}

// Close tears the session down, soft-stopping any active source.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// startLocked requests the stop of whatever is sounding, then hands the
// session to v. The old voice keeps draining in the mixer; its
// completion is ignored once s.current moves on.
func (s *Session) startLocked(v *voice, st State) {
	s.stopLocked()

	if err := s.mix.Add(v); err != nil {
		log.Errorf("failed to start %v: %v", v.kind, err)
		return
	}
	s.current = v
	s.setStateLocked(st)
	go s.watch(v)
}

// stopLocked requests a soft-stop of the current source. If scheduling
// fails the voice is released immediately and the state forced to idle,
// so a host engine error can never wedge the session or leak the voice.
func (s *Session) stopLocked() {
	v := s.current
	if v == nil || v.stopping {
		return
	}
	log.Infof("session: stopping %v", v.kind)
	if err := s.mix.Stop(v, stopFadeTime); err != nil {
		log.Errorf("failed to schedule soft-stop of %v: %v, releasing now", v.kind, err)
		s.mix.Drop(v)
		s.releaseLocked(v)
	}
}

// watch finalizes the transition to idle once the mixer retires v.
func (s *Session) watch(v *voice) {
	<-v.done
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseLocked(v)
}

func (s *Session) releaseLocked(v *voice) {
	if s.current != v {
		return
	}
	s.current = nil
	s.setStateLocked(Idle)
}

func (s *Session) setStateLocked(st State) {
	if st == s.state {
		return
	}
	wasActive := s.state != Idle
	log.Infof("session: %v -> %v", s.state, st)
	s.state = st
	if active := st != Idle; active != wasActive && s.onActive != nil {
		s.onActive(active)
	}
}
