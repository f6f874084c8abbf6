package main

import "fmt"

// framesPerBuffer is the pull size requested from the output device.
const framesPerBuffer = 1024

// Backend pulls rendered samples from the mixer and pushes them to an
// audio output.
type Backend interface {
	Start() error
	Close() error
}

// OpenBackend selects the configured output backend.
func OpenBackend(name string, mix *Mixer) (Backend, error) {
	switch name {
	case "portaudio":
		return newPortAudioBackend(mix)
	case "oto":
		return newOtoBackend(mix)
	case "none":
		return nopBackend{}, nil
	}
	return nil, fmt.Errorf("unknown output backend %q", name)
}

// nopBackend discards nothing and produces nothing; used headless and
// in tests, where the test itself pulls Render to advance time.
type nopBackend struct{}

func (nopBackend) Start() error { return nil }
func (nopBackend) Close() error { return nil }
