//go:build !cgo

package main

import "fmt"

// newPortAudioBackend is unavailable without cgo; the portaudio bindings
// require it.
func newPortAudioBackend(*Mixer) (Backend, error) {
	return nil, fmt.Errorf("portaudio backend requires cgo")
}
