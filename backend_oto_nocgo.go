//go:build !cgo

package main

import "fmt"

// newOtoBackend is unavailable without cgo; the oto ALSA driver on Linux
// requires it at this oto version.
func newOtoBackend(*Mixer) (Backend, error) {
	return nil, fmt.Errorf("oto backend requires cgo")
}
