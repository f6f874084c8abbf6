//go:build cgo

package main

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// portAudioBackend drives the mixer from the portaudio callback thread.
type portAudioBackend struct {
	stream *portaudio.Stream
}

func newPortAudioBackend(mix *Mixer) (*portAudioBackend, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	stream, err := portaudio.OpenDefaultStream(0, 1, mix.SampleRate(), framesPerBuffer, func(out []float32) {
		mix.Render(out)
	})
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open default output stream: %w", err)
	}

	return &portAudioBackend{stream: stream}, nil
}

func (b *portAudioBackend) Start() error {
	return b.stream.Start()
}

func (b *portAudioBackend) Close() error {
	err := b.stream.Close()
	portaudio.Terminate()
	return err
}
