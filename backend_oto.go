//go:build cgo

package main

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ebitengine/oto/v3"
)

// otoBackend feeds an oto player from the mixer. The player pulls
// little-endian float32 frames through Read on its own goroutine.
type otoBackend struct {
	ctx       *oto.Context
	player    *oto.Player
	mix       *Mixer
	sampleBuf []float32
}

func newOtoBackend(mix *Mixer) (*otoBackend, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   int(mix.SampleRate()),
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-ready

	b := &otoBackend{
		ctx:       ctx,
		mix:       mix,
		sampleBuf: make([]float32, framesPerBuffer),
	}
	b.player = ctx.NewPlayer(b)
	return b, nil
}

func (b *otoBackend) Read(p []byte) (int, error) {
	numSamples := len(p) / 4
	if numSamples == 0 {
		return 0, nil
	}

	if len(b.sampleBuf) < numSamples {
		b.sampleBuf = make([]float32, numSamples)
	}
	samples := b.sampleBuf[:numSamples]
	b.mix.Render(samples)

	for i, s := range samples {
		binary.LittleEndian.PutUint32(p[4*i:], math.Float32bits(s))
	}
	return numSamples * 4, nil
}

func (b *otoBackend) Start() error {
	b.player.Play()
	return nil
}

func (b *otoBackend) Close() error {
	return b.player.Close()
}
