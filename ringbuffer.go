package main

// RingBuffer is a circular buffer for smoothing noisy float readings.
type RingBuffer struct {
	data []float64
	head int
	size int
	n    int
}

// NewRingBuffer returns a new RingBuffer.
func NewRingBuffer(size int) *RingBuffer {
	if size < 1 {
		size = 1
	}
	return &RingBuffer{
		data: make([]float64, size),
		head: 0,
		size: size,
	}
}

// Insert inserts the new value into the buffer and advances the head.
func (b *RingBuffer) Insert(val float64) {
	b.data[b.head] = val
	b.head = (b.head + 1) % b.size
	if b.n < b.size {
		b.n++
	}
}

// Get returns the value at index relative to the head.
func (b *RingBuffer) Get(index int) float64 {
	i := (index + b.head) % b.size
	return b.data[i]
}

// Reset empties the buffer.
func (b *RingBuffer) Reset() {
	b.head = 0
	b.n = 0
}

// Average returns the mean of the values inserted so far, or 0 for an
// empty buffer.
func (b *RingBuffer) Average() float64 {
	if b.n == 0 {
		return 0
	}

	var sum float64
	for i := b.size - b.n; i < b.size; i++ {
		sum += b.Get(i)
	}

	return sum / float64(b.n)
}
