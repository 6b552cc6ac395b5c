// ABOUTME: Audio type definitions
// ABOUTME: Defines stream formats and fully decoded PCM buffers
package audio

import "time"

// Format describes decoded PCM audio.
type Format struct {
	SampleRate int
	Channels   int
}

// Buffer holds an entire decoded track as interleaved int16 PCM.
type Buffer struct {
	Format  Format
	Samples []int16
}

// Frames returns the number of sample frames in the buffer.
func (b *Buffer) Frames() int {
	if b.Format.Channels == 0 {
		return 0
	}
	return len(b.Samples) / b.Format.Channels
}

// Duration returns the playback duration of the buffer at rate 1.0.
func (b *Buffer) Duration() time.Duration {
	if b.Format.SampleRate == 0 {
		return 0
	}
	frames := b.Frames()
	return time.Duration(frames) * time.Second / time.Duration(b.Format.SampleRate)
}
