// ABOUTME: Variable-rate PCM source backed by a decoded buffer
// ABOUTME: Fractional-step linear interpolation with an atomically settable rate
package graph

import (
	"math"
	"sync/atomic"

	"github.com/platterfm/platter/internal/audio"
)

// varispeed reads a decoded buffer at a variable rate using linear
// interpolation between neighboring frames. The rate is the playback
// fraction in [0, 1]; the base ratio folds in sample-rate conversion
// between the buffer and the output device. Rate 0 produces silence
// while holding the read position.
type varispeed struct {
	buf       *audio.Buffer
	baseRatio float64 // buffer rate / output rate at fraction 1.0
	channels  int     // output channel count

	position float64 // fractional frame index into the buffer
	rateBits atomic.Uint64
}

func newVarispeed(buf *audio.Buffer, outputRate, outputChannels int) *varispeed {
	v := &varispeed{
		buf:       buf,
		baseRatio: float64(buf.Format.SampleRate) / float64(outputRate),
		channels:  outputChannels,
	}
	v.setRate(0)
	return v
}

// setRate sets the playback fraction, clamped to [0, 1].
func (v *varispeed) setRate(fraction float64) {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	v.rateBits.Store(math.Float64bits(fraction))
}

func (v *varispeed) rate() float64 {
	return math.Float64frombits(v.rateBits.Load())
}

// readSamples fills out with interleaved output samples and reports
// whether the source has more audio. A zero rate fills with silence and
// reports true; exhaustion of the buffer reports false.
func (v *varispeed) readSamples(out []int16) (int, bool) {
	frames := len(out) / v.channels
	step := v.rate() * v.baseRatio

	if step == 0 {
		for i := range out[:frames*v.channels] {
			out[i] = 0
		}
		return frames * v.channels, true
	}

	srcChannels := v.buf.Format.Channels
	srcFrames := v.buf.Frames()

	written := 0
	for f := 0; f < frames; f++ {
		idx := int(v.position)
		if idx >= srcFrames-1 {
			return written, false
		}
		frac := v.position - float64(idx)

		for ch := 0; ch < v.channels; ch++ {
			// Mono buffers feed every output channel.
			srcCh := ch
			if srcCh >= srcChannels {
				srcCh = srcChannels - 1
			}
			s1 := float64(v.buf.Samples[idx*srcChannels+srcCh])
			s2 := float64(v.buf.Samples[(idx+1)*srcChannels+srcCh])
			out[written] = int16(s1*(1.0-frac) + s2*frac)
			written++
		}

		v.position += step
	}

	return written, true
}
