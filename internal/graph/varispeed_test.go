// ABOUTME: Tests for the variable-rate PCM source
// ABOUTME: Covers silence at rate 0, interpolation, clamping, mono upmix, and exhaustion
package graph

import (
	"testing"

	"github.com/platterfm/platter/internal/audio"
)

func stereoBuffer(frames int, rate int) *audio.Buffer {
	samples := make([]int16, frames*2)
	for i := 0; i < frames; i++ {
		samples[i*2] = int16(i * 10)
		samples[i*2+1] = int16(-i * 10)
	}
	return &audio.Buffer{
		Format:  audio.Format{SampleRate: rate, Channels: 2},
		Samples: samples,
	}
}

func TestVarispeedRateZeroIsSilence(t *testing.T) {
	vs := newVarispeed(stereoBuffer(100, 48000), 48000, 2)
	vs.setRate(0)

	out := make([]int16, 64)
	for i := range out {
		out[i] = 123 // stale data must be overwritten
	}

	n, more := vs.readSamples(out)
	if !more {
		t.Fatal("rate 0 should not exhaust the source")
	}
	if n != len(out) {
		t.Fatalf("read %d samples, want %d", n, len(out))
	}
	for i, s := range out {
		if s != 0 {
			t.Fatalf("sample %d = %d, want silence", i, s)
		}
	}

	// Position held: full rate afterwards starts from the beginning.
	vs.setRate(1)
	n, _ = vs.readSamples(out[:4])
	if n != 4 {
		t.Fatalf("read %d samples, want 4", n)
	}
	if out[0] != 0 || out[2] != 10 {
		t.Errorf("position moved during silence: got frames %d, %d", out[0], out[2])
	}
}

func TestVarispeedFullRatePassthrough(t *testing.T) {
	buf := stereoBuffer(100, 48000)
	vs := newVarispeed(buf, 48000, 2)
	vs.setRate(1)

	out := make([]int16, 40)
	n, more := vs.readSamples(out)
	if !more || n != 40 {
		t.Fatalf("readSamples = (%d, %v), want (40, true)", n, more)
	}

	// At matching rates and fraction 1.0 the step is exactly 1, so
	// samples come through unmodified.
	for i := 0; i < n; i++ {
		if out[i] != buf.Samples[i] {
			t.Fatalf("sample %d = %d, want %d", i, out[i], buf.Samples[i])
		}
	}
}

func TestVarispeedHalfRateInterpolates(t *testing.T) {
	buf := stereoBuffer(100, 48000)
	vs := newVarispeed(buf, 48000, 2)
	vs.setRate(0.5)

	out := make([]int16, 8) // 4 output frames
	n, _ := vs.readSamples(out)
	if n != 8 {
		t.Fatalf("read %d samples, want 8", n)
	}

	// Frames advance by half a source frame: 0, 0.5, 1.0, 1.5.
	wantLeft := []int16{0, 5, 10, 15}
	for i, want := range wantLeft {
		if out[i*2] != want {
			t.Errorf("left frame %d = %d, want %d", i, out[i*2], want)
		}
	}
}

func TestVarispeedRateClamped(t *testing.T) {
	vs := newVarispeed(stereoBuffer(10, 48000), 48000, 2)

	vs.setRate(2.5)
	if vs.rate() != 1 {
		t.Errorf("rate = %v after setRate(2.5), want 1", vs.rate())
	}
	vs.setRate(-0.5)
	if vs.rate() != 0 {
		t.Errorf("rate = %v after setRate(-0.5), want 0", vs.rate())
	}
}

func TestVarispeedMonoUpmix(t *testing.T) {
	mono := &audio.Buffer{
		Format:  audio.Format{SampleRate: 48000, Channels: 1},
		Samples: []int16{100, 200, 300, 400},
	}
	vs := newVarispeed(mono, 48000, 2)
	vs.setRate(1)

	out := make([]int16, 6)
	n, _ := vs.readSamples(out)
	if n != 6 {
		t.Fatalf("read %d samples, want 6", n)
	}
	for f := 0; f < 3; f++ {
		if out[f*2] != out[f*2+1] {
			t.Errorf("frame %d: channels differ (%d vs %d)", f, out[f*2], out[f*2+1])
		}
	}
	if out[0] != 100 || out[2] != 200 {
		t.Errorf("unexpected upmixed samples: %v", out)
	}
}

func TestVarispeedExhaustion(t *testing.T) {
	vs := newVarispeed(stereoBuffer(4, 48000), 48000, 2)
	vs.setRate(1)

	out := make([]int16, 100)
	n, more := vs.readSamples(out)
	if more && n == len(out) {
		t.Fatal("source should exhaust within a 4-frame buffer")
	}

	n, more = vs.readSamples(out)
	if n != 0 || more {
		t.Errorf("readSamples after exhaustion = (%d, %v), want (0, false)", n, more)
	}
}

func TestVarispeedSampleRateConversion(t *testing.T) {
	// A 24kHz buffer played on a 48kHz device at fraction 1.0 must step
	// half a source frame per output frame.
	buf := stereoBuffer(100, 24000)
	vs := newVarispeed(buf, 48000, 2)
	vs.setRate(1)

	out := make([]int16, 8)
	n, _ := vs.readSamples(out)
	if n != 8 {
		t.Fatalf("read %d samples, want 8", n)
	}
	wantLeft := []int16{0, 5, 10, 15}
	for i, want := range wantLeft {
		if out[i*2] != want {
			t.Errorf("left frame %d = %d, want %d", i, out[i*2], want)
		}
	}
}
