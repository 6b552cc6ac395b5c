// ABOUTME: Biquad low-pass filter stage per the Audio EQ Cookbook
// ABOUTME: In-place int16 processing with per-channel state
package graph

import "math"

// lowPass is a second-order IIR low-pass filter. At a cutoff at or above
// the Nyquist frequency it passes audio through untouched, which is the
// default configuration (cutoff 22050 Hz).
type lowPass struct {
	cutoff     float64
	sampleRate float64
	channels   int

	bypass             bool
	b0, b1, b2, a1, a2 float64

	x1, x2 []float64
	y1, y2 []float64
}

func newLowPass(cutoff, sampleRate float64, channels int) *lowPass {
	f := &lowPass{
		cutoff:     cutoff,
		sampleRate: sampleRate,
		channels:   channels,
		x1:         make([]float64, channels),
		x2:         make([]float64, channels),
		y1:         make([]float64, channels),
		y2:         make([]float64, channels),
	}
	f.calcCoeffs()
	return f
}

func (f *lowPass) calcCoeffs() {
	nyquist := f.sampleRate / 2
	if f.cutoff >= nyquist {
		f.bypass = true
		return
	}
	f.bypass = false

	const q = 0.7071 // Butterworth
	w0 := 2 * math.Pi * f.cutoff / f.sampleRate
	sinW0 := math.Sin(w0)
	cosW0 := math.Cos(w0)
	alpha := sinW0 / (2 * q)

	b0 := (1 - cosW0) / 2
	b1 := 1 - cosW0
	b2 := (1 - cosW0) / 2
	a0 := 1 + alpha
	a1 := -2 * cosW0
	a2 := 1 - alpha

	f.b0 = b0 / a0
	f.b1 = b1 / a0
	f.b2 = b2 / a0
	f.a1 = a1 / a0
	f.a2 = a2 / a0
}

// process filters interleaved samples in place.
func (f *lowPass) process(samples []int16) {
	if f.bypass {
		return
	}

	frames := len(samples) / f.channels
	for i := 0; i < frames; i++ {
		for ch := 0; ch < f.channels; ch++ {
			x := float64(samples[i*f.channels+ch])
			y := f.b0*x + f.b1*f.x1[ch] + f.b2*f.x2[ch] - f.a1*f.y1[ch] - f.a2*f.y2[ch]
			f.x2[ch] = f.x1[ch]
			f.x1[ch] = x
			f.y2[ch] = f.y1[ch]
			f.y1[ch] = y
			samples[i*f.channels+ch] = clampInt16(y)
		}
	}
}

func clampInt16(v float64) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}
