// ABOUTME: Disc kinematics for the turntable
// ABOUTME: Per-frame velocity/rotation physics with drag-to-scratch blending
package disc

import (
	"math"
	"sync"

	"github.com/platterfm/platter/internal/geom"
)

// maxFrameDelta caps a single frame's time step. The first frame after
// mount (or a suspended window) can report a huge delta; a capped step
// keeps the rotation from jumping.
const maxFrameDelta = 0.25

// Params are the physics tunables.
type Params struct {
	// Acceleration is applied once per frame, not scaled by the frame
	// delta. Deceleration under pause uses the same constant.
	Acceleration float64
	// MaxSpeed caps the angular velocity (rad/s).
	MaxSpeed float64
	// DragBlend is the exponential smoothing factor toward the pointer
	// angle while dragging.
	DragBlend float64
	// MuteWhileDragging makes the rate fraction read 0 during a drag
	// instead of freezing at its pre-drag value.
	MuteWhileDragging bool
}

// DefaultParams returns the stock physics tuning.
func DefaultParams() Params {
	return Params{
		Acceleration: 0.03,
		MaxSpeed:     1.5,
		DragBlend:    0.05,
	}
}

func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.Acceleration <= 0 {
		p.Acceleration = d.Acceleration
	}
	if p.MaxSpeed <= 0 {
		p.MaxSpeed = d.MaxSpeed
	}
	if p.DragBlend <= 0 || p.DragBlend > 1 {
		p.DragBlend = d.DragBlend
	}
	return p
}

// Disc holds the kinematic state of the turntable platter. All methods
// are safe for concurrent use; input handlers only record drag requests,
// and Step folds them into rotation on the next frame.
type Disc struct {
	mu     sync.Mutex
	params Params

	rotation float64 // radians, unbounded
	velocity float64 // always within [0, MaxSpeed]

	spinningFreely bool
	dragging       bool
	dragStartAngle float64
	pointerX       float64
	pointerY       float64
	centerX        float64
	centerY        float64
}

// New creates a Disc with the given parameters, filling in defaults for
// zero or out-of-range values.
func New(params Params) *Disc {
	return &Disc{
		params:         params.withDefaults(),
		spinningFreely: true,
	}
}

// Params returns the active physics parameters.
func (d *Disc) Params() Params {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.params
}

// SetCenter sets the visual center the pointer angle is measured from.
func (d *Disc) SetCenter(x, y float64) {
	d.mu.Lock()
	d.centerX = x
	d.centerY = y
	d.mu.Unlock()
}

// Step advances the simulation by one frame and returns the playback
// rate fraction (velocity / MaxSpeed) to push into the audio graph.
func (d *Disc) Step(dt float64, paused bool) float64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	if dt < 0 {
		dt = 0
	}
	if dt > maxFrameDelta {
		dt = maxFrameDelta
	}

	if d.spinningFreely {
		if paused {
			d.velocity = math.Max(0, d.velocity-d.params.Acceleration)
		} else {
			d.velocity = math.Min(d.params.MaxSpeed, d.velocity+d.params.Acceleration)
		}
		d.rotation += d.velocity * dt
	} else if d.dragging {
		target := math.Atan2(d.pointerY-d.centerY, d.pointerX-d.centerX)
		d.rotation = geom.LerpAngle(d.rotation, target+d.dragStartAngle, d.params.DragBlend)
	}

	return d.rateFractionLocked()
}

// BeginDrag starts a drag at the given pointer position. The rotation at
// this instant becomes the drag anchor; velocity is left untouched.
func (d *Disc) BeginDrag(x, y float64) {
	d.mu.Lock()
	d.spinningFreely = false
	d.dragging = true
	d.dragStartAngle = d.rotation
	d.pointerX = x
	d.pointerY = y
	d.mu.Unlock()
}

// Drag records the latest pointer position for the next Step.
func (d *Disc) Drag(x, y float64) {
	d.mu.Lock()
	if d.dragging {
		d.pointerX = x
		d.pointerY = y
	}
	d.mu.Unlock()
}

// EndDrag releases the disc back to free spinning. Physics resumes from
// the current velocity on the next frame.
func (d *Disc) EndDrag() {
	d.mu.Lock()
	d.spinningFreely = true
	d.dragging = false
	d.mu.Unlock()
}

// Rotation returns the current rotation angle in radians.
func (d *Disc) Rotation() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rotation
}

// Velocity returns the current angular velocity.
func (d *Disc) Velocity() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.velocity
}

// Dragging reports whether the disc is being dragged.
func (d *Disc) Dragging() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dragging
}

// RateFraction returns velocity / MaxSpeed, always within [0, 1].
func (d *Disc) RateFraction() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rateFractionLocked()
}

func (d *Disc) rateFractionLocked() float64 {
	if d.dragging && d.params.MuteWhileDragging {
		return 0
	}
	return d.velocity / d.params.MaxSpeed
}
