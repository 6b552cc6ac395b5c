// ABOUTME: Tests for disc kinematics
// ABOUTME: Covers velocity bounds, pause decay, drag behavior, and rate fractions
package disc

import (
	"math"
	"testing"
)

func TestVelocityRampUpAndClamp(t *testing.T) {
	// maxSpeed=1.5, acceleration=0.03: velocity reaches the cap after
	// exactly 50 frames and stays there.
	d := New(Params{Acceleration: 0.03, MaxSpeed: 1.5})

	for frame := 1; frame <= 60; frame++ {
		d.Step(1.0, false)

		v := d.Velocity()
		if frame < 50 {
			want := 0.03 * float64(frame)
			if math.Abs(v-want) > 1e-9 {
				t.Fatalf("frame %d: velocity = %v, want %v", frame, v, want)
			}
		} else {
			if v != 1.5 {
				t.Fatalf("frame %d: velocity = %v, want clamped 1.5", frame, v)
			}
		}
	}
}

func TestVelocityDecayToZero(t *testing.T) {
	d := New(Params{Acceleration: 0.03, MaxSpeed: 1.5})

	// Spin up first.
	for i := 0; i < 60; i++ {
		d.Step(1.0, false)
	}

	prev := d.Velocity()
	for i := 0; i < 60; i++ {
		d.Step(1.0, true)
		v := d.Velocity()
		if v > prev {
			t.Fatalf("frame %d: velocity increased while paused (%v -> %v)", i, prev, v)
		}
		if v < 0 {
			t.Fatalf("frame %d: velocity went negative: %v", i, v)
		}
		prev = v
	}

	if prev != 0 {
		t.Errorf("velocity = %v after sustained pause, want exactly 0", prev)
	}

	// Stays at zero.
	d.Step(1.0, true)
	if d.Velocity() != 0 {
		t.Errorf("velocity left 0 on an extra paused frame")
	}
}

func TestVelocityBoundedUnderInterleaving(t *testing.T) {
	d := New(Params{Acceleration: 0.05, MaxSpeed: 1.0})

	paused := false
	for i := 0; i < 500; i++ {
		if i%7 == 0 {
			paused = !paused
		}
		d.Step(0.016, paused)

		v := d.Velocity()
		if v < 0 || v > 1.0 {
			t.Fatalf("frame %d: velocity %v outside [0, 1]", i, v)
		}
	}
}

func TestRateFractionRange(t *testing.T) {
	d := New(Params{Acceleration: 0.08, MaxSpeed: 2.0})

	paused := false
	for i := 0; i < 300; i++ {
		if i%11 == 0 {
			paused = !paused
		}
		f := d.Step(0.016, paused)
		if f < 0 || f > 1 {
			t.Fatalf("frame %d: rate fraction %v outside [0, 1]", i, f)
		}
		if math.Abs(f-d.Velocity()/2.0) > 1e-9 {
			t.Fatalf("frame %d: fraction %v != velocity/maxSpeed %v", i, f, d.Velocity()/2.0)
		}
	}
}

func TestRotationAdvancesWithVelocity(t *testing.T) {
	d := New(Params{Acceleration: 0.5, MaxSpeed: 1.0})

	d.Step(1.0, false) // velocity 0.5, rotation += 0.5
	d.Step(1.0, false) // velocity 1.0, rotation += 1.0

	want := 0.5 + 1.0
	if math.Abs(d.Rotation()-want) > 1e-9 {
		t.Errorf("rotation = %v, want %v", d.Rotation(), want)
	}
}

func TestFrameDeltaClamped(t *testing.T) {
	d := New(Params{Acceleration: 1.0, MaxSpeed: 1.0})

	// A spuriously large first-frame delta must not jump the rotation.
	d.Step(100.0, false)

	if d.Rotation() > 1.0*maxFrameDelta+1e-9 {
		t.Errorf("rotation = %v after huge delta, want <= %v", d.Rotation(), maxFrameDelta)
	}

	// Negative deltas are treated as zero.
	before := d.Rotation()
	d.Step(-5.0, false)
	if d.Rotation() < before {
		t.Errorf("rotation moved backwards on negative delta")
	}
}

func TestDragLeavesVelocityUnchanged(t *testing.T) {
	d := New(Params{Acceleration: 0.03, MaxSpeed: 1.5})

	for i := 0; i < 20; i++ {
		d.Step(0.016, false)
	}
	preDrag := d.Velocity()

	d.SetCenter(100, 100)
	d.BeginDrag(150, 100)
	for i := 0; i < 30; i++ {
		d.Drag(150+float64(i), 100+float64(i))
		d.Step(0.016, false)
		if d.Velocity() != preDrag {
			t.Fatalf("frame %d: velocity changed during drag (%v -> %v)", i, preDrag, d.Velocity())
		}
	}
	d.EndDrag()

	if d.Velocity() != preDrag {
		t.Errorf("velocity changed across drag release (%v -> %v)", preDrag, d.Velocity())
	}
}

func TestDragBlendsTowardPointerAngle(t *testing.T) {
	d := New(Params{Acceleration: 0.03, MaxSpeed: 1.5, DragBlend: 0.5})
	d.SetCenter(0, 0)

	// Pointer straight right: target angle 0 plus the drag anchor (0).
	d.BeginDrag(10, 0)
	start := d.Rotation()

	// Move pointer to straight up (+π/2 in math coordinates).
	d.Drag(0, 10)
	d.Step(0.016, false)

	got := d.Rotation()
	want := start + (math.Pi/2)*0.5
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("rotation after one drag frame = %v, want %v", got, want)
	}

	// Repeated frames converge on the target without overshooting.
	for i := 0; i < 200; i++ {
		d.Step(0.016, false)
	}
	if math.Abs(d.Rotation()-(start+math.Pi/2)) > 1e-3 {
		t.Errorf("rotation converged to %v, want %v", d.Rotation(), start+math.Pi/2)
	}
}

func TestDragDoesNotAdvanceRotationByVelocity(t *testing.T) {
	d := New(Params{Acceleration: 0.1, MaxSpeed: 1.0})
	d.SetCenter(0, 0)

	for i := 0; i < 10; i++ {
		d.Step(0.016, false)
	}

	// With the pointer held and no movement, repeated frames converge on
	// the anchored angle instead of spinning on.
	d.BeginDrag(10, 0)
	for i := 0; i < 500; i++ {
		d.Step(0.016, false)
	}
	settled := d.Rotation()
	d.Step(0.016, false)
	if math.Abs(d.Rotation()-settled) > 1e-6 {
		t.Errorf("rotation still advancing while dragging a stationary pointer")
	}
}

func TestMuteWhileDragging(t *testing.T) {
	d := New(Params{Acceleration: 0.1, MaxSpeed: 1.0, MuteWhileDragging: true})
	d.SetCenter(0, 0)

	for i := 0; i < 10; i++ {
		d.Step(0.016, false)
	}
	if d.RateFraction() == 0 {
		t.Fatal("expected nonzero rate before drag")
	}

	d.BeginDrag(10, 0)
	if f := d.Step(0.016, false); f != 0 {
		t.Errorf("rate fraction = %v while dragging with mute enabled, want 0", f)
	}

	d.EndDrag()
	if f := d.Step(0.016, false); f == 0 {
		t.Error("rate fraction stayed 0 after drag release")
	}
}

func TestFreezeRateWhileDraggingByDefault(t *testing.T) {
	d := New(Params{Acceleration: 0.1, MaxSpeed: 1.0})
	d.SetCenter(0, 0)

	for i := 0; i < 5; i++ {
		d.Step(0.016, false)
	}
	pre := d.RateFraction()

	d.BeginDrag(10, 0)
	if f := d.Step(0.016, false); f != pre {
		t.Errorf("rate fraction = %v during drag, want frozen %v", f, pre)
	}
}

func TestParamsDefaults(t *testing.T) {
	d := New(Params{})
	p := d.Params()

	if p.Acceleration != 0.03 {
		t.Errorf("Acceleration = %v, want default 0.03", p.Acceleration)
	}
	if p.MaxSpeed != 1.5 {
		t.Errorf("MaxSpeed = %v, want default 1.5", p.MaxSpeed)
	}
	if p.DragBlend != 0.05 {
		t.Errorf("DragBlend = %v, want default 0.05", p.DragBlend)
	}

	// Out-of-range blend falls back too.
	p2 := New(Params{DragBlend: 1.5}).Params()
	if p2.DragBlend != 0.05 {
		t.Errorf("DragBlend = %v for out-of-range input, want 0.05", p2.DragBlend)
	}
}
