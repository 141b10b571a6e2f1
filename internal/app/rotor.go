package app

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// TailRotorRatio is how much faster the tail rotor turns than the main rotor.
const TailRotorRatio = 1.5

// RotorSpin eases the rotor speed toward its target with a critically
// damped spring, so toggling the engine spins the rotors up and down
// smoothly.
type RotorSpin struct {
	MaxSpeed float64 // radians per second at full power

	speed, velocity float64
	target          float64
	angle           float64
	tailAngle       float64
	frequency       float64
	damping         float64
}

// NewRotorSpin creates a rotor running at full speed.
func NewRotorSpin(maxSpeed float64) *RotorSpin {
	return &RotorSpin{
		MaxSpeed:  maxSpeed,
		speed:     maxSpeed,
		target:    maxSpeed,
		frequency: 1.5,
		damping:   1.0,
	}
}

// Toggle switches the engine between full power and off.
func (r *RotorSpin) Toggle() {
	if r.target > 0 {
		r.target = 0
	} else {
		r.target = r.MaxSpeed
	}
}

// Running reports whether the engine is on.
func (r *RotorSpin) Running() bool {
	return r.target > 0
}

// Update advances the spring and the rotor angle by dt seconds.
func (r *RotorSpin) Update(dt float64) {
	if dt <= 0 {
		return
	}
	spring := harmonica.NewSpring(dt, r.frequency, r.damping)
	r.speed, r.velocity = spring.Update(r.speed, r.velocity, r.target)
	if r.speed < 0 {
		r.speed, r.velocity = 0, 0
	}
	r.angle = math.Mod(r.angle+r.speed*dt, 2*math.Pi)
	r.tailAngle = math.Mod(r.tailAngle+r.speed*TailRotorRatio*dt, 2*math.Pi)
}

// Speed returns the current angular speed in radians per second.
func (r *RotorSpin) Speed() float64 {
	return r.speed
}

// Angle returns the main rotor angle in [0, 2π).
func (r *RotorSpin) Angle() float32 {
	return float32(r.angle)
}

// TailAngle returns the tail rotor angle in [0, 2π). The tail rotor turns
// TailRotorRatio times faster than the main rotor.
func (r *RotorSpin) TailAngle() float32 {
	return float32(r.tailAngle)
}

// Level returns the speed relative to MaxSpeed, in [0, 1].
func (r *RotorSpin) Level() float64 {
	if r.MaxSpeed <= 0 {
		return 0
	}
	return math.Min(r.speed/r.MaxSpeed, 1)
}
