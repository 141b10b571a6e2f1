package app

import (
	"math"
)

// Heading is a pose along the helicopter flight path. Angles are radians.
type Heading struct {
	X, Z  float32
	Roll  float32 // about Z
	Pitch float32 // about X
	Yaw   float32 // about Y
}

const (
	pathSize     = 15.0
	circuitSpeed = 0.8
	headingStep  = 0.05
)

// HeadingPeriod is the time after which the flight path repeats.
const HeadingPeriod = 2 * math.Pi / circuitSpeed

// HeadingAt returns the pose at time t seconds on a figure-eight path. The
// helicopter noses into its direction of travel, pitches forward in
// proportion to its speed and banks through the turns.
func HeadingAt(t float64) Heading {
	x := pathSize * math.Sin(2*t*circuitSpeed)
	z := 3 * pathSize * math.Cos(t*circuitSpeed)
	nx := pathSize * math.Sin(2*(t+headingStep)*circuitSpeed)
	nz := 3 * pathSize * math.Cos((t+headingStep)*circuitSpeed)
	dx, dz := nx-x, nz-z

	return Heading{
		X:     float32(x),
		Z:     float32(z),
		Roll:  float32(math.Cos(t*circuitSpeed) * 0.5),
		Pitch: float32(-0.175 * math.Hypot(dx, dz)),
		Yaw:   float32(math.Pi + math.Atan2(dx, dz)),
	}
}
