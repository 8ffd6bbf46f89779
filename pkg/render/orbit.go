package render

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// Orbit animates camera theta back and forth between -Swing and +Swing
// degrees using a critically damped spring. When theta settles near one
// end the target flips to the other.
type Orbit struct {
	Theta  float64 // Current angle in degrees
	Swing  float64 // Amplitude in degrees
	Paused bool

	velocity float64
	target   float64
	spring   harmonica.Spring
}

// DefaultSwing matches the ±15° sweep of the original animation.
const DefaultSwing = 15.0

// NewOrbit creates an orbit stepping at fps frames per second.
func NewOrbit(fps int, swing float64) *Orbit {
	if fps <= 0 {
		fps = 30
	}
	return &Orbit{
		Swing:  swing,
		target: swing,
		spring: harmonica.NewSpring(harmonica.FPS(fps), 2.0, 1.0),
	}
}

// Update advances the animation by one frame and returns the new theta.
func (o *Orbit) Update() float64 {
	if o.Paused {
		return o.Theta
	}
	o.Theta, o.velocity = o.spring.Update(o.Theta, o.velocity, o.target)
	if math.Abs(o.target-o.Theta) < o.flipDistance() {
		o.target = -o.target
	}
	return o.Theta
}

func (o *Orbit) flipDistance() float64 {
	return max(0.5, 0.05*math.Abs(o.Swing))
}

// Nudge adds deg degrees per second to the spring velocity. While paused it
// moves theta directly.
func (o *Orbit) Nudge(deg float64) {
	if o.Paused {
		o.Theta += deg
		return
	}
	o.velocity += deg
}

// TogglePause pauses or resumes the animation.
func (o *Orbit) TogglePause() {
	o.Paused = !o.Paused
}

// Reset returns to theta 0 heading toward +Swing.
func (o *Orbit) Reset() {
	o.Theta = 0
	o.velocity = 0
	o.target = o.Swing
}
