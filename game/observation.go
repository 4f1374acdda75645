package game

import "time"

// TargetObservation is the pursuer's rolling view of the target's motion. It
// is derived from sampled positions and never fed back to the target.
type TargetObservation struct {
	Position      Vec2          // last sampled position
	Direction     Vec2          // unit direction of the latest sampled displacement
	PrevDirection Vec2          // direction before Direction
	LastSample    time.Duration // controller clock at the last sample

	turnConsumed bool
}

// reseed forgets the motion history and starts sampling from pos.
func (o *TargetObservation) reseed(pos Vec2, now time.Duration) {
	*o = TargetObservation{Position: pos, LastSample: now}
}

// observe records pos when it has moved more than minDistance since the last
// sample. It reports whether a sample was taken.
func (o *TargetObservation) observe(pos Vec2, now time.Duration, minDistance float64) bool {
	delta := pos.Sub(o.Position)
	if delta.Len() <= minDistance {
		return false
	}
	o.PrevDirection = o.Direction
	o.Direction = delta.Normalized()
	o.Position = pos
	o.LastSample = now
	o.turnConsumed = false
	return true
}

// TurnAngle returns the angle in degrees between the two most recent sampled
// directions. ok is false until two directions are known.
func (o *TargetObservation) TurnAngle() (angle float64, ok bool) {
	if o.PrevDirection.IsZero() || o.Direction.IsZero() {
		return 0, false
	}
	return AngleBetween(o.PrevDirection, o.Direction), true
}

// Turning reports whether the last two directions diverge, that is their dot
// product is below threshold.
func (o *TargetObservation) Turning(threshold float64) bool {
	if o.PrevDirection.IsZero() || o.Direction.IsZero() {
		return false
	}
	return o.PrevDirection.Dot(o.Direction) < threshold
}

// consumeTurn reports Turning at most once per sample so a single turn cannot
// re-arm a reaction on every tick.
func (o *TargetObservation) consumeTurn(threshold float64) bool {
	if o.turnConsumed || !o.Turning(threshold) {
		return false
	}
	o.turnConsumed = true
	return true
}
