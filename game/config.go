package game

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is returned when a pursuer or episode is configured with
// values the controller cannot run with.
var ErrInvalidConfig = errors.New("invalid game configuration")

// maxTurnAngle is the upper bound (exclusive, degrees) of a turn event. Sharper
// direction changes are reversals and are not treated as turns.
const maxTurnAngle = 135.0

// PursuerConfig holds the tuning of a Pursuer. Distances are in grid cells,
// speeds in cells per second.
type PursuerConfig struct {
	NormalSpeed     float64
	AggressiveSpeed float64

	NormalReplanInterval     time.Duration
	AggressiveReplanInterval time.Duration

	// Inside DangerRadius the pursuer uses the aggressive speed and interval
	// and watches the target for turns.
	DangerRadius float64

	TurnAngleThreshold       float64 // degrees
	TurnDetectionMinDistance float64
	TurnSuppressDelay        time.Duration

	TurnDotThreshold float64
	RearDotThreshold float64
	CloseDistance    float64
	SlowDuration     time.Duration
	SlowScale        float64

	CatchRadius      float64
	ArrivalTolerance float64
	SnapTolerance    float64
}

// DefaultPursuerConfig returns the play-tested tuning.
func DefaultPursuerConfig() PursuerConfig {
	return PursuerConfig{
		NormalSpeed:              4.6,
		AggressiveSpeed:          5.5,
		NormalReplanInterval:     500 * time.Millisecond,
		AggressiveReplanInterval: 200 * time.Millisecond,
		DangerRadius:             5,
		TurnAngleThreshold:       40,
		TurnDetectionMinDistance: 0.3,
		TurnSuppressDelay:        300 * time.Millisecond,
		TurnDotThreshold:         0.75,
		RearDotThreshold:         0.6,
		CloseDistance:            2,
		SlowDuration:             2 * time.Second,
		SlowScale:                0.1,
		CatchRadius:              0.5,
		ArrivalTolerance:         0.1,
		SnapTolerance:            0.01,
	}
}

// Validate checks every field is usable.
func (c PursuerConfig) Validate() error {
	switch {
	case c.NormalSpeed <= 0 || c.AggressiveSpeed <= 0:
		return fmt.Errorf("%w: speeds must be positive", ErrInvalidConfig)
	case c.NormalReplanInterval <= 0 || c.AggressiveReplanInterval <= 0:
		return fmt.Errorf("%w: replan intervals must be positive", ErrInvalidConfig)
	case c.DangerRadius < 0 || c.CloseDistance < 0 || c.TurnDetectionMinDistance < 0:
		return fmt.Errorf("%w: distances must not be negative", ErrInvalidConfig)
	case c.TurnAngleThreshold <= 0 || c.TurnAngleThreshold >= maxTurnAngle:
		return fmt.Errorf("%w: turn angle threshold %.1f outside (0, %.0f)", ErrInvalidConfig, c.TurnAngleThreshold, maxTurnAngle)
	case c.TurnSuppressDelay < 0 || c.SlowDuration < 0:
		return fmt.Errorf("%w: delays must not be negative", ErrInvalidConfig)
	case c.SlowScale <= 0 || c.SlowScale > 1:
		return fmt.Errorf("%w: slow scale %.2f outside (0, 1]", ErrInvalidConfig, c.SlowScale)
	case c.CatchRadius <= 0:
		return fmt.Errorf("%w: catch radius must be positive", ErrInvalidConfig)
	case c.ArrivalTolerance <= 0 || c.SnapTolerance <= 0:
		return fmt.Errorf("%w: tolerances must be positive", ErrInvalidConfig)
	}
	return nil
}
