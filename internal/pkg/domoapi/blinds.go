package domoapi

import (
	"math"
	"time"

	"github.com/pkg/errors"
)

/*
 *  The gateway only knows up, down and stop for a blind. A tilt angle is
 *  approximated by closing fully and then running the motor upwards for
 *  a measured time.
 */

type blindStep struct {
	motion OpeningMotion
	wait   time.Duration
}

// CalibrationAngles are the run times, in seconds, tried by CalibrateBlind
var CalibrationAngles = []float64{0.1, 0.15, 0.2, 0.25, 0.3, 0.35, 0.4, 0.5, 0.6, 0.7, 0.8}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

func checkAngle(angle float64) error {
	if angle < 0 || math.IsNaN(angle) || math.IsInf(angle, 0) {
		return errors.Errorf("invalid blind angle %v", angle)
	}

	return nil
}

func angleSteps(angle float64) []blindStep {
	return []blindStep{
		{motion: OpeningDown, wait: time.Second},
		{motion: OpeningStop, wait: time.Second},
		{motion: OpeningUp, wait: secondsToDuration(angle)},
		{motion: OpeningStop, wait: time.Second},
		// the blind would run fully open if the previous stop got lost
		{motion: OpeningStop},
	}
}

func calibrationSteps(angle float64) []blindStep {
	return []blindStep{
		{motion: OpeningDown, wait: time.Second},
		{motion: OpeningStop, wait: time.Millisecond * 300},
		{motion: OpeningUp, wait: secondsToDuration(angle)},
		{motion: OpeningStop, wait: time.Second * 2},
	}
}

// SetBlindAngle tilts a blind by closing it and opening it again for angle
// seconds. A failed step may leave the blind part way, it is not undone.
func (c *Controller) SetBlindAngle(actID int, angle float64) error {
	if err := checkAngle(angle); err != nil {
		return err
	}

	return c.runSteps(actID, angleSteps(angle))
}

// CalibrateBlind runs the tilt sequence for each angle in turn so that the
// resulting positions can be compared by eye
func (c *Controller) CalibrateBlind(actID int, angles []float64, progress func(angle float64)) error {
	for _, angle := range angles {
		if err := checkAngle(angle); err != nil {
			return err
		}
	}

	var firstErr error
	for _, angle := range angles {
		if progress != nil {
			progress(angle)
		}

		if err := c.runSteps(actID, calibrationSteps(angle)); err != nil {
			if c.strict || !Continuable(err) {
				return err
			}
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
