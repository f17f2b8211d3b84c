package domoapi

import (
	"time"

	"github.com/jake-scott/came-domo/internal/pkg/logging"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// Controller exposes the device operations of a gateway
type Controller struct {
	gw     Gateway
	sleep  func(time.Duration)
	strict bool
}

func NewController(gw Gateway) *Controller {
	return &Controller{
		gw:    gw,
		sleep: time.Sleep,
	}
}

// WithSleeper replaces the wall clock waits of multi-step operations
func (c *Controller) WithSleeper(sleep func(time.Duration)) *Controller {
	nc := *c
	nc.sleep = sleep
	return &nc
}

// WithStrict makes multi-step operations stop at the first failed step
func (c *Controller) WithStrict(strict bool) *Controller {
	nc := *c
	nc.strict = strict
	return &nc
}

func (c *Controller) send(command Command) (*Response, error) {
	resp, err := c.gw.Send(command)
	if err != nil {
		return resp, errors.Wrapf(err, "sending %s", command.commandName())
	}

	return resp, nil
}

func (c *Controller) SetLight(actID int, status LightStatus) error {
	_, err := c.send(NewLightCommand(actID, status))
	return err
}

func (c *Controller) DimLight(actID int, perc int) error {
	if perc < 0 || perc > 100 {
		return errors.Wrapf(ErrDimLevel, "dimmer level %d", perc)
	}

	_, err := c.send(NewDimmerCommand(actID, perc))
	return err
}

func (c *Controller) MoveBlind(actID int, motion OpeningMotion) error {
	_, err := c.send(NewOpeningMoveCommand(actID, motion))
	return err
}

// SetThermo configures the thermostat zone; setPoint is in tenths of a
// degree and is left out when nil
func (c *Controller) SetThermo(actID int, mode ThermoMode, setPoint *int) error {
	var command Command
	if setPoint != nil {
		command = NewThermoZoneSetPointCommand(actID, mode, *setPoint)
	} else {
		command = NewThermoZoneCommand(actID, mode)
	}

	_, err := c.send(command)
	return err
}

func (c *Controller) ActivateScenario(id int) error {
	_, err := c.send(NewScenarioCommand(id))
	return err
}

func (c *Controller) Features() ([]string, error) {
	resp, err := c.send(NewFeatureListCommand())
	if err != nil {
		return nil, err
	}

	var features []string
	for _, f := range resp.Get("list").Array() {
		features = append(features, f.String())
	}

	return features, nil
}

func (c *Controller) Scenarios() ([]Scenario, error) {
	resp, err := c.send(NewListCommand("scenarios"))
	if err != nil {
		return nil, err
	}

	var items []Scenario
	for _, s := range resp.Get("array").Array() {
		items = append(items, Scenario{
			ID:   int(s.Get("id").Int()),
			Name: s.Get("name").String(),
		})
	}

	return items, nil
}

func (c *Controller) Openings() ([]Opening, error) {
	resp, err := c.send(NewListCommand("openings"))
	if err != nil {
		return nil, err
	}

	var items []Opening
	for _, o := range resp.Get("array").Array() {
		items = append(items, Opening{
			OpenActID:  int(o.Get("open_act_id").Int()),
			CloseActID: int(o.Get("close_act_id").Int()),
			Name:       o.Get("name").String(),
		})
	}

	return items, nil
}

// Lights walks the nested plant listing: floors, holding rooms, holding lights
func (c *Controller) Lights() ([]Light, error) {
	resp, err := c.send(NewNestedLightListCommand())
	if err != nil {
		return nil, err
	}

	var items []Light
	resp.Get("array").ForEach(func(_, floor gjson.Result) bool {
		floor.Get("array").ForEach(func(_, room gjson.Result) bool {
			roomName := room.Get("name").String()
			room.Get("array").ForEach(func(_, light gjson.Result) bool {
				items = append(items, Light{
					ActID: int(light.Get("act_id").Int()),
					Name:  light.Get("name").String(),
					Room:  roomName,
				})
				return true
			})
			return true
		})
		return true
	})

	return items, nil
}

// ThermoZone returns the first zone of the thermoregulation listing
func (c *Controller) ThermoZone() (*ThermoZone, error) {
	resp, err := c.send(NewNestedThermoListCommand())
	if err != nil {
		return nil, err
	}

	zone := resp.Get("array.0.array.0")
	if !zone.Exists() || !zone.Get("act_id").Exists() {
		return nil, errors.Errorf("no thermoregulation zone in gateway listing: %s", resp.Body)
	}

	return &ThermoZone{
		ActID: int(zone.Get("act_id").Int()),
		Name:  zone.Get("name").String(),
		Temp:  int(zone.Get("temp").Int()),
	}, nil
}

func (c *Controller) Status() ([]StatusEvent, error) {
	resp, err := c.send(NewStatusUpdateCommand())
	if err != nil {
		return nil, err
	}

	return DecodeStatus(resp), nil
}

func (c *Controller) SicuEvents() (*Response, error) {
	return c.send(NewSicuEventsListCommand())
}

// runSteps sends each step and then waits for its delay, whether or not the
// send succeeded. Failed steps are logged; unless strict, the sequence goes
// on so that the trailing stop commands still reach the motor.
func (c *Controller) runSteps(actID int, steps []blindStep) error {
	var firstErr error

	for i, step := range steps {
		err := c.MoveBlind(actID, step.motion)
		if err != nil {
			logging.Logger(nil).WithError(err).Warnf("blind %d: step %d (%s) failed", actID, i+1, step.motion)

			if firstErr == nil {
				firstErr = errors.Wrapf(err, "blind %d step %d (%s)", actID, i+1, step.motion)
			}

			if c.strict || !Continuable(err) {
				return firstErr
			}
		}

		if step.wait > 0 {
			c.sleep(step.wait)
		}
	}

	return firstErr
}
