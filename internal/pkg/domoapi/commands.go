package domoapi

import (
	"encoding/json"

	"github.com/pkg/errors"
)

type Command interface {
	commandName() string
}

type command struct {
	command string
}

func newCommand(name string) command {
	return command{
		command: name,
	}
}

func (c command) commandName() string {
	return c.command
}

type LightStatus int

const (
	LightOff LightStatus = 0
	LightOn  LightStatus = 1
)

type lightSwitchCommandParams struct {
	command
	ActID        int         `json:"act_id"`
	WantedStatus LightStatus `json:"wanted_status"`
	Perc         *int        `json:"perc,omitempty"`
}

func NewLightCommand(actID int, status LightStatus) Command {
	return lightSwitchCommandParams{
		command:      newCommand("light_switch_req"),
		ActID:        actID,
		WantedStatus: status,
	}
}

// NewDimmerCommand switches a light on at perc percent. Lights without a
// dimmer ignore the level.
func NewDimmerCommand(actID int, perc int) Command {
	return lightSwitchCommandParams{
		command:      newCommand("light_switch_req"),
		ActID:        actID,
		WantedStatus: LightOn,
		Perc:         &perc,
	}
}

type OpeningMotion int

const (
	OpeningStop OpeningMotion = 0
	OpeningUp   OpeningMotion = 1
	OpeningDown OpeningMotion = 2
)

func (m OpeningMotion) String() string {
	switch m {
	case OpeningStop:
		return "stop"
	case OpeningUp:
		return "up"
	case OpeningDown:
		return "down"
	}

	return "unknown"
}

type openingMoveCommandParams struct {
	command
	ActID        int           `json:"act_id"`
	WantedStatus OpeningMotion `json:"wanted_status"`
}

func NewOpeningMoveCommand(actID int, motion OpeningMotion) Command {
	return openingMoveCommandParams{
		command:      newCommand("opening_move_req"),
		ActID:        actID,
		WantedStatus: motion,
	}
}

type ThermoMode int

const (
	ThermoOff    ThermoMode = 0
	ThermoManual ThermoMode = 1
	ThermoAuto   ThermoMode = 2
	ThermoJolly  ThermoMode = 3
)

type thermoZoneConfigCommandParams struct {
	command
	ActID         int        `json:"act_id"`
	ExtendedInfos int        `json:"extended_infos"`
	Mode          ThermoMode `json:"mode"`
	SetPoint      *int       `json:"set_point,omitempty"`
}

func NewThermoZoneCommand(actID int, mode ThermoMode) Command {
	return thermoZoneConfigCommandParams{
		command: newCommand("thermo_zone_config_req"),
		ActID:   actID,
		Mode:    mode,
	}
}

// NewThermoZoneSetPointCommand also sends a set point, in tenths of a degree
// Celsius (240 is 24.0°C). The gateway takes it whatever the mode.
func NewThermoZoneSetPointCommand(actID int, mode ThermoMode, setPoint int) Command {
	return thermoZoneConfigCommandParams{
		command:  newCommand("thermo_zone_config_req"),
		ActID:    actID,
		Mode:     mode,
		SetPoint: &setPoint,
	}
}

type scenarioActivationCommandParams struct {
	command
	ID int `json:"id"`
}

func NewScenarioCommand(id int) Command {
	return scenarioActivationCommandParams{
		command: newCommand("scenario_activation_req"),
		ID:      id,
	}
}

/*
 *   Read only queries
 */

type queryCommandParams struct {
	command
}

func NewFeatureListCommand() Command {
	return queryCommandParams{command: newCommand("feature_list_req")}
}

// NewListCommand lists the entries of a flat feature, eg. scenarios or openings
func NewListCommand(feature string) Command {
	return queryCommandParams{command: newCommand(feature + "_list_req")}
}

func NewStatusUpdateCommand() Command {
	return queryCommandParams{command: newCommand("status_update_req")}
}

func NewSicuEventsListCommand() Command {
	return queryCommandParams{command: newCommand("sicu_events_list_req")}
}

type nestedListCommandParams struct {
	command
	ExtendedInfos  *int   `json:"extended_infos,omitempty"`
	TopologicScope string `json:"topologic_scope"`
	Value          int    `json:"value"`
}

func NewNestedLightListCommand() Command {
	return nestedListCommandParams{
		command:        newCommand("nested_light_list_req"),
		TopologicScope: "plant",
	}
}

func NewNestedThermoListCommand() Command {
	extended := 2
	return nestedListCommandParams{
		command:        newCommand("nested_thermo_list_req"),
		ExtendedInfos:  &extended,
		TopologicScope: "plant",
	}
}

/*
 *   Wire envelopes
 */

type registrationRequest struct {
	Cmd      string `json:"sl_cmd"`
	Login    string `json:"sl_login"`
	Password string `json:"sl_pwd"`
}

type dataRequest struct {
	Cmd         string          `json:"sl_cmd"`
	ClientID    string          `json:"sl_client_id"`
	ApplMsgType string          `json:"sl_appl_msg_type"`
	ApplMsg     json.RawMessage `json:"sl_appl_msg"`
}

func newRegistrationRequest(login, password string) registrationRequest {
	return registrationRequest{
		Cmd:      "sl_registration_req",
		Login:    login,
		Password: password,
	}
}

// newDataRequest stamps the command fields with the session token and
// sequence number and wraps them in the outer envelope
func newDataRequest(c Command, token string, cseq uint64) (dataRequest, error) {
	params, err := json.Marshal(c)
	if err != nil {
		return dataRequest{}, errors.Wrapf(err, "marshaling %s parameters", c.commandName())
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(params, &fields); err != nil {
		return dataRequest{}, errors.Wrapf(err, "%s parameters are not an object", c.commandName())
	}

	for k, v := range map[string]interface{}{
		"client":   token,
		"cseq":     cseq,
		"cmd_name": c.commandName(),
	} {
		raw, err := json.Marshal(v)
		if err != nil {
			return dataRequest{}, errors.Wrapf(err, "marshaling %s", k)
		}
		fields[k] = raw
	}

	msg, err := json.Marshal(fields)
	if err != nil {
		return dataRequest{}, errors.Wrap(err, "marshaling application message")
	}

	return dataRequest{
		Cmd:         "sl_data_req",
		ClientID:    token,
		ApplMsgType: "domo",
		ApplMsg:     msg,
	}, nil
}
