package domoapi

import "github.com/jake-scott/came-domo/internal/pkg/session"

// Gateway acknowledgement reasons carried in sl_data_ack_reason
const (
	AckOK             int64 = 0
	AckSessionInvalid int64 = 8
)

type Scenario struct {
	ID   int
	Name string
}

// Opening is a blind/shutter. The gateway hands out separate activation
// points for each direction.
type Opening struct {
	OpenActID  int
	CloseActID int
	Name       string
}

type Light struct {
	ActID int
	Name  string
	Room  string
}

// ThermoZone is a thermoregulation zone, Temp is in tenths of a degree Celsius
type ThermoZone struct {
	ActID int
	Name  string
	Temp  int
}

type Gateway interface {
	Login() error
	Send(command Command) (*Response, error)
	Session() session.Session
}
