package domoapi

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// StatusEvent is one indication from a status_update_req result
type StatusEvent struct {
	CmdName string
	Name    string
	Status  *int64
	Raw     json.RawMessage
}

// Security reports whether the event comes from the alarm (sicu) subsystem
func (e StatusEvent) Security() bool {
	return strings.HasPrefix(e.CmdName, "sicu")
}

// DecodeStatus extracts the indications of a status update. Entries that
// are not objects are skipped.
func DecodeStatus(resp *Response) []StatusEvent {
	var events []StatusEvent

	resp.Get("result").ForEach(func(_, entry gjson.Result) bool {
		if !entry.IsObject() {
			return true
		}

		event := StatusEvent{
			CmdName: entry.Get("cmd_name").String(),
			Name:    entry.Get("name").String(),
			Raw:     json.RawMessage(entry.Raw),
		}

		if status := entry.Get("status"); status.Exists() {
			s := status.Int()
			event.Status = &s
		}

		events = append(events, event)
		return true
	})

	return events
}
