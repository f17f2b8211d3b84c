package domoapi

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Response is the decoded JSON reply of the gateway
type Response struct {
	StatusCode int
	Body       []byte
}

func (r *Response) Get(path string) gjson.Result {
	return gjson.GetBytes(r.Body, path)
}

// AckReason returns sl_data_ack_reason, and false if the reply has none
func (r *Response) AckReason() (int64, bool) {
	res := r.Get("sl_data_ack_reason")
	if !res.Exists() {
		return 0, false
	}

	return res.Int(), true
}

// Indent returns the body pretty printed, or as received if it is not JSON
func (r *Response) Indent() string {
	return Pretty(r.Body)
}

// Pretty formats a JSON document for display. Anything that is not valid
// JSON comes back unchanged.
func Pretty(raw []byte) string {
	if !gjson.ValidBytes(raw) {
		return string(raw)
	}

	return strings.TrimRight(gjson.GetBytes(raw, "@pretty").Raw, "\n")
}

func checkAck(resp *Response) error {
	reason, ok := resp.AckReason()
	if !ok {
		return &UnknownAckError{Reason: -1, Body: resp.Body}
	}

	switch reason {
	case AckOK:
		return nil
	case AckSessionInvalid:
		return &StaleSessionError{Body: resp.Body}
	}

	return &UnknownAckError{Reason: reason, Body: resp.Body}
}
