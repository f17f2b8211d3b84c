// Package gatewaytest runs an in-process stand-in for the domotics gateway.
// It issues client ids, rejects commands sent under any other id with ack
// reason 8, answers scripted replies per cmd_name and records every request.
package gatewaytest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/gorilla/mux"
)

// Request is a decoded command envelope as received by the gateway
type Request struct {
	Cmd         string
	Login       string
	Password    string
	ClientID    string
	ApplMsgType string
	ApplMsg     map[string]interface{}
}

func (r Request) CmdName() string {
	s, _ := r.ApplMsg["cmd_name"].(string)
	return s
}

func (r Request) CSeq() uint64 {
	f, _ := r.ApplMsg["cseq"].(float64)
	return uint64(f)
}

func (r Request) Client() string {
	s, _ := r.ApplMsg["client"].(string)
	return s
}

// Reply is a canned answer. A nil Body for a data request defaults to an
// accepted acknowledgement.
type Reply struct {
	Status int
	Body   interface{}
}

// Ack builds a data request reply with the given ack reason and payload fields
func Ack(reason int, fields map[string]interface{}) Reply {
	body := map[string]interface{}{
		"sl_cmd":             "sl_data_ack",
		"sl_data_ack_reason": reason,
	}
	for k, v := range fields {
		body[k] = v
	}

	return Reply{Status: http.StatusOK, Body: body}
}

type Gateway struct {
	Server *httptest.Server

	mu       sync.Mutex
	token    string
	logins   int
	requests []Request
	replies  map[string][]Reply
}

func New() *Gateway {
	g := &Gateway{
		replies: make(map[string][]Reply),
	}

	r := mux.NewRouter()
	r.Use(recoverPanics(), auditRequests())
	r.HandleFunc("/domo/", g.serveCommand).Methods(http.MethodPost)
	g.Server = httptest.NewServer(r)

	return g
}

func (g *Gateway) URL() string {
	return g.Server.URL + "/domo/"
}

func (g *Gateway) Close() {
	g.Server.Close()
}

// On queues replies for a cmd_name, or for sl_registration_req. The last
// queued reply keeps being used once the others are consumed.
func (g *Gateway) On(cmdName string, replies ...Reply) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.replies[cmdName] = append(g.replies[cmdName], replies...)
}

// Expire forgets the current client id, as after a gateway restart
func (g *Gateway) Expire() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.token = ""
}

// Token is the client id issued by the last login
func (g *Gateway) Token() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.token
}

func (g *Gateway) Logins() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.logins
}

func (g *Gateway) Requests() []Request {
	g.mu.Lock()
	defer g.mu.Unlock()

	return append([]Request(nil), g.requests...)
}

// DataRequests returns the sl_data_req requests, logins left out
func (g *Gateway) DataRequests() []Request {
	var out []Request
	for _, r := range g.Requests() {
		if r.Cmd == "sl_data_req" {
			out = append(out, r)
		}
	}

	return out
}

func (g *Gateway) nextReply(key string) (Reply, bool) {
	queue, ok := g.replies[key]
	if !ok || len(queue) == 0 {
		return Reply{}, false
	}

	reply := queue[0]
	if len(queue) > 1 {
		g.replies[key] = queue[1:]
	}

	return reply, true
}

func (g *Gateway) serveCommand(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var envelope struct {
		Cmd         string                 `json:"sl_cmd"`
		Login       string                 `json:"sl_login"`
		Password    string                 `json:"sl_pwd"`
		ClientID    string                 `json:"sl_client_id"`
		ApplMsgType string                 `json:"sl_appl_msg_type"`
		ApplMsg     map[string]interface{} `json:"sl_appl_msg"`
	}
	if err := json.Unmarshal([]byte(r.PostForm.Get("command")), &envelope); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	req := Request(envelope)

	g.mu.Lock()
	g.requests = append(g.requests, req)

	var reply Reply
	switch req.Cmd {
	case "sl_registration_req":
		g.logins++
		var ok bool
		if reply, ok = g.nextReply(req.Cmd); !ok {
			g.token = fmt.Sprintf("client-%d", g.logins)
			reply = Reply{Status: http.StatusOK, Body: map[string]interface{}{
				"sl_cmd":       "sl_registration_ack",
				"sl_client_id": g.token,
			}}
		} else if body, isMap := reply.Body.(map[string]interface{}); isMap {
			if token, isString := body["sl_client_id"].(string); isString {
				g.token = token
			}
		}
	case "sl_data_req":
		var ok bool
		if g.token == "" || req.ClientID != g.token {
			reply = Ack(8, nil)
		} else if reply, ok = g.nextReply(req.CmdName()); !ok || reply.Body == nil {
			status := reply.Status
			reply = Ack(0, nil)
			if status != 0 {
				reply.Status = status
			}
		}
	default:
		reply = Reply{Status: http.StatusBadRequest, Body: map[string]interface{}{"error": "unknown sl_cmd"}}
	}
	g.mu.Unlock()

	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	switch body := reply.Body.(type) {
	case string:
		fmt.Fprint(w, body)
	default:
		json.NewEncoder(w).Encode(body)
	}
}
