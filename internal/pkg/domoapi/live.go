package domoapi

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jake-scott/came-domo/internal/pkg/logging"
	"github.com/jake-scott/came-domo/internal/pkg/session"
	"github.com/pkg/errors"
)

const defaultTimeout = time.Second * 10

// Live talks to a gateway over HTTP. Copies made by the With* methods share
// one session, a process must only drive one session at a time.
type Live struct {
	url        string
	login      string
	password   string
	timeout    time.Duration
	httpClient *http.Client
	store      session.Store
	session    *session.Session
	ctx        context.Context
}

func NewLiveClient(gatewayURL string, login string, password string) *Live {
	return &Live{
		url:        gatewayURL,
		login:      login,
		password:   password,
		timeout:    defaultTimeout,
		httpClient: &http.Client{},
		session:    session.New(""),
		ctx:        context.Background(),
	}
}

func (c *Live) WithTimeout(d time.Duration) *Live {
	nc := *c
	nc.timeout = d
	return &nc
}

// WithContext sets the parent of every request context, and the context
// whose fields are logged with the protocol traffic
func (c *Live) WithContext(ctx context.Context) *Live {
	nc := *c
	nc.ctx = ctx
	return &nc
}

// WithSessionStore restores the token saved by a previous run. A store that
// cannot be read is logged and ignored, the next command will log in.
func (c *Live) WithSessionStore(store session.Store) *Live {
	nc := *c
	nc.store = store

	token, err := store.Load()
	if err != nil {
		logging.Logger(c.ctx).WithError(err).Warn("could not restore gateway session")
	} else if token != "" {
		nc.session.Reset(token)
		logging.Logger(c.ctx).Debugf("restored gateway session %s", nc.session)
	}

	return &nc
}

func (c *Live) Session() session.Session {
	return *c.session
}

func (c *Live) MakeContext() (context.Context, context.CancelFunc) {
	var ctx = c.ctx
	var cancel context.CancelFunc = func() {}
	if c.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
	}

	return ctx, cancel
}

// Login registers with the gateway and starts a new session
func (c *Live) Login() error {
	ctxLogger := logging.Logger(c.ctx)

	ctxLogger.Debugf("logging in to %s as %s", c.url, c.login)

	resp, err := c.post(newRegistrationRequest(c.login, c.password))
	if err != nil {
		return &AuthError{Err: err}
	}

	token := resp.Get("sl_client_id")
	if !token.Exists() || token.String() == "" {
		return &AuthError{Body: resp.Body}
	}

	c.session.Reset(token.String())
	ctxLogger.Debugf("logged in, session %s", c.session)

	if c.store != nil {
		if err := c.store.Save(c.session.Token); err != nil {
			ctxLogger.WithError(err).Warn("could not save gateway session")
		}
	}

	return nil
}

// Send delivers one command under the current session. When the gateway
// reports the session as invalid, Send logs in once and retransmits the
// command once with a new sequence number; the outcome of that retry is
// returned as is.
func (c *Live) Send(command Command) (*Response, error) {
	resp, err := c.transmit(command)
	if err != nil {
		return resp, err
	}

	err = checkAck(resp)

	var staleErr *StaleSessionError
	if !errors.As(err, &staleErr) {
		return resp, err
	}

	logging.Logger(c.ctx).Infof("gateway rejected session for %s, logging in again", command.commandName())

	if err := c.Login(); err != nil {
		return resp, err
	}

	resp, err = c.transmit(command)
	if err != nil {
		return resp, err
	}

	return resp, checkAck(resp)
}

func (c *Live) transmit(command Command) (*Response, error) {
	cseq := c.session.Next()

	req, err := newDataRequest(command, c.session.Token, cseq)
	if err != nil {
		return nil, err
	}

	logging.Logger(c.ctx).Debugf("sending %s cseq %d, session %s: %s",
		command.commandName(), cseq, session.HashOf(c.session.Token), req.ApplMsg)

	return c.post(req)
}

func (c *Live) post(payload interface{}) (*Response, error) {
	cmdJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "encoding gateway command")
	}

	ctx, cancel := c.MakeContext()
	defer cancel()

	form := url.Values{}
	form.Set("command", string(cmdJSON))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Wrapf(err, "creating request for %s", c.url)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	bodyBytes, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Err: errors.Wrap(err, "reading response body")}
	}

	logging.Logger(c.ctx).Debugf("gateway response: HTTP %d: %s", resp.StatusCode, bodyBytes)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{StatusCode: resp.StatusCode, Body: bodyBytes}
	}

	return &Response{StatusCode: resp.StatusCode, Body: bodyBytes}, nil
}
