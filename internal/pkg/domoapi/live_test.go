package domoapi_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jake-scott/came-domo/internal/pkg/domoapi"
	"github.com/jake-scott/came-domo/internal/pkg/gatewaytest"
	"github.com/jake-scott/came-domo/internal/pkg/session"
)

func newClient(gw *gatewaytest.Gateway, store session.Store) *domoapi.Live {
	return domoapi.NewLiveClient(gw.URL(), "admin", "admin").
		WithTimeout(time.Second * 5).
		WithSessionStore(store)
}

func TestLiveLogin(t *testing.T) {
	t.Run("stores the issued client id and resets the sequence", func(t *testing.T) {
		gw := gatewaytest.New()
		defer gw.Close()

		store := &session.MemoryStore{}
		client := newClient(gw, store)

		require.NoError(t, client.Login())

		assert.Equal(t, "client-1", client.Session().Token)
		assert.Equal(t, uint64(0), client.Session().Sequence)
		assert.Equal(t, "client-1", store.Token)

		reqs := gw.Requests()
		require.Len(t, reqs, 1)
		assert.Equal(t, "sl_registration_req", reqs[0].Cmd)
		assert.Equal(t, "admin", reqs[0].Login)
		assert.Equal(t, "admin", reqs[0].Password)
	})

	t.Run("response without client id is an auth error", func(t *testing.T) {
		gw := gatewaytest.New()
		defer gw.Close()

		gw.On("sl_registration_req", gatewaytest.Reply{Body: map[string]interface{}{"sl_cmd": "sl_registration_ack"}})

		store := &session.MemoryStore{}
		err := newClient(gw, store).Login()

		var authErr *domoapi.AuthError
		assert.True(t, errors.As(err, &authErr))
		assert.Equal(t, 0, store.Saves)
	})

	t.Run("transport failure during login is an auth error", func(t *testing.T) {
		gw := gatewaytest.New()
		defer gw.Close()

		gw.On("sl_registration_req", gatewaytest.Reply{Status: http.StatusInternalServerError, Body: "boom"})

		err := newClient(gw, &session.MemoryStore{}).Login()

		var authErr *domoapi.AuthError
		require.True(t, errors.As(err, &authErr))

		var transportErr *domoapi.TransportError
		require.True(t, errors.As(err, &transportErr))
		assert.Equal(t, http.StatusInternalServerError, transportErr.StatusCode)
	})
}

func TestLiveSend(t *testing.T) {
	t.Run("sequence numbers start at one and increase by one", func(t *testing.T) {
		gw := gatewaytest.New()
		defer gw.Close()

		client := newClient(gw, &session.MemoryStore{})
		require.NoError(t, client.Login())

		for i := 0; i < 5; i++ {
			_, err := client.Send(domoapi.NewLightCommand(4, domoapi.LightOn))
			require.NoError(t, err)
		}

		reqs := gw.DataRequests()
		require.Len(t, reqs, 5)
		for i, r := range reqs {
			assert.Equal(t, uint64(i+1), r.CSeq())
			assert.Equal(t, "client-1", r.ClientID)
			assert.Equal(t, "client-1", r.Client())
			assert.Equal(t, "domo", r.ApplMsgType)
		}
	})

	t.Run("missing session logs in once and retransmits with a new sequence", func(t *testing.T) {
		gw := gatewaytest.New()
		defer gw.Close()

		store := &session.MemoryStore{}
		client := newClient(gw, store)

		_, err := client.Send(domoapi.NewScenarioCommand(2))
		require.NoError(t, err)

		reqs := gw.Requests()
		require.Len(t, reqs, 3)

		assert.Equal(t, "sl_data_req", reqs[0].Cmd)
		assert.Equal(t, "", reqs[0].ClientID)
		assert.Equal(t, uint64(1), reqs[0].CSeq())

		assert.Equal(t, "sl_registration_req", reqs[1].Cmd)

		assert.Equal(t, "scenario_activation_req", reqs[2].CmdName())
		assert.Equal(t, "client-1", reqs[2].ClientID)
		assert.Equal(t, uint64(1), reqs[2].CSeq())
		assert.Equal(t, float64(2), reqs[2].ApplMsg["id"])

		assert.Equal(t, 1, gw.Logins())
		assert.Equal(t, "client-1", store.Token)
	})

	t.Run("expired session re-authenticates once", func(t *testing.T) {
		gw := gatewaytest.New()
		defer gw.Close()

		client := newClient(gw, &session.MemoryStore{})
		require.NoError(t, client.Login())

		_, err := client.Send(domoapi.NewLightCommand(4, domoapi.LightOn))
		require.NoError(t, err)

		gw.Expire()

		_, err = client.Send(domoapi.NewLightCommand(4, domoapi.LightOff))
		require.NoError(t, err)

		assert.Equal(t, 2, gw.Logins())
		assert.Equal(t, "client-2", client.Session().Token)

		reqs := gw.DataRequests()
		require.Len(t, reqs, 3)
		assert.Equal(t, uint64(2), reqs[1].CSeq())
		assert.Equal(t, "client-2", reqs[2].ClientID)
		assert.Equal(t, uint64(1), reqs[2].CSeq())
	})

	t.Run("second session rejection is returned without another login", func(t *testing.T) {
		gw := gatewaytest.New()
		defer gw.Close()

		gw.On("light_switch_req", gatewaytest.Ack(8, nil))

		client := newClient(gw, &session.MemoryStore{})

		resp, err := client.Send(domoapi.NewLightCommand(4, domoapi.LightOn))

		var staleErr *domoapi.StaleSessionError
		assert.True(t, errors.As(err, &staleErr))
		require.NotNil(t, resp)
		reason, ok := resp.AckReason()
		assert.True(t, ok)
		assert.Equal(t, domoapi.AckSessionInvalid, reason)

		assert.Equal(t, 1, gw.Logins())
		assert.Len(t, gw.DataRequests(), 2)
	})

	t.Run("unknown ack reason is reported with the response", func(t *testing.T) {
		gw := gatewaytest.New()
		defer gw.Close()

		gw.On("opening_move_req", gatewaytest.Ack(3, nil))

		client := newClient(gw, &session.MemoryStore{})
		require.NoError(t, client.Login())

		resp, err := client.Send(domoapi.NewOpeningMoveCommand(9, domoapi.OpeningUp))

		var ackErr *domoapi.UnknownAckError
		require.True(t, errors.As(err, &ackErr))
		assert.Equal(t, int64(3), ackErr.Reason)
		assert.NotNil(t, resp)
		assert.True(t, domoapi.Continuable(err))
		assert.Equal(t, 1, gw.Logins())
	})

	t.Run("HTTP error status is a transport error and is not retried", func(t *testing.T) {
		gw := gatewaytest.New()
		defer gw.Close()

		gw.On("scenario_activation_req", gatewaytest.Reply{Status: http.StatusServiceUnavailable, Body: "busy"})

		client := newClient(gw, &session.MemoryStore{})
		require.NoError(t, client.Login())

		_, err := client.Send(domoapi.NewScenarioCommand(1))

		var transportErr *domoapi.TransportError
		require.True(t, errors.As(err, &transportErr))
		assert.Equal(t, http.StatusServiceUnavailable, transportErr.StatusCode)
		assert.Contains(t, string(transportErr.Body), "busy")
		assert.Len(t, gw.DataRequests(), 1)
		assert.Equal(t, 1, gw.Logins())
	})

	t.Run("restored session is used without logging in", func(t *testing.T) {
		gw := gatewaytest.New()
		defer gw.Close()

		store := &session.MemoryStore{}
		require.NoError(t, newClient(gw, store).Login())

		client := newClient(gw, store)
		assert.Equal(t, "client-1", client.Session().Token)

		_, err := client.Send(domoapi.NewStatusUpdateCommand())
		require.NoError(t, err)

		assert.Equal(t, 1, gw.Logins())
		reqs := gw.DataRequests()
		require.Len(t, reqs, 1)
		assert.Equal(t, uint64(1), reqs[0].CSeq())
	})

	t.Run("request timeout is a transport error", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
		}))
		defer srv.Close()
		defer close(release)

		client := domoapi.NewLiveClient(srv.URL, "admin", "admin").WithTimeout(time.Millisecond * 50)

		_, err := client.Send(domoapi.NewStatusUpdateCommand())

		var transportErr *domoapi.TransportError
		require.True(t, errors.As(err, &transportErr))
		assert.Error(t, transportErr.Err)
		assert.True(t, domoapi.Continuable(err))
	})
}
