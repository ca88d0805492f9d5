package ws_session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/humanbelnik/kinoswap/duo/internal/delivery/ws/session/mocks"
	"github.com/humanbelnik/kinoswap/duo/internal/model"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type WSSessionUnitSuite struct {
	suite.Suite
}

func runHub(t provider.T) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub()
	go hub.Run(ctx)
	return hub
}

func detachedClient(hub *Hub, sessionID model.SessionID) *Client {
	return &Client{
		hub:       hub,
		send:      make(chan []byte, clientQueueSize),
		sessionID: sessionID,
	}
}

func receive(t provider.T, client *Client) model.MatchesEvent {
	select {
	case payload, ok := <-client.send:
		require.True(t, ok, "client channel closed")
		var event model.MatchesEvent
		require.NoError(t, json.Unmarshal(payload, &event))
		return event
	case <-time.After(2 * time.Second):
		t.Errorf("no event delivered")
		return model.MatchesEvent{}
	}
}

func heat() []model.Candidate {
	return []model.Candidate{{ID: 7, Title: "Heat", Availability: model.Availability{model.SourceNetflix: true}}}
}

func (s *WSSessionUnitSuite) TestPublishReachesOnlySessionClients(t provider.T) {
	t.Parallel()
	hub := runHub(t)

	first := detachedClient(hub, "abc")
	second := detachedClient(hub, "abc")
	stranger := detachedClient(hub, "xyz")
	for _, c := range []*Client{first, second, stranger} {
		require.True(t, hub.Join(c))
	}
	assert.Eventually(t, func() bool { return hub.Subscribers("abc") == 2 }, time.Second, 10*time.Millisecond)

	hub.Publish("abc", heat())

	for _, c := range []*Client{first, second} {
		event := receive(t, c)
		assert.Equal(t, model.EventUpdateMatches, event.Type)
		assert.Equal(t, "abc", event.SessionID)
		assert.Equal(t, heat(), event.Payload)
	}
	assert.Empty(t, stranger.send)
}

func (s *WSSessionUnitSuite) TestLeaveRemovesScope(t provider.T) {
	t.Parallel()
	hub := runHub(t)

	client := detachedClient(hub, "abc")
	require.True(t, hub.Join(client))
	assert.Eventually(t, func() bool { return hub.Subscribers("abc") == 1 }, time.Second, 10*time.Millisecond)

	hub.Leave(client)
	assert.Eventually(t, func() bool { return hub.Subscribers("abc") == 0 }, time.Second, 10*time.Millisecond)

	_, open := <-client.send
	assert.False(t, open)

	hub.Leave(client)
}

func (s *WSSessionUnitSuite) TestSlowClientIsDropped(t provider.T) {
	t.Parallel()
	hub := runHub(t)

	slow := detachedClient(hub, "abc")
	require.True(t, hub.Join(slow))
	assert.Eventually(t, func() bool { return hub.Subscribers("abc") == 1 }, time.Second, 10*time.Millisecond)

	for i := 0; i < clientQueueSize+1; i++ {
		hub.Publish("abc", nil)
	}

	assert.Eventually(t, func() bool { return hub.Subscribers("abc") == 0 }, time.Second, 10*time.Millisecond)
}

func (s *WSSessionUnitSuite) TestStoppedHubRefusesClients(t provider.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	assert.False(t, hub.Join(detachedClient(hub, "abc")))
}

func newServer(t provider.T, checker SessionChecker, hub *Hub) *httptest.Server {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewController(checker, hub).RegisterRoutes(engine.Group("/api/v1"))

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server, sessionID string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/sessions/" + sessionID + "/ws"
}

func (s *WSSessionUnitSuite) TestJoinOverWebsocket(t provider.T) {
	t.Parallel()
	hub := runHub(t)
	checker := mocks.NewSessionChecker(t)
	checker.On("Exists", mock.Anything, "abc").Return(true, nil).Once()
	srv := newServer(t, checker, hub)

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "abc"), nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	assert.Eventually(t, func() bool { return hub.Subscribers("abc") == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish("abc", heat())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event model.MatchesEvent
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, model.EventUpdateMatches, event.Type)
	assert.Equal(t, heat(), event.Payload)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Subscribers("abc") == 0 }, time.Second, 10*time.Millisecond)
}

func (s *WSSessionUnitSuite) TestJoinRejected(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		exists         bool
		err            error
		expectedStatus int
	}{
		{
			name:           "Should reject unknown session",
			exists:         false,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Should report store failure",
			err:            assert.AnError,
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			hub := runHub(t)
			checker := mocks.NewSessionChecker(t)
			checker.On("Exists", mock.Anything, "abc").Return(tc.exists, tc.err).Once()
			srv := newServer(t, checker, hub)

			_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "abc"), nil)
			assert.ErrorIs(t, err, websocket.ErrBadHandshake)
			require.NotNil(t, resp)
			assert.Equal(t, tc.expectedStatus, resp.StatusCode)
			assert.Equal(t, 0, hub.Subscribers("abc"))
		})
	}
}

func TestWSSessionUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(WSSessionUnitSuite))
}
