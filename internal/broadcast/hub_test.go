package broadcast

import (
	"bytes"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/feltarena/feltarena/internal/game"
	"github.com/feltarena/feltarena/internal/tournament"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func TestHubDeliversEventsToSpectators(t *testing.T) {
	t.Parallel()

	hub := NewHub(testLogger())
	srv := httptest.NewServer(hub.Router())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	// The register happens in the upgrade handler; wait for it
	require.Eventually(t, func() bool { return hub.Spectators() == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish(game.ActionEvent{
		HandID:    "h1",
		AgentID:   "alpha",
		Street:    "flop",
		Action:    "raise",
		Amount:    60,
		TrashTalk: "easy game",
		At:        time.Now(),
	})

	var env struct {
		Type game.EventType   `json:"type"`
		Data game.ActionEvent `json:"data"`
	}
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&env))
	require.Equal(t, game.EventTypeAction, env.Type)
	require.Equal(t, "alpha", env.Data.AgentID)
	require.Equal(t, 60, env.Data.Amount)
	require.Equal(t, "easy game", env.Data.TrashTalk)
}

func TestHubDropsDisconnectedSpectators(t *testing.T) {
	t.Parallel()

	hub := NewHub(testLogger())
	srv := httptest.NewServer(hub.Router())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Eventually(t, func() bool { return hub.Spectators() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Spectators() == 0 }, time.Second, 10*time.Millisecond)
}

func TestMonitorRendersPlayByPlay(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	m := NewMonitor(&buf)

	m.Publish(game.HandStartEvent{
		HandNumber: 3,
		SmallBlind: 100,
		BigBlind:   200,
		Seats: []game.SeatPublic{
			{Seat: 0, AgentID: "alpha", Chips: 900},
			{Seat: 1, AgentID: "bravo", Chips: 1100},
		},
		At: time.Now(),
	})
	m.Publish(game.ActionEvent{AgentID: "alpha", Action: "raise", Amount: 400, TrashTalk: "pay up", At: time.Now()})
	m.Publish(game.ActionEvent{AgentID: "bravo", Action: "fold", Substituted: true, At: time.Now()})
	m.Publish(tournament.EliminationEvent{AgentID: "bravo", Place: 2, At: time.Now()})

	out := buf.String()
	require.Contains(t, out, "Hand #3")
	require.Contains(t, out, "alpha raise 400")
	require.Contains(t, out, "pay up")
	require.Contains(t, out, "substituted")
	require.Contains(t, out, "bravo ELIMINATED in place 2")
}
