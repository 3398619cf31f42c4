package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zucenko/snake/model"
)

func slowConfig() model.Config {
	cfg := model.DefaultConfig()
	cfg.BaseInterval = 10000
	return cfg
}

// newOfflineSession returns a session whose outgoing messages land in a
// buffered channel instead of a websocket.
func newOfflineSession(t *testing.T) (*GameSession, chan model.ServerMessage) {
	t.Helper()
	gs := NewGameSession("test", slowConfig(), nil)
	out := make(chan model.ServerMessage, 64)
	gs.PlayerSession = &PlayerSession{
		State:          PS_PLAY,
		GameSession:    gs,
		GameOver:       make(chan struct{}),
		MessagesToSend: out,
	}
	gs.State = GS_PLAY
	gs.Model.Start()
	require.Len(t, out, 1)
	<-out
	return gs, out
}

func next(t *testing.T, out chan model.ServerMessage) model.ServerMessage {
	t.Helper()
	select {
	case mes := <-out:
		return mes
	default:
		require.FailNow(t, "no message queued")
	}
	return model.ServerMessage{}
}

func TestSessionPauseToggle(t *testing.T) {
	gs, out := newOfflineSession(t)
	defer gs.Scheduler.Cancel()

	gs.Turn(PlayerEvent{Command: model.CMD_PAUSE})
	mes := next(t, out)
	require.Len(t, mes.Snapshots, 1)
	assert.Equal(t, "paused", mes.Snapshots[0].Status)
	assert.False(t, gs.Scheduler.Armed())

	gs.Turn(PlayerEvent{Command: model.CMD_PAUSE})
	mes = next(t, out)
	assert.Equal(t, "playing", mes.Snapshots[0].Status)
	assert.True(t, gs.Scheduler.Armed())
}

func TestSessionDirectionAndUnknownCommand(t *testing.T) {
	gs, out := newOfflineSession(t)
	defer gs.Scheduler.Cancel()

	gs.Turn(PlayerEvent{Command: model.CMD_LEFT})
	mes := next(t, out)
	assert.Equal(t, "left", mes.Snapshots[0].Direction)

	gs.Turn(PlayerEvent{Command: "jump"})
	gs.Turn(PlayerEvent{Command: model.CMD_RIGHT})
	assert.Len(t, out, 0)
	assert.Equal(t, model.Left, gs.Model.Direction)
}

func TestSessionRestartConfirmation(t *testing.T) {
	gs, out := newOfflineSession(t)
	defer gs.Scheduler.Cancel()

	gs.Turn(PlayerEvent{Command: model.CMD_RESTART})
	assert.True(t, next(t, out).Snapshots[0].Confirm)
	mes := next(t, out)
	require.Len(t, mes.Confirms, 1)
	assert.Equal(t, restartQuestion, mes.Confirms[0].Question)
	assert.False(t, gs.Scheduler.Armed())

	gs.Turn(PlayerEvent{Command: model.CMD_CANCEL})
	assert.False(t, next(t, out).Snapshots[0].Confirm)
	mes = next(t, out)
	require.Len(t, mes.Restarts, 1)
	assert.Equal(t, "cancelled", mes.Restarts[0].Outcome)
	assert.True(t, gs.Scheduler.Armed())
}

func TestSessionGameOverAndRestart(t *testing.T) {
	gs, out := newOfflineSession(t)
	defer gs.Scheduler.Cancel()
	gs.Model.Snake = []model.Coord{{X: 5, Y: 5}, {X: 5, Y: 4}, {X: 5, Y: 3}}
	gs.Model.Direction = model.Up
	gs.Model.Food = model.Coord{X: 0, Y: 0}

	gs.Tick()
	assert.Equal(t, "over", next(t, out).Snapshots[0].Status)
	mes := next(t, out)
	require.Len(t, mes.Overs, 1)
	assert.Equal(t, 3, mes.Overs[0].Score)
	assert.Equal(t, GS_OVER, gs.State)
	assert.Equal(t, PS_OVER, gs.PlayerSession.State)
	assert.False(t, gs.Scheduler.Armed())

	gs.Turn(PlayerEvent{Command: model.CMD_RESTART})
	snap := next(t, out).Snapshots[0]
	assert.Equal(t, "playing", snap.Status)
	assert.Equal(t, 1, snap.Score)
	mes = next(t, out)
	require.Len(t, mes.Restarts, 1)
	assert.Equal(t, "restarted", mes.Restarts[0].Outcome)
	assert.Equal(t, GS_PLAY, gs.State)
	assert.Equal(t, PS_PLAY, gs.PlayerSession.State)
	assert.True(t, gs.Scheduler.Armed())
}

func TestSessionLoopDropsStaleTicks(t *testing.T) {
	gs, out := newOfflineSession(t)
	go gs.Loop()

	current := gs.Scheduler.Current()
	gs.Ticks <- Tick{Gen: current - 1}
	// Ticks is unbuffered, so the stale tick is handled before this one is taken
	gs.Ticks <- Tick{Gen: current}

	var mes model.ServerMessage
	select {
	case mes = <-out:
	case <-time.After(time.Second):
		require.FailNow(t, "no snapshot after current tick")
	}
	gs.Errors <- struct{}{}

	require.Len(t, mes.Snapshots, 1)
	assert.Equal(t, model.Coord{X: 9, Y: 10}, mes.Snapshots[0].Snake[0])
	assert.Len(t, out, 0, "stale tick must not move the snake")
	assert.Equal(t, model.Coord{X: 9, Y: 10}, gs.Model.Snake[0])
	assert.Equal(t, GS_ERR, gs.State)
	assert.Equal(t, PS_ERR, gs.PlayerSession.State)
}

func dial(t *testing.T, cfg model.Config) (*websocket.Conn, func()) {
	t.Helper()
	srv := NewGameServer(cfg)
	go srv.Loop()
	ts := httptest.NewServer(srv.HandleHttpCall())
	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn, func() {
		conn.Close()
		ts.Close()
	}
}

func readUntil(t *testing.T, conn *websocket.Conn, match func(model.ServerMessage) bool) model.ServerMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		var mes model.ServerMessage
		require.NoError(t, conn.ReadJSON(&mes))
		if match(mes) {
			return mes
		}
	}
}

func TestWebsocketGame(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.BaseInterval = 1000
	conn, done := dial(t, cfg)
	defer done()

	mes := readUntil(t, conn, func(m model.ServerMessage) bool { return len(m.Snapshots) > 0 })
	snap := mes.Snapshots[0]
	assert.Equal(t, "playing", snap.Status)
	assert.Equal(t, []model.Coord{{X: 9, Y: 9}}, snap.Snake)
	assert.Equal(t, 20, snap.BoardSize)
	assert.Equal(t, 1000, snap.Interval)

	require.NoError(t, conn.WriteJSON(model.ClientMessage{Command: model.CMD_PAUSE}))
	readUntil(t, conn, func(m model.ServerMessage) bool {
		return len(m.Snapshots) > 0 && m.Snapshots[0].Status == "paused"
	})

	require.NoError(t, conn.WriteJSON(model.ClientMessage{Command: model.CMD_RESTART}))
	readUntil(t, conn, func(m model.ServerMessage) bool { return len(m.Confirms) > 0 })

	require.NoError(t, conn.WriteJSON(model.ClientMessage{Command: model.CMD_CONFIRM}))
	mes = readUntil(t, conn, func(m model.ServerMessage) bool { return len(m.Restarts) > 0 })
	assert.Equal(t, "restarted", mes.Restarts[0].Outcome)
}

func TestWebsocketTicksAdvanceSnake(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.BaseInterval = 20
	cfg.MinInterval = 10
	conn, done := dial(t, cfg)
	defer done()

	first := readUntil(t, conn, func(m model.ServerMessage) bool { return len(m.Snapshots) > 0 }).Snapshots[0]
	moved := readUntil(t, conn, func(m model.ServerMessage) bool {
		return len(m.Snapshots) > 0 && m.Snapshots[0].Snake[0] != first.Snake[0]
	}).Snapshots[0]

	assert.Equal(t, model.Coord{X: 9, Y: 9}, first.Snake[0])
	assert.Equal(t, model.Coord{X: 9, Y: 10}, moved.Snake[0])
}

func TestHandleHttpCallRejectsPlainRequest(t *testing.T) {
	srv := NewGameServer(slowConfig())
	ts := httptest.NewServer(srv.HandleHttpCall())
	defer ts.Close()

	resp, err := http.Get(ts.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, srv.GameSessions)
}

func TestGameServerMaxSessions(t *testing.T) {
	srv := NewGameServer(slowConfig())
	srv.MaxSessions = 1
	go srv.Loop()
	ts := httptest.NewServer(srv.HandleHttpCall())
	defer ts.Close()
	url := "ws" + strings.TrimPrefix(ts.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHandleHttpCallKillsUnclaimedSession(t *testing.T) {
	srv := NewGameServer(slowConfig())
	gs := NewGameSession("unclaimed", slowConfig(), nil)
	// answer the request by hand and never run gs.Loop
	go func() {
		req := <-srv.GameRequests
		req.GameContextAwaiting <- GameContextAwaiting{ResponseCode: GAME_READY, GameSession: gs}
	}()
	ts := httptest.NewServer(srv.HandleHttpCall())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	select {
	case <-gs.Errors:
	case <-time.After(2 * time.Second):
		assert.Fail(t, "session was not told to stop after PlayerConnectRequests timed out")
	}
}
