package server

import (
	"encoding/json"
	"math/rand"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/snake/model"
)

const restartQuestion = "Are you sure you want to restart the game?"

func NewGameServer(cfg model.Config) *GameServer {
	return &GameServer{
		Config:       cfg,
		GameSessions: make(map[string]*GameSession),
		GameRequests: make(chan GameRequest),
		Finished:     make(chan string),
		Upgrader:     &websocket.Upgrader{},
	}
}

func (s *GameServer) HandleHttpCall() http.HandlerFunc {
	timeout := 200 * time.Millisecond
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("HandleHttpCall - connection received")
		if !websocket.IsWebSocketUpgrade(r) {
			log.Warn("HandleHttpCall not a websocket upgrade")
			w.WriteHeader(GAME_INVALIDE.ToHttp())
			return
		}

		gcas := make(chan GameContextAwaiting, 1)
		select {
		case s.GameRequests <- GameRequest{GameContextAwaiting: gcas}:
		case <-time.After(timeout):
			log.Warn("GameRequests TIMEOUTED")
			w.WriteHeader(HTTP_TIMEOUT)
			return
		}

		var gca GameContextAwaiting
		select {
		case gca = <-gcas:
			if gca.ResponseCode != GAME_READY {
				log.Warnf("HandleHttpCall GameContextAwaiting <- code:%d", gca.ResponseCode)
				w.WriteHeader(gca.ResponseCode.ToHttp())
				return
			}
		case <-time.After(timeout):
			log.Warnf("HandleHttpCall GameContextAwaiting <- TIMEOUTED")
			w.WriteHeader(HTTP_TIMEOUT)
			return
		}

		con, err := s.Upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade has already answered the request
			log.Printf("HandleHttpCall websocket upgrade err %v", err)
			gca.GameSession.Errors <- struct{}{}
			return
		}
		defer con.Close()

		gameOver := make(chan struct{})
		select {
		case gca.GameSession.PlayerConnectRequests <- PlayerConnectRequest{
			Con:      con,
			GameOver: gameOver}:
		case <-time.After(timeout):
			log.Warn("PlayerConnectRequests TIMEOUTED")
			gca.GameSession.Errors <- struct{}{}
			return
		}

		<-gameOver
		log.WithField("session", gca.GameSession.Id).Info("HandleHttpCall done")
	}
}

func (s *GameServer) Loop() {
	log.Printf("GameServer.Loop starting")
	for {
		select {
		case gameReq := <-s.GameRequests:
			if s.MaxSessions > 0 && len(s.GameSessions) >= s.MaxSessions {
				log.Warnf("refusing GameSession, %d running", len(s.GameSessions))
				gameReq.GameContextAwaiting <- GameContextAwaiting{ResponseCode: GAME_UNAVAILABLE}
				continue
			}
			gs := NewGameSession(uuid.New().String(), s.Config, s.Finished)
			go gs.Loop()
			s.GameSessions[gs.Id] = gs
			log.WithField("session", gs.Id).Infof("created GameSession, %d running", len(s.GameSessions))
			gameReq.GameContextAwaiting <- GameContextAwaiting{
				ResponseCode: GAME_READY,
				GameSession:  gs,
			}
		case id := <-s.Finished:
			delete(s.GameSessions, id)
			log.WithField("session", id).Infof("GameSession finished, %d running", len(s.GameSessions))
		}
	}
}

func NewGameSession(id string, cfg model.Config, finished chan<- string) *GameSession {
	ticks := make(chan Tick)
	gs := &GameSession{
		Id:                    id,
		State:                 GS_NEW,
		Scheduler:             NewTickScheduler(ticks),
		Ticks:                 ticks,
		Errors:                make(chan struct{}),
		Events:                make(chan PlayerEvent, 16),
		PlayerConnectRequests: make(chan PlayerConnectRequest),
		Finished:              finished,
		log:                   log.WithField("session", id),
	}
	gs.Model = model.NewModel(cfg, gs.Scheduler, rand.New(rand.NewSource(time.Now().UnixNano())))
	gs.Model.OnChange = func(snap model.Snapshot) {
		gs.send(model.ServerMessage{Snapshots: []model.Snapshot{snap}})
	}
	return gs
}

// Loop owns the model: ticks, commands and connection errors are all
// applied from this goroutine.
func (gs *GameSession) Loop() {
	gs.log.Info("GameSession.Loop start")
	defer gs.log.Info("GameSession.Loop end")
	for {
		select {
		case pcr := <-gs.PlayerConnectRequests:
			if gs.PlayerSession != nil {
				gs.log.Warn("GameSession already has a player")
				close(pcr.GameOver)
				continue
			}
			gs.addPlayer(pcr.Con, pcr.GameOver)
			gs.setPlayerState(PS_PLAY)
			gs.setState(GS_PLAY)
			gs.Model.Start()
		case t := <-gs.Ticks:
			if t.Gen != gs.Scheduler.Current() {
				gs.log.Debugf("dropping stale tick gen:%d", t.Gen)
				continue
			}
			gs.Tick()
		case pe := <-gs.Events:
			gs.Turn(pe)
		case <-gs.Errors:
			gs.log.Warn("killing GS")
			gs.setState(GS_ERR)
			gs.Scheduler.Cancel()
			if gs.PlayerSession != nil {
				gs.setPlayerState(PS_ERR)
				close(gs.PlayerSession.GameOver)
			}
			if gs.Finished != nil {
				gs.Finished <- gs.Id
			}
			return
		}
	}
}

func (gs *GameSession) Tick() {
	res := gs.Model.Tick()
	gs.log.Debugf("tick %s", res.Outcome.Name())
	if res.Outcome != model.GAME_OVER {
		return
	}
	gs.setState(GS_OVER)
	gs.setPlayerState(PS_OVER)
	gs.log.Infof("game over, score %d", res.Score)
	gs.send(model.ServerMessage{Overs: []model.GameOver{{Score: res.Score}}})
}

func (gs *GameSession) Turn(pe PlayerEvent) {
	if d, ok := model.CommandDirections[pe.Command]; ok {
		gs.Model.SetDirection(d)
		return
	}
	switch pe.Command {
	case model.CMD_PAUSE:
		gs.Model.TogglePause()
	case model.CMD_RESTART:
		gs.restarted(gs.Model.RequestRestart())
	case model.CMD_CONFIRM:
		gs.restarted(gs.Model.ConfirmRestart(true))
	case model.CMD_CANCEL:
		gs.restarted(gs.Model.ConfirmRestart(false))
	default:
		gs.log.Warnf("dropping unknown command %q", pe.Command)
	}
}

func (gs *GameSession) restarted(outcome model.RestartOutcome) {
	switch outcome {
	case model.CONFIRMATION_REQUIRED:
		gs.send(model.ServerMessage{Confirms: []model.ConfirmPrompt{{Question: restartQuestion}}})
		return
	case model.RESTARTED:
		gs.setState(GS_PLAY)
		gs.setPlayerState(PS_PLAY)
	}
	gs.send(model.ServerMessage{Restarts: []model.Restart{{Outcome: outcome.Name()}}})
}

func (gs *GameSession) setState(state GameSessionState) {
	if gs.State != state {
		gs.log.Infof("GameSession %s -> %s", gs.State.Name(), state.Name())
	}
	gs.State = state
}

func (gs *GameSession) setPlayerState(state PlayerSessionState) {
	ps := gs.PlayerSession
	if ps == nil {
		return
	}
	if ps.State != state {
		gs.log.Infof("PlayerSession %s -> %s", ps.State.Name(), state.Name())
	}
	ps.State = state
}

func (gs *GameSession) send(mes model.ServerMessage) {
	if gs.PlayerSession == nil {
		return
	}
	select {
	case gs.PlayerSession.MessagesToSend <- mes:
	default:
		gs.log.Warn("dropping message, MessagesToSend FULL")
	}
}

func (gs *GameSession) addPlayer(
	conn *websocket.Conn,
	gameOver chan struct{},
) {
	gs.log.Printf("GameSession.addPlayer")
	ps := &PlayerSession{
		State:          PS_NEW,
		GameSession:    gs,
		Conn:           conn,
		GameOver:       gameOver,
		MessagesToSend: make(chan model.ServerMessage, 32),
	}
	conn.SetPingHandler(
		func(message string) error {
			err := conn.WriteControl(websocket.PongMessage, []byte(message), time.Now().Add(time.Second))
			ps.DebugLastPing = time.Now()
			ps.DebugPings++
			if err == websocket.ErrCloseSent {
				return nil
			} else if e, ok := err.(net.Error); ok && e.Temporary() {
				return nil
			}
			return err
		})
	gs.PlayerSession = ps
	go ps.LoopChannelRead()
	go ps.LoopChannelWrite()
}

func (ps *PlayerSession) fail() {
	select {
	case ps.GameSession.Errors <- struct{}{}:
	case <-ps.GameOver:
	}
}

func (ps *PlayerSession) LoopChannelRead() {
	log := ps.GameSession.log
	log.Printf("LoopChannelRead STARTED")
	defer func() {
		log.Printf("LoopChannelRead ENDED in:%d pings:%d last message:%s last ping:%s",
			ps.DebugInMessages, ps.DebugPings,
			ps.DebugLastMessage.Format(time.RFC3339), ps.DebugLastPing.Format(time.RFC3339))
	}()
	for {
		_, r, err := ps.Conn.NextReader()
		if err != nil {
			log.Printf("LoopChannelRead err reading message from Conn %v", err)
			ps.fail()
			return
		}
		cm := &model.ClientMessage{}
		if err := json.NewDecoder(r).Decode(cm); err != nil {
			log.Warnf("cant decode client message: %v", err)
			continue
		}
		ps.DebugLastMessage = time.Now()
		ps.DebugInMessages++

		select {
		case ps.GameSession.Events <- PlayerEvent{Command: cm.Command}:
		case <-ps.GameOver:
			return
		default:
			log.Warnf("dropping command %q, GameSession.Events FULL", cm.Command)
		}
	}
}

// this function only consumes. no worries about full buffer stuck
func (ps *PlayerSession) LoopChannelWrite() {
	log := ps.GameSession.log
	log.Printf("PlayerSession.LoopChannelWrite STARTED")
	defer func() {
		log.Printf("LoopChannelWrite ENDED out:%d", ps.DebugOutMessages)
	}()
	for {
		select {
		case mes := <-ps.MessagesToSend:
			w, err := ps.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				log.Warnf("PlayerSession.LoopChannelWrite cant get writer %v", err)
				ps.fail()
				return
			}
			if err := json.NewEncoder(w).Encode(mes); err != nil {
				log.Warnf("PlayerSession.LoopChannelWrite cant encode %v", err)
				ps.fail()
				return
			}
			if err := w.Close(); err != nil {
				log.Warnf("PlayerSession.LoopChannelWrite cant flush %v", err)
				ps.fail()
				return
			}
			ps.DebugOutMessages++
		case <-ps.GameOver:
			return
		}
	}
}
