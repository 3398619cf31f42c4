package server

import (
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/snake/model"
)

type GameServer struct {
	Config       model.Config
	MaxSessions  int
	GameSessions map[string]*GameSession
	GameRequests chan GameRequest
	Finished     chan string
	Upgrader     *websocket.Upgrader
}

type GameSessionState int

const (
	GS_NEW GameSessionState = iota
	GS_PLAY
	GS_ERR
	GS_OVER
)

type GameSession struct {
	Id                    string
	State                 GameSessionState
	Model                 *model.Model
	PlayerSession         *PlayerSession
	Scheduler             *TickScheduler
	Ticks                 chan Tick
	Errors                chan struct{}
	Events                chan PlayerEvent
	PlayerConnectRequests chan PlayerConnectRequest
	Finished              chan<- string
	log                   *log.Entry
}

type PlayerSessionState int

const (
	PS_NEW PlayerSessionState = iota + 1
	PS_PLAY
	PS_OVER
	PS_ERR
)

type PlayerSession struct {
	State       PlayerSessionState
	GameSession *GameSession
	Conn        *websocket.Conn
	GameOver    chan struct{}

	MessagesToSend chan model.ServerMessage

	DebugInMessages  int
	DebugOutMessages int
	DebugLastMessage time.Time
	DebugLastPing    time.Time
	DebugPings       int
}
