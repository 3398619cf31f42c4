package main

import (
	"fmt"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/snake/model"
)

// Link is the client end of a /play websocket. Messages are only written
// from the ebiten update loop.
type Link struct {
	conn     *websocket.Conn
	Incoming chan model.ServerMessage
	Closed   chan struct{}
}

func Dial(url string) (*Link, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	l := &Link{
		conn:     conn,
		Incoming: make(chan model.ServerMessage, 64),
		Closed:   make(chan struct{}),
	}
	go l.loopRead()
	return l, nil
}

func (l *Link) loopRead() {
	defer close(l.Closed)
	for {
		var mes model.ServerMessage
		if err := l.conn.ReadJSON(&mes); err != nil {
			log.Printf("Link.loopRead ENDED %v", err)
			return
		}
		l.Incoming <- mes
	}
}

func (l *Link) Send(command string) {
	if err := l.conn.WriteJSON(model.ClientMessage{Command: command}); err != nil {
		log.Warnf("Link.Send %s: %v", command, err)
	}
}

func (l *Link) Close() error {
	return l.conn.Close()
}

// View is what the window shows, rebuilt from server messages.
type View struct {
	Snapshot  model.Snapshot
	Question  string
	OverScore int
	Over      bool
}

func (v *View) Apply(mes model.ServerMessage) (gameOver bool) {
	for _, s := range mes.Snapshots {
		v.Snapshot = s
		if s.Status != model.OVER.Name() {
			v.Over = false
		}
		if !s.Confirm {
			v.Question = ""
		}
	}
	for _, o := range mes.Overs {
		v.Over = true
		v.OverScore = o.Score
		gameOver = true
	}
	for _, c := range mes.Confirms {
		v.Question = c.Question
	}
	return gameOver
}
