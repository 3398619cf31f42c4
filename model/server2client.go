package model

type ServerMessage struct {
	Snapshots []Snapshot      `json:"snapshots,omitempty"`
	Overs     []GameOver      `json:"overs,omitempty"`
	Confirms  []ConfirmPrompt `json:"confirms,omitempty"`
	Restarts  []Restart       `json:"restarts,omitempty"`
}

type GameOver struct {
	Score int `json:"score"`
}

type ConfirmPrompt struct {
	Question string `json:"question"`
}

type Restart struct {
	Outcome string `json:"outcome"`
}

type ClientMessage struct {
	Command string `json:"command"`
}

const (
	CMD_UP      = "up"
	CMD_DOWN    = "down"
	CMD_LEFT    = "left"
	CMD_RIGHT   = "right"
	CMD_PAUSE   = "pause"
	CMD_RESTART = "restart"
	CMD_CONFIRM = "confirm"
	CMD_CANCEL  = "cancel"
)

var CommandDirections = map[string]Direction{
	CMD_UP:    Up,
	CMD_DOWN:  Down,
	CMD_LEFT:  Left,
	CMD_RIGHT: Right,
}
