package model

import (
	"fmt"
	"math/rand"
	"time"
)

type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type Direction struct {
	X, Y int
}

var (
	Up    = Direction{X: 0, Y: -1}
	Down  = Direction{X: 0, Y: 1}
	Right = Direction{X: 1, Y: 0}
	Left  = Direction{X: -1, Y: 0}
)

func (d Direction) Opposite() Direction {
	return Direction{X: -d.X, Y: -d.Y}
}

// Valid reports whether d is one of the four unit vectors.
func (d Direction) Valid() bool {
	return d == Up || d == Down || d == Right || d == Left
}

func (d Direction) Name() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Right:
		return "right"
	case Left:
		return "left"
	default:
		return fmt.Sprintf("n/a:%d,%d", d.X, d.Y)
	}
}

type Status int

const (
	PLAYING Status = iota
	PAUSED
	OVER
)

func (s Status) Name() string {
	switch s {
	case PLAYING:
		return "playing"
	case PAUSED:
		return "paused"
	case OVER:
		return "over"
	default:
		return fmt.Sprintf("n/a:%d", s)
	}
}

type Outcome int

const (
	SKIPPED Outcome = iota
	MOVED
	GREW
	GAME_OVER
)

func (o Outcome) Name() string {
	switch o {
	case SKIPPED:
		return "skipped"
	case MOVED:
		return "moved"
	case GREW:
		return "grew"
	case GAME_OVER:
		return "over"
	default:
		return fmt.Sprintf("n/a:%d", o)
	}
}

type TickResult struct {
	Outcome Outcome
	// Score is set on GAME_OVER only.
	Score int
}

type RestartOutcome int

const (
	RESTARTED RestartOutcome = iota
	CANCELLED
	CONFIRMATION_REQUIRED
)

func (r RestartOutcome) Name() string {
	switch r {
	case RESTARTED:
		return "restarted"
	case CANCELLED:
		return "cancelled"
	case CONFIRMATION_REQUIRED:
		return "confirm"
	default:
		return fmt.Sprintf("n/a:%d", r)
	}
}

// Scheduler drives Tick. Arm replaces any armed timer.
type Scheduler interface {
	Arm(interval time.Duration)
	Cancel()
}

type Model struct {
	Snake     []Coord
	Food      Coord
	Direction Direction
	Interval  int
	Status    Status
	BoardSize int

	// OnChange receives a snapshot after every state-affecting operation.
	OnChange func(Snapshot)

	cfg           Config
	scheduler     Scheduler
	rnd           *rand.Rand
	awaitsRestart bool
}

type Snapshot struct {
	Snake     []Coord `json:"snake"`
	Food      Coord   `json:"food"`
	Direction string  `json:"direction"`
	Status    string  `json:"status"`
	Interval  int     `json:"interval"`
	BoardSize int     `json:"boardSize"`
	Score     int     `json:"score"`
	Confirm   bool    `json:"confirm"`
}
