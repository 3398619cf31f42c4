package model

import (
	"math/rand"
	"time"
)

func NewModel(cfg Config, scheduler Scheduler, rnd *rand.Rand) *Model {
	m := &Model{
		BoardSize: cfg.BoardSize,
		cfg:       cfg,
		scheduler: scheduler,
		rnd:       rnd,
	}
	m.reset()
	return m
}

// Start arms the scheduler for a freshly created game.
func (m *Model) Start() {
	m.arm()
	m.changed()
}

func (m *Model) SetDirection(d Direction) {
	if !d.Valid() || d == m.Direction.Opposite() {
		return
	}
	m.Direction = d
	m.changed()
}

func (m *Model) Tick() TickResult {
	if m.Status != PLAYING || m.awaitsRestart {
		return TickResult{Outcome: SKIPPED}
	}
	head := m.wrap(Coord{
		X: m.Snake[0].X + m.Direction.X,
		Y: m.Snake[0].Y + m.Direction.Y,
	})

	if head == m.Food {
		m.Snake = append([]Coord{head}, m.Snake...)
		if len(m.Snake)%m.cfg.RampEvery == 0 {
			m.Interval -= m.cfg.IntervalStep
			if m.Interval < m.cfg.MinInterval {
				m.Interval = m.cfg.MinInterval
			}
			m.arm()
		}
		food, ok := m.freeCell()
		if !ok {
			// board is full: Food keeps the eaten cell under the head
			// and the game ends, so it is never moved again
			return m.over()
		}
		m.Food = food
		m.changed()
		return TickResult{Outcome: GREW}
	}

	if m.occupied(head) {
		return m.over()
	}

	copy(m.Snake[1:], m.Snake[:len(m.Snake)-1])
	m.Snake[0] = head
	m.changed()
	return TickResult{Outcome: MOVED}
}

func (m *Model) TogglePause() {
	switch m.Status {
	case PLAYING:
		m.Status = PAUSED
		m.scheduler.Cancel()
	case PAUSED:
		m.Status = PLAYING
		if !m.awaitsRestart {
			m.arm()
		}
	default:
		return
	}
	m.changed()
}

// RequestRestart restarts a finished game immediately. Any other game
// needs ConfirmRestart; ticks are held until the answer arrives.
func (m *Model) RequestRestart() RestartOutcome {
	if m.Status == OVER {
		m.restart()
		return RESTARTED
	}
	if !m.awaitsRestart {
		m.awaitsRestart = true
		m.scheduler.Cancel()
		m.changed()
	}
	return CONFIRMATION_REQUIRED
}

func (m *Model) ConfirmRestart(yes bool) RestartOutcome {
	if !m.awaitsRestart {
		return CANCELLED
	}
	m.awaitsRestart = false
	if yes {
		m.restart()
		return RESTARTED
	}
	if m.Status == PLAYING {
		m.arm()
	}
	m.changed()
	return CANCELLED
}

func (m *Model) AwaitsRestart() bool {
	return m.awaitsRestart
}

func (m *Model) Snapshot() Snapshot {
	snake := make([]Coord, len(m.Snake))
	copy(snake, m.Snake)
	return Snapshot{
		Snake:     snake,
		Food:      m.Food,
		Direction: m.Direction.Name(),
		Status:    m.Status.Name(),
		Interval:  m.Interval,
		BoardSize: m.BoardSize,
		Score:     len(m.Snake),
		Confirm:   m.awaitsRestart,
	}
}

func (m *Model) restart() {
	m.reset()
	m.arm()
	m.changed()
}

func (m *Model) reset() {
	m.Snake = []Coord{m.cfg.Start()}
	m.Direction = Down
	m.Interval = m.cfg.BaseInterval
	m.Status = PLAYING
	m.awaitsRestart = false
	m.Food, _ = m.freeCell()
}

func (m *Model) over() TickResult {
	m.Status = OVER
	m.awaitsRestart = false
	m.scheduler.Cancel()
	m.changed()
	return TickResult{Outcome: GAME_OVER, Score: len(m.Snake)}
}

func (m *Model) arm() {
	m.scheduler.Arm(time.Duration(m.Interval) * time.Millisecond)
}

func (m *Model) changed() {
	if m.OnChange != nil {
		m.OnChange(m.Snapshot())
	}
}

func (m *Model) wrap(c Coord) Coord {
	if c.X < 0 {
		c.X = m.BoardSize - 1
	}
	if c.Y < 0 {
		c.Y = m.BoardSize - 1
	}
	if c.X >= m.BoardSize {
		c.X = 0
	}
	if c.Y >= m.BoardSize {
		c.Y = 0
	}
	return c
}

func (m *Model) occupied(c Coord) bool {
	for _, s := range m.Snake {
		if s == c {
			return true
		}
	}
	return false
}

// freeCell picks uniformly among cells not covered by the snake.
func (m *Model) freeCell() (Coord, bool) {
	taken := make(map[Coord]struct{}, len(m.Snake))
	for _, s := range m.Snake {
		taken[s] = struct{}{}
	}
	free := m.BoardSize*m.BoardSize - len(taken)
	if free <= 0 {
		return Coord{}, false
	}
	n := m.rnd.Intn(free)
	for x := 0; x < m.BoardSize; x++ {
		for y := 0; y < m.BoardSize; y++ {
			c := Coord{X: x, Y: y}
			if _, ok := taken[c]; ok {
				continue
			}
			if n == 0 {
				return c, true
			}
			n--
		}
	}
	return Coord{}, false
}
