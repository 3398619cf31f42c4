package model

import "fmt"

// maxBoardSize bounds the per-tick free cell scan.
const maxBoardSize = 256

type Config struct {
	BoardSize    int
	BaseInterval int
	IntervalStep int
	MinInterval  int
	RampEvery    int
}

func DefaultConfig() Config {
	return Config{
		BoardSize:    20,
		BaseInterval: 200,
		IntervalStep: 10,
		MinInterval:  50,
		RampEvery:    5,
	}
}

func (c Config) Validate() error {
	switch {
	case c.BoardSize < 2:
		return fmt.Errorf("board size %d too small", c.BoardSize)
	case c.BoardSize > maxBoardSize:
		return fmt.Errorf("board size %d above %d", c.BoardSize, maxBoardSize)
	case c.BaseInterval <= 0:
		return fmt.Errorf("interval %d not positive", c.BaseInterval)
	case c.IntervalStep <= 0:
		return fmt.Errorf("step %d not positive", c.IntervalStep)
	case c.MinInterval <= 0 || c.MinInterval > c.BaseInterval:
		return fmt.Errorf("min interval %d outside (0, %d]", c.MinInterval, c.BaseInterval)
	case c.RampEvery <= 0:
		return fmt.Errorf("ramp %d not positive", c.RampEvery)
	}
	return nil
}

// Start is the cell a new snake occupies, one up-left of the board center.
func (c Config) Start() Coord {
	return Coord{X: c.BoardSize/2 - 1, Y: c.BoardSize/2 - 1}
}
