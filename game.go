package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten"
	"github.com/hajimehoshi/ebiten/ebitenutil"
	"github.com/hajimehoshi/ebiten/inpututil"
	"github.com/hajimehoshi/ebiten/text"
	log "github.com/sirupsen/logrus"
	"github.com/tanema/gween"
	"github.com/zucenko/snake/model"
	"golang.org/x/image/font"
)

var (
	bgColor    = color.RGBA{24, 24, 28, 255}
	boardColor = color.RGBA{40, 40, 48, 255}
	headColor  = color.RGBA{80, 220, 120, 255}
	bodyColor  = color.RGBA{60, 180, 100, 255}
	foodColor  = color.RGBA{230, 70, 70, 255}
)

// StrokeSource represents a input device to provide strokes.
type StrokeSource interface {
	Position() (int, int)
	IsJustReleased() bool
}

// MouseStrokeSource is a StrokeSource implementation of mouse.
type MouseStrokeSource struct{}

func (m *MouseStrokeSource) Position() (int, int) {
	return ebiten.CursorPosition()
}

func (m *MouseStrokeSource) IsJustReleased() bool {
	return inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
}

// TouchStrokeSource is a StrokeSource implementation of touch.
type TouchStrokeSource struct {
	ID int
}

func (t *TouchStrokeSource) Position() (int, int) {
	return ebiten.TouchPosition(t.ID)
}

func (t *TouchStrokeSource) IsJustReleased() bool {
	return inpututil.IsTouchJustReleased(t.ID)
}

// Stroke tracks one drag; a long enough drag is a swipe.
type Stroke struct {
	source StrokeSource

	initX, initY       int
	currentX, currentY int

	released bool
}

func NewStroke(source StrokeSource) *Stroke {
	cx, cy := source.Position()
	return &Stroke{
		source:   source,
		initX:    cx,
		initY:    cy,
		currentX: cx,
		currentY: cy,
	}
}

func (s *Stroke) Update() {
	if s.released {
		return
	}
	if s.source.IsJustReleased() {
		s.released = true
		return
	}
	s.currentX, s.currentY = s.source.Position()
}

func (s *Stroke) PositionDiff() (int, int) {
	return s.currentX - s.initX, s.currentY - s.initY
}

// Swipe returns the direction command of the stroke once it is long enough.
func (s *Stroke) Swipe() (string, bool) {
	dx, dy := s.PositionDiff()
	if math.Abs(float64(dx)) < swipe && math.Abs(float64(dy)) < swipe {
		return "", false
	}
	if math.Abs(float64(dx)) > math.Abs(float64(dy)) {
		if dx > 0 {
			return model.CMD_RIGHT, true
		}
		return model.CMD_LEFT, true
	}
	if dy > 0 {
		return model.CMD_DOWN, true
	}
	return model.CMD_UP, true
}

type Game struct {
	Link    *Link
	View    View
	Tweens  map[*gween.Tween]*Action
	strokes map[*Stroke]struct{}

	face      font.Face
	foodScale float32
	overAlpha float32
	closed    bool
}

func NewGame(link *Link, face font.Face) *Game {
	g := &Game{
		Link:      link,
		Tweens:    make(map[*gween.Tween]*Action),
		strokes:   map[*Stroke]struct{}{},
		face:      face,
		foodScale: 1,
	}
	g.View.Snapshot.BoardSize = model.DefaultConfig().BoardSize
	g.pulse()
	return g
}

func (g *Game) receive() {
	for {
		select {
		case mes := <-g.Link.Incoming:
			if g.View.Apply(mes) {
				g.overAlpha = 0
				g.fadeIn()
			}
		case <-g.Link.Closed:
			if !g.closed {
				log.Warn("server connection closed")
				g.closed = true
			}
			return
		default:
			return
		}
	}
}

func (g *Game) input() {
	if g.View.Question != "" {
		if inpututil.IsKeyJustPressed(ebiten.KeyY) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			g.Link.Send(model.CMD_CONFIRM)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyN) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			g.Link.Send(model.CMD_CANCEL)
		}
		return
	}
	for key, command := range keys {
		if inpututil.IsKeyJustPressed(key) {
			g.Link.Send(command)
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.strokes[NewStroke(&MouseStrokeSource{})] = struct{}{}
	}
	for _, id := range inpututil.JustPressedTouchIDs() {
		g.strokes[NewStroke(&TouchStrokeSource{id})] = struct{}{}
	}
	for s := range g.strokes {
		s.Update()
		if command, ok := s.Swipe(); ok {
			g.Link.Send(command)
			delete(g.strokes, s)
			continue
		}
		if s.released {
			delete(g.strokes, s)
		}
	}
}

func (g *Game) update(screen *ebiten.Image) error {
	g.receive()
	if !g.closed {
		g.input()
	}
	g.updateTweens(1.0 / 60)

	if ebiten.IsDrawingSkipped() {
		return nil
	}
	g.draw(screen)
	return nil
}

func (g *Game) draw(screen *ebiten.Image) {
	if err := screen.Fill(bgColor); err != nil {
		log.Printf("%v", err)
	}
	snap := g.View.Snapshot
	cell := float64(boardPixels) / float64(snap.BoardSize)
	ebitenutil.DrawRect(screen, 0, header, boardPixels, boardPixels, boardColor)

	scale := float64(g.foodScale)
	inset := (1 - scale) * cell / 2
	ebitenutil.DrawRect(screen,
		float64(snap.Food.X)*cell+inset, header+float64(snap.Food.Y)*cell+inset,
		cell*scale-1, cell*scale-1, foodColor)
	for i := len(snap.Snake) - 1; i >= 0; i-- {
		c := snap.Snake[i]
		clr := bodyColor
		if i == 0 {
			clr = headColor
		}
		ebitenutil.DrawRect(screen, float64(c.X)*cell, header+float64(c.Y)*cell, cell-1, cell-1, clr)
	}

	text.Draw(screen, fmt.Sprintf("%d", snap.Score), g.face, 10, 30, color.White)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s %dms", snap.Status, snap.Interval), boardPixels-120, 12)

	switch {
	case g.closed:
		g.banner(screen, "disconnected", 0.75)
	case g.View.Question != "":
		g.banner(screen, "Restart? Y/N", 0.6)
	case g.View.Over:
		g.banner(screen, fmt.Sprintf("Game Over, score %d", g.View.OverScore), float64(g.overAlpha))
	case snap.Status == model.PAUSED.Name():
		g.banner(screen, "paused", 0.4)
	}
}

func (g *Game) banner(screen *ebiten.Image, msg string, alpha float64) {
	ebitenutil.DrawRect(screen, 0, header, boardPixels, boardPixels, color.RGBA{0, 0, 0, uint8(alpha * 255)})
	bounds, _ := font.BoundString(g.face, msg)
	width := (bounds.Max.X - bounds.Min.X).Ceil()
	text.Draw(screen, msg, g.face, (boardPixels-width)/2, header+boardPixels/2, color.White)
}

func main() {
	face, err := LoadFont(28)
	if err != nil {
		log.Fatal(err)
	}
	link, err := Dial(serverURL())
	if err != nil {
		log.Fatal(err)
	}
	defer link.Close()

	g := NewGame(link, face)
	if err := ebiten.Run(g.update, screenWidth, screenHeight, 1, "snake"); err != nil {
		log.Fatal(err)
	}
}
