package main

import (
	"bytes"
	"os"

	"github.com/golang/freetype/truetype"
	"github.com/hajimehoshi/ebiten"
	"github.com/hajimehoshi/ebiten/ebitenutil"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/snake/model"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	boardPixels = 480
	header      = 40
	swipe       = 30
)

var screenWidth = boardPixels
var screenHeight = boardPixels + header

var keys = map[ebiten.Key]string{
	ebiten.KeyUp:     model.CMD_UP,
	ebiten.KeyDown:   model.CMD_DOWN,
	ebiten.KeyLeft:   model.CMD_LEFT,
	ebiten.KeyRight:  model.CMD_RIGHT,
	ebiten.KeySpace:  model.CMD_PAUSE,
	ebiten.KeyEscape: model.CMD_RESTART,
}

func serverURL() string {
	if url := os.Getenv("SNAKE_SERVER"); url != "" {
		return url
	}
	return "ws://localhost:8080/play"
}

// LoadFont reads a TTF from SNAKE_FONT, falling back to Go Regular.
func LoadFont(size float64) (font.Face, error) {
	data := goregular.TTF
	if path := os.Getenv("SNAKE_FONT"); path != "" {
		file, err := ebitenutil.OpenFile(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		buf := new(bytes.Buffer)
		if _, err := buf.ReadFrom(file); err != nil {
			return nil, err
		}
		data = buf.Bytes()
		log.Printf("font loaded from %s", path)
	}
	tt, err := truetype.Parse(data)
	if err != nil {
		return nil, err
	}
	const dpi = 72
	return truetype.NewFace(tt, &truetype.Options{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingFull,
	}), nil
}
