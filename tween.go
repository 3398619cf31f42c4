package main

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

type Action struct {
	nexts    []func(g *Game)
	onChange func(float32)
	onFinish []func()
}

func (a *Action) addOnFinish(f func()) {
	a.onFinish = append(a.onFinish, f)
}

func (a *Action) next(t *gween.Tween) *Action {
	action := &Action{}
	a.nexts = append(a.nexts,
		func(g *Game) {
			g.Tweens[t] = action
		})
	return action
}

// pulse swells the food between 0.6 and 1 forever.
func (g *Game) pulse() {
	grow := gween.New(0.6, 1, 0.5, ease.InOutSine)
	shrink := gween.New(1, 0.6, 0.5, ease.InOutSine)
	a := &Action{onChange: func(v float32) { g.foodScale = v }}
	b := a.next(shrink)
	b.onChange = a.onChange
	b.addOnFinish(func() { g.pulse() })
	g.Tweens[grow] = a
}

func (g *Game) fadeIn() {
	g.Tweens[gween.New(0, 0.75, 0.4, ease.OutQuad)] = &Action{
		onChange: func(v float32) { g.overAlpha = v },
	}
}

func (g *Game) updateTweens(dt float32) {
	for t, a := range g.Tweens {
		curr, finished := t.Update(dt)
		if a.onChange != nil {
			a.onChange(curr)
		}
		if finished {
			delete(g.Tweens, t)
			for _, onFinish := range a.onFinish {
				onFinish()
			}
			for _, next := range a.nexts {
				next(g)
			}
		}
	}
}
