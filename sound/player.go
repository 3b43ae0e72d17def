package sound

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// Player plays pre-rendered effects on an ebiten audio context.
type Player struct {
	ctx      *audio.Context
	gameOver []byte
	current  *audio.Player
}

// NewPlayer renders the effects once up front. ctx must run at SampleRate.
func NewPlayer(ctx *audio.Context) (*Player, error) {
	if ctx.SampleRate() != SampleRate {
		return nil, fmt.Errorf("audio context runs at %d Hz, want %d", ctx.SampleRate(), SampleRate)
	}

	pcm, err := GameOverPCM()
	if err != nil {
		return nil, fmt.Errorf("render game over jingle: %w", err)
	}
	return &Player{ctx: ctx, gameOver: pcm}, nil
}

// GameOver starts the game-over jingle, restarting it if it is already playing.
func (p *Player) GameOver() {
	if p.current != nil {
		p.current.Close()
	}
	p.current = p.ctx.NewPlayerFromBytes(p.gameOver)
	p.current.Play()
}

// Playing reports whether an effect is still audible.
func (p *Player) Playing() bool {
	return p.current != nil && p.current.IsPlaying()
}
