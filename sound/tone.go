// Package sound synthesizes the game's sound effects with beep and plays
// them through ebiten's audio context.
package sound

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// SampleRate is the rate every effect is rendered at.
const SampleRate = 44100

// Note is one step of a jingle. A zero Freq is a rest.
type Note struct {
	Freq     float64
	Duration time.Duration
}

// GameOverNotes is a short falling arpeggio.
var GameOverNotes = []Note{
	{Freq: 440, Duration: 140 * time.Millisecond},
	{Freq: 0, Duration: 30 * time.Millisecond},
	{Freq: 330, Duration: 140 * time.Millisecond},
	{Freq: 0, Duration: 30 * time.Millisecond},
	{Freq: 220, Duration: 420 * time.Millisecond},
}

// Jingle chains notes into one streamer. Every note fades out linearly so
// the steps do not click; volume is in beep's base-2 scale (0 is unchanged).
func Jingle(sr beep.SampleRate, notes []Note, volume float64) (beep.Streamer, error) {
	parts := make([]beep.Streamer, 0, len(notes))
	for _, note := range notes {
		n := sr.N(note.Duration)
		if note.Freq == 0 {
			parts = append(parts, beep.Silence(n))
			continue
		}

		tone, err := generators.SineTone(sr, note.Freq)
		if err != nil {
			return nil, fmt.Errorf("tone %.0f Hz: %w", note.Freq, err)
		}
		parts = append(parts, &fadeOut{streamer: beep.Take(n, tone), total: n})
	}

	return &effects.Volume{Streamer: beep.Seq(parts...), Base: 2, Volume: volume}, nil
}

// Render drains s into signed 16-bit little-endian stereo PCM.
func Render(s beep.Streamer) ([]byte, error) {
	var pcm []byte
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for _, frame := range buf[:n] {
			pcm = binary.LittleEndian.AppendUint16(pcm, uint16(toInt16(frame[0])))
			pcm = binary.LittleEndian.AppendUint16(pcm, uint16(toInt16(frame[1])))
		}
		if !ok {
			break
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return pcm, nil
}

// GameOverPCM renders GameOverNotes at SampleRate.
func GameOverPCM() ([]byte, error) {
	jingle, err := Jingle(SampleRate, GameOverNotes, -1)
	if err != nil {
		return nil, err
	}
	return Render(jingle)
}

func toInt16(v float64) int16 {
	v = math.Max(-1, math.Min(1, v))
	return int16(math.Round(v * math.MaxInt16))
}

type fadeOut struct {
	streamer beep.Streamer
	pos      int
	total    int
}

func (f *fadeOut) Stream(samples [][2]float64) (int, bool) {
	n, ok := f.streamer.Stream(samples)
	for i := range samples[:n] {
		k := 1 - float64(f.pos)/float64(f.total)
		samples[i][0] *= k
		samples[i][1] *= k
		f.pos++
	}
	return n, ok
}

func (f *fadeOut) Err() error { return f.streamer.Err() }
