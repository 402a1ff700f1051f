// Package sound plays the completion chime.
package sound

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

//go:embed assets/chime.wav
var defaultChime []byte

var ErrNoAudio = errors.New("sound: no audio output")

type Player interface {
	Play() error
}

type NopPlayer struct{}

func (NopPlayer) Play() error { return nil }

// BellPlayer rings the terminal bell.
type BellPlayer struct {
	W io.Writer
}

func (b BellPlayer) Play() error {
	w := b.W
	if w == nil {
		w = os.Stderr
	}
	_, err := io.WriteString(w, "\a")
	return err
}

// BeepPlayer plays a decoded wav clip through the system speaker. The speaker
// is initialised on the first Play.
type BeepPlayer struct {
	buffer *beep.Buffer
	volume float64

	initOnce sync.Once
	initErr  error
}

// NewBeepPlayer decodes a wav clip. Volume is in beep's base-2 scale: 0 is
// unchanged, -1 is half as loud.
func NewBeepPlayer(clip []byte, volume float64) (*BeepPlayer, error) {
	streamer, format, err := wav.Decode(bytes.NewReader(clip))
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	defer streamer.Close()

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	if buffer.Len() == 0 {
		return nil, errors.New("sound: empty clip")
	}
	return &BeepPlayer{buffer: buffer, volume: volume}, nil
}

// LoadBeepPlayer reads the clip at path, or the built-in chime when path is
// empty.
func LoadBeepPlayer(path string, volume float64) (*BeepPlayer, error) {
	clip := defaultChime
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read sound file: %w", err)
		}
		clip = data
	}
	return NewBeepPlayer(clip, volume)
}

func (p *BeepPlayer) Format() beep.Format {
	return p.buffer.Format()
}

func (p *BeepPlayer) Len() int {
	return p.buffer.Len()
}

func (p *BeepPlayer) Play() error {
	p.initOnce.Do(func() {
		sr := p.buffer.Format().SampleRate
		if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
			p.initErr = fmt.Errorf("%w: %v", ErrNoAudio, err)
		}
	})
	if p.initErr != nil {
		return p.initErr
	}
	speaker.Play(&effects.Volume{
		Streamer: p.buffer.Streamer(0, p.buffer.Len()),
		Base:     2,
		Volume:   p.volume,
		Silent:   false,
	})
	return nil
}

// FallbackPlayer tries Primary and uses Fallback when it fails.
type FallbackPlayer struct {
	Primary  Player
	Fallback Player
}

func (f FallbackPlayer) Play() error {
	if f.Primary != nil {
		if err := f.Primary.Play(); err == nil {
			return nil
		} else if f.Fallback == nil {
			return err
		}
	}
	if f.Fallback == nil {
		return nil
	}
	return f.Fallback.Play()
}
