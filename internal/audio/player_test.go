package audio

import (
	"io"
	"testing"
	"time"

	"github.com/Garsondee/tank-arena/internal/game"
	"github.com/gopxl/beep"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlayer() *Player {
	return NewPlayer(0, zerolog.New(io.Discard))
}

// drain streams up to n samples and returns how many were produced.
func drain(s beep.Streamer, n int) int {
	buf := make([][2]float64, 512)
	total := 0
	for total < n {
		want := len(buf)
		if n-total < want {
			want = n - total
		}
		got, ok := s.Stream(buf[:want])
		total += got
		if !ok {
			break
		}
	}
	return total
}

func TestPlayer_HasEverySound(t *testing.T) {
	p := newTestPlayer()
	for _, name := range []string{
		game.SoundShoot, game.SoundHit, game.SoundExplode, game.SoundLevelUp,
		game.SoundSelect, game.SoundGameOver, game.SoundMusic,
	} {
		buf, ok := p.buffers[name]
		require.True(t, ok, "missing sound %q", name)
		assert.Greater(t, buf.Len(), 0, "empty sound %q", name)
	}
}

func TestPlayer_UnknownSound(t *testing.T) {
	p := newTestPlayer()
	_, ok := p.stream("nope", game.AudioOptions{Volume: 1})
	assert.False(t, ok)
}

func TestPlayer_OneShotEnds(t *testing.T) {
	p := newTestPlayer()
	s, ok := p.stream(game.SoundHit, game.AudioOptions{Volume: 1})
	require.True(t, ok)

	n := p.buffers[game.SoundHit].Len()
	assert.Equal(t, n, drain(s, n*3))
}

func TestPlayer_LoopKeepsStreaming(t *testing.T) {
	p := newTestPlayer()
	s, ok := p.stream(game.SoundSelect, game.AudioOptions{Volume: 1, Loop: true})
	require.True(t, ok)

	n := p.buffers[game.SoundSelect].Len()
	assert.Equal(t, n*3, drain(s, n*3))
}

func TestPlayer_DelayPrependsSilence(t *testing.T) {
	p := newTestPlayer()
	delay := 50 * time.Millisecond
	s, ok := p.stream(game.SoundHit, game.AudioOptions{Volume: 1, Delay: delay})
	require.True(t, ok)

	silent := sampleRate.N(delay)
	buf := make([][2]float64, silent)
	got, _ := s.Stream(buf)
	require.Equal(t, silent, got)
	for i := range buf {
		assert.Zero(t, buf[i][0])
	}
	n := p.buffers[game.SoundHit].Len()
	assert.Equal(t, n, drain(s, n*2))
}

func TestPlayer_UninitializedIsSilent(t *testing.T) {
	p := newTestPlayer()
	assert.NotPanics(t, func() {
		p.PlayAudio(game.SoundShoot, game.AudioOptions{Volume: 1})
		p.PlayAudio(game.SoundMusic, game.AudioOptions{Volume: 0.4, Loop: true})
		p.StopMusic()
		p.Close()
	})
	assert.Nil(t, p.music)
}

func TestLinearToLog(t *testing.T) {
	assert.InDelta(t, 0, linearToLog(1), 1e-9)
	assert.InDelta(t, -1, linearToLog(0.5), 1e-9)
	assert.Equal(t, -10.0, linearToLog(0))
}
