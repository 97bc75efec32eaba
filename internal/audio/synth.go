package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/Garsondee/tank-arena/internal/game"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// note is one tone in a synthesized sound. Freq 0 is a rest.
type note struct {
	freq float64
	dur  time.Duration
}

// tone returns a sine at freq lasting dur, shaped by a linear decay.
func tone(rate beep.SampleRate, freq float64, dur time.Duration) beep.Streamer {
	n := rate.N(dur)
	if freq <= 0 {
		return beep.Silence(n)
	}
	sine, err := generators.SineTone(rate, freq)
	if err != nil {
		return beep.Silence(n)
	}
	return &decay{streamer: beep.Take(n, sine), total: n}
}

// melody chains notes back to back.
func melody(rate beep.SampleRate, notes ...note) beep.Streamer {
	parts := make([]beep.Streamer, len(notes))
	for i, nt := range notes {
		parts[i] = tone(rate, nt.freq, nt.dur)
	}
	return beep.Seq(parts...)
}

// noiseBurst is white noise with a decay, for explosions and shots.
func noiseBurst(rate beep.SampleRate, dur time.Duration, seed int64) beep.Streamer {
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- audio noise
	n := rate.N(dur)
	pos := 0
	noise := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			if pos >= n {
				return i, i > 0
			}
			v := rng.Float64()*2 - 1
			samples[i][0], samples[i][1] = v, v
			pos++
		}
		return len(samples), true
	})
	return &decay{streamer: noise, total: n}
}

// decay fades its streamer linearly to silence over total samples.
type decay struct {
	streamer beep.Streamer
	pos      int
	total    int
}

func (d *decay) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = d.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1 - float64(d.pos)/float64(d.total)
		if vol < 0 {
			vol = 0
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		d.pos++
	}
	return n, ok
}

func (d *decay) Err() error { return d.streamer.Err() }

// withVolume applies a log2 gain; vol <= -10 is treated as silent.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	return &effects.Volume{Streamer: s, Base: 2, Volume: vol, Silent: vol <= -10}
}

// linearToLog converts a linear gain (1 = unchanged) into beep's log2 volume.
func linearToLog(gain float64) float64 {
	if gain <= 0 {
		return -10
	}
	return math.Log2(gain)
}

// synthesize builds every sound the simulation can ask for.
func synthesize(rate beep.SampleRate) map[string]beep.Streamer {
	ms := time.Millisecond
	return map[string]beep.Streamer{
		game.SoundShoot: beep.Mix(
			tone(rate, 660, 60*ms),
			withVolume(noiseBurst(rate, 60*ms, 1), -2),
		),
		game.SoundHit:     tone(rate, 220, 80*ms),
		game.SoundExplode: noiseBurst(rate, 400*ms, 2),
		game.SoundLevelUp: melody(rate,
			note{523, 90 * ms}, note{659, 90 * ms}, note{784, 140 * ms}),
		game.SoundSelect: tone(rate, 880, 40*ms),
		game.SoundGameOver: melody(rate,
			note{392, 200 * ms}, note{330, 200 * ms}, note{262, 400 * ms}),
		game.SoundMusic: withVolume(melody(rate,
			note{110, 250 * ms}, note{0, 250 * ms}, note{110, 250 * ms}, note{147, 250 * ms},
			note{131, 250 * ms}, note{0, 250 * ms}, note{98, 250 * ms}, note{0, 250 * ms}), -2),
	}
}
