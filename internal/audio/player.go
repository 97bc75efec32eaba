package audio

import (
	"sync"
	"time"

	"github.com/Garsondee/tank-arena/internal/game"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog"
)

const sampleRate = beep.SampleRate(44100)

// Player is the game.AssetManager backed by the system speaker. Every sound
// is synthesized once into a buffer at construction.
type Player struct {
	mu          sync.Mutex
	volume      float64 // master log2 gain
	buffers     map[string]*beep.Buffer
	mixer       *beep.Mixer
	music       *beep.Ctrl
	initialized bool
	log         zerolog.Logger
}

var _ game.AssetManager = (*Player)(nil)

// NewPlayer renders all sounds. volume is a log2 gain, 0 leaves levels unchanged.
func NewPlayer(volume float64, log zerolog.Logger) *Player {
	format := beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2}
	p := &Player{
		volume:  volume,
		buffers: make(map[string]*beep.Buffer),
		mixer:   &beep.Mixer{},
		log:     log,
	}
	for name, s := range synthesize(sampleRate) {
		buf := beep.NewBuffer(format)
		buf.Append(s)
		p.buffers[name] = buf
	}
	return p
}

// Initialize opens the speaker. Failure is non-fatal: the player stays silent.
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// PlayAudio queues a sound on the mixer. Unknown names and calls before
// Initialize are ignored.
func (p *Player) PlayAudio(name string, opts game.AudioOptions) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	if opts.Loop && p.music != nil && !p.music.Paused {
		return
	}
	s, ok := p.stream(name, opts)
	if !ok {
		p.log.Debug().Str("sound", name).Msg("unknown sound")
		return
	}

	speaker.Lock()
	if opts.Loop {
		ctrl := &beep.Ctrl{Streamer: s}
		p.music = ctrl
		p.mixer.Add(ctrl)
	} else {
		p.mixer.Add(s)
	}
	speaker.Unlock()
}

// stream builds the playable streamer for name with the options applied.
func (p *Player) stream(name string, opts game.AudioOptions) (beep.Streamer, bool) {
	buf, ok := p.buffers[name]
	if !ok {
		return nil, false
	}
	var s beep.Streamer = buf.Streamer(0, buf.Len())
	if opts.Loop {
		s = beep.Loop(-1, buf.Streamer(0, buf.Len()))
	}
	gain := linearToLog(opts.Volume) + p.volume
	s = withVolume(s, gain)
	if opts.Delay > 0 {
		s = beep.Seq(beep.Silence(sampleRate.N(opts.Delay)), s)
	}
	return s, true
}

// StopMusic pauses the looping track.
func (p *Player) StopMusic() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.music == nil {
		return
	}
	speaker.Lock()
	p.music.Paused = true
	speaker.Unlock()
	p.music = nil
}

// Close stops every sound.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.music = nil
	speaker.Close()
	p.initialized = false
}
