package providers

import (
	"bytes"
	"encoding/binary"
	"math"
	"sync"
	"time"

	"chronorise/internal/structures"

	"github.com/ebitengine/oto/v3"
	"go.uber.org/atomic"
)

// SoundInterface is the audible-alert collaborator. All methods are
// idempotent: Start while ringing, Stop while silent and repeated Unlock
// calls are no-ops.
type SoundInterface interface {
	Start()
	Stop()
	Unlock()
}

const (
	beepHighHz  = 880.0
	beepLowHz   = 440.0
	beepSeconds = 0.5
	beepPeriod  = time.Second
)

// BeepPlayer loops a short two-tone beep through the host audio device.
// The device context is initialized lazily on Unlock, the host equivalent
// of a browser autoplay-policy gesture.
type BeepPlayer struct {
	logger  Logger
	rate    int
	pattern []byte

	unlocked atomic.Bool

	mu       sync.Mutex
	ctx      *oto.Context
	playing  bool
	stopChan chan struct{}
}

func NewSoundProvider(conf *structures.Config, logger Logger) SoundInterface {
	if !conf.Audio.Enabled {
		logger.Infof(TypeApp, "Audio disabled")
		return &noopSound{}
	}
	rate := conf.Audio.SampleRate
	if rate <= 0 {
		rate = 44100
	}
	return &BeepPlayer{
		logger:  logger,
		rate:    rate,
		pattern: beepPattern(rate),
	}
}

// beepPattern renders one period of the alert tone: a 500ms sine sweep from
// 880Hz down to 440Hz with decaying gain, followed by silence up to a full
// second. 16-bit little-endian mono samples.
func beepPattern(rate int) []byte {
	total := int(float64(rate) * beepPeriod.Seconds())
	toneSamples := int(float64(rate) * beepSeconds)

	buf := make([]byte, total*2)
	phase := 0.0
	for i := 0; i < toneSamples; i++ {
		t := float64(i) / float64(rate)
		progress := t / beepSeconds
		freq := beepHighHz * math.Pow(beepLowHz/beepHighHz, progress)
		gain := 0.5 * math.Pow(0.02, progress)
		phase += 2 * math.Pi * freq / float64(rate)
		sample := int16(gain * math.Sin(phase) * math.MaxInt16)
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(sample))
	}
	return buf
}

func (b *BeepPlayer) Unlock() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.initContext()
}

// initContext must be called with b.mu held.
func (b *BeepPlayer) initContext() {
	if b.ctx != nil {
		return
	}
	op := &oto.NewContextOptions{
		SampleRate:   b.rate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		b.logger.Errorf(TypeApp, "Audio context init failed: %s", err)
		return
	}
	<-ready
	b.ctx = ctx
	b.unlocked.Store(true)
	b.logger.Infof(TypeApp, "Audio context ready")
}

func (b *BeepPlayer) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.unlocked.Load() {
		b.logger.Warnf(TypeApp, "Audio not unlocked by a user gesture yet, priming now")
		b.initContext()
	}
	if b.ctx == nil || b.playing {
		return
	}

	b.playing = true
	b.stopChan = make(chan struct{})
	go b.playLoop(b.ctx, b.stopChan)
}

func (b *BeepPlayer) playLoop(ctx *oto.Context, stop chan struct{}) {
	for {
		player := ctx.NewPlayer(bytes.NewReader(b.pattern))
		player.Play()

		for player.IsPlaying() {
			select {
			case <-stop:
				player.Pause()
				_ = player.Close()
				return
			case <-time.After(10 * time.Millisecond):
			}
		}

		if err := player.Close(); err != nil {
			b.logger.Errorf(TypeApp, "Failed to close audio player: %s", err)
		}

		select {
		case <-stop:
			return
		default:
		}
	}
}

func (b *BeepPlayer) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.playing {
		return
	}
	b.playing = false
	close(b.stopChan)
}

type noopSound struct{}

func (n *noopSound) Start()  {}
func (n *noopSound) Stop()   {}
func (n *noopSound) Unlock() {}
