// Package audio plays the looping rotor sound.
package audio

import (
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"

	"github.com/Faultbox/heliscene/internal/logger"
)

// DefaultSampleRate is the speaker sample rate.
const DefaultSampleRate = beep.SampleRate(44100)

// Manager owns the speaker and the rotor loop. Volume and pitch follow the
// rotor spin reported each frame.
type Manager struct {
	mu sync.RWMutex

	initialized bool
	sampleRate  beep.SampleRate

	loop      beep.StreamSeekCloser
	ctrl      *beep.Ctrl
	volume    *effects.Volume
	resample  *beep.Resampler
	baseRatio float64 // source rate / speaker rate

	masterVolume float64
	level        float64 // 0..1, rotor spin relative to full speed
}

// New creates a new audio manager.
func New(masterVolume float64) *Manager {
	return &Manager{masterVolume: clamp(masterVolume, 0, 1)}
}

// Init opens the speaker.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	m.sampleRate = DefaultSampleRate
	if err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	m.initialized = true
	return nil
}

// Close stops playback.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	speaker.Clear()
	if m.loop != nil {
		m.loop.Close()
		m.loop = nil
	}
	m.ctrl, m.volume, m.resample = nil, nil, nil
	speaker.Close()
	m.initialized = false
}

// PlayLoop starts the WAV file at path looping forever.
func (m *Manager) PlayLoop(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open rotor sound: %w", err)
	}
	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decode wav: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		streamer.Close()
		return fmt.Errorf("audio not initialized")
	}
	if m.loop != nil {
		speaker.Clear()
		m.loop.Close()
	}

	m.baseRatio = float64(format.SampleRate) / float64(m.sampleRate)
	m.resample = beep.ResampleRatio(4, m.baseRatio, &loopStreamer{streamer: streamer})
	m.ctrl = &beep.Ctrl{Streamer: m.resample}
	m.volume = &effects.Volume{Streamer: m.ctrl, Base: 2}
	m.loop = streamer
	m.apply()

	speaker.Play(m.volume)
	logger.Info("rotor sound started",
		zap.String("path", path),
		zap.Int("sample_rate", int(format.SampleRate)),
	)
	return nil
}

// SetLevel sets the rotor spin level, 0 for stopped and 1 for full speed.
func (m *Manager) SetLevel(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.level = clamp(level, 0, 1)
	if m.volume == nil {
		return
	}
	speaker.Lock()
	m.apply()
	speaker.Unlock()
}

// Level returns the last rotor level.
func (m *Manager) Level() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.level
}

// apply pushes level and master volume into the effect chain. Callers
// hold m.mu.
func (m *Manager) apply() {
	gain := m.masterVolume * m.level
	m.volume.Silent = gain <= 0
	m.volume.Volume = volumeToExp(gain)
	m.ctrl.Paused = m.level <= 0
	m.resample.SetRatio(m.baseRatio * pitchRatio(m.level))
}

// volumeToExp converts a linear 0..1 gain into the base-2 exponent used by
// effects.Volume.
func volumeToExp(gain float64) float64 {
	if gain <= 0 {
		return -10
	}
	return math.Log2(gain)
}

// pitchRatio lowers the pitch of a slow rotor, down to half at standstill.
func pitchRatio(level float64) float64 {
	return 0.5 + 0.5*clamp(level, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// loopStreamer rewinds its source whenever it runs out.
type loopStreamer struct {
	streamer beep.StreamSeekCloser
}

func (l *loopStreamer) Stream(samples [][2]float64) (int, bool) {
	filled := 0
	for filled < len(samples) {
		n, ok := l.streamer.Stream(samples[filled:])
		filled += n
		if !ok || n == 0 {
			if l.streamer.Len() == 0 {
				return filled, filled > 0
			}
			if err := l.streamer.Seek(0); err != nil {
				return filled, filled > 0
			}
		}
	}
	return filled, true
}

func (l *loopStreamer) Err() error {
	return l.streamer.Err()
}
