package audio

import (
	"math"
	"testing"
)

func TestVolumeToExp(t *testing.T) {
	tests := []struct {
		gain float64
		want float64
	}{
		{1.0, 0},
		{0.5, -1},
		{0.25, -2},
		{0.0, -10},
		{-1, -10},
	}

	for _, tt := range tests {
		if got := volumeToExp(tt.gain); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("volumeToExp(%f) = %f, want %f", tt.gain, got, tt.want)
		}
	}
}

func TestPitchRatio(t *testing.T) {
	tests := []struct {
		level, want float64
	}{
		{0, 0.5},
		{0.5, 0.75},
		{1, 1},
		{3, 1},
	}
	for _, tt := range tests {
		if got := pitchRatio(tt.level); got != tt.want {
			t.Errorf("pitchRatio(%f) = %f, want %f", tt.level, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, min, max, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-1, 0, 1, 0},
		{2, 0, 1, 1},
		{0, 0, 1, 0},
		{1, 0, 1, 1},
	}

	for _, tt := range tests {
		got := clamp(tt.v, tt.min, tt.max)
		if got != tt.want {
			t.Errorf("clamp(%f, %f, %f) = %f, want %f", tt.v, tt.min, tt.max, got, tt.want)
		}
	}
}

func TestLevelWithoutPlayback(t *testing.T) {
	m := New(2)
	if m.masterVolume != 1 {
		t.Errorf("master volume = %f, want 1 (clamped)", m.masterVolume)
	}

	m.SetLevel(0.4)
	if m.Level() != 0.4 {
		t.Errorf("level = %f, want 0.4", m.Level())
	}
	m.SetLevel(-3)
	if m.Level() != 0 {
		t.Errorf("level = %f, want 0 (clamped)", m.Level())
	}

	if err := m.PlayLoop("does-not-exist.wav"); err == nil {
		t.Error("expected error for missing file")
	}
	m.Close()
}

// rampSource streams 0, 1, 2, ... n-1 on the left channel.
type rampSource struct {
	n, pos int
	seeks  int
}

func (r *rampSource) Stream(samples [][2]float64) (int, bool) {
	if r.pos >= r.n {
		return 0, false
	}
	i := 0
	for ; i < len(samples) && r.pos < r.n; i++ {
		samples[i][0] = float64(r.pos)
		r.pos++
	}
	return i, true
}

func (r *rampSource) Err() error    { return nil }
func (r *rampSource) Len() int      { return r.n }
func (r *rampSource) Position() int { return r.pos }
func (r *rampSource) Close() error  { return nil }
func (r *rampSource) Seek(p int) error {
	r.pos = p
	r.seeks++
	return nil
}

func TestLoopStreamerWraps(t *testing.T) {
	src := &rampSource{n: 3}
	l := &loopStreamer{streamer: src}

	buf := make([][2]float64, 8)
	n, ok := l.Stream(buf)
	if n != 8 || !ok {
		t.Fatalf("Stream = %d, %v; want 8, true", n, ok)
	}
	want := []float64{0, 1, 2, 0, 1, 2, 0, 1}
	for i, w := range want {
		if buf[i][0] != w {
			t.Errorf("sample %d = %f, want %f", i, buf[i][0], w)
		}
	}
	if src.seeks != 2 {
		t.Errorf("seeks = %d, want 2", src.seeks)
	}
}

func TestLoopStreamerEmptySource(t *testing.T) {
	l := &loopStreamer{streamer: &rampSource{n: 0}}
	n, ok := l.Stream(make([][2]float64, 4))
	if n != 0 || ok {
		t.Errorf("Stream = %d, %v; want 0, false", n, ok)
	}
}
