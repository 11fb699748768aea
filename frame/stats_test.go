package frame

import (
	"testing"
	"time"
)

func TestFrameTimesUpdate(t *testing.T) {
	var ft FrameTimes

	// early frames track the last duration directly
	ft.FrameCount = 1
	ft.update(10 * time.Millisecond)

	if ft.AverageDuration != 10*time.Millisecond {
		t.Errorf("AverageDuration = %v, want 10ms", ft.AverageDuration)
	}

	if ft.Delta != 10*time.Millisecond {
		t.Errorf("Delta = %v, want 10ms", ft.Delta)
	}

	// later frames converge slowly towards new durations
	ft.FrameCount = 100
	ft.update(20 * time.Millisecond)

	if ft.AverageDuration <= 10*time.Millisecond || ft.AverageDuration >= 20*time.Millisecond {
		t.Errorf("AverageDuration = %v, want between 10ms and 20ms", ft.AverageDuration)
	}

	if ft.MaxDuration != 20*time.Millisecond {
		t.Errorf("MaxDuration = %v, want 20ms", ft.MaxDuration)
	}
}

func TestFrameTimesFPS(t *testing.T) {
	var ft FrameTimes

	if ft.FPS() != 0 {
		t.Errorf("FPS of fresh stats = %v, want 0", ft.FPS())
	}

	ft.AverageDuration = 20 * time.Millisecond
	if got := ft.FPS(); got < 49.9 || got > 50.1 {
		t.Errorf("FPS = %v, want 50", got)
	}
}

func TestFrameTimesTick(t *testing.T) {
	var ft FrameTimes

	logged := 0
	for range 120 {
		if ft.Tick() {
			logged++
		}
	}

	if ft.FrameCount != 120 {
		t.Errorf("FrameCount = %d, want 120", ft.FrameCount)
	}

	if logged != 2 {
		t.Errorf("Tick returned true %d times over 120 frames, want 2", logged)
	}
}
