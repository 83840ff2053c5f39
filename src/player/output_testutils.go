package player

import (
	"testing"

	"purps/src/util"
)

// TestOutputImplementation tests the implementation of the player.Output
// interface.
//
// testURL must refer to an audio resource that the device can load.
func TestOutputImplementation(t *testing.T, out Output, testURL string) {
	t.Run("load_play_pause", func(t *testing.T) {
		testLoadPlayPause(t, out, testURL)
	})
	t.Run("time", func(t *testing.T) {
		testTime(t, out, testURL)
	})
	t.Run("time_event", func(t *testing.T) {
		testTimeEvent(t, out, testURL)
	})
	t.Run("volume", func(t *testing.T) {
		testVolume(t, out)
	})
}

func testLoadPlayPause(t *testing.T, out Output, testURL string) {
	out.Load(testURL)
	if err := out.Play(); err != nil {
		t.Fatalf("Could not start playback: %v", err)
	}
	out.Pause()

	if err := out.Play(); err != nil {
		t.Fatalf("Could not resume playback: %v", err)
	}
	out.Pause()
}

func testTime(t *testing.T, out Output, testURL string) {
	const timeA = 2.0
	out.Load(testURL)
	if err := out.Play(); err != nil {
		t.Fatal(err)
	}
	out.Pause()
	out.SetTime(timeA)
	if tim := out.Time(); tim != timeA {
		t.Fatalf("Unexpected time: %v != %v", timeA, tim)
	}

	out.Load(testURL)
	if tim := out.Time(); tim != 0 {
		t.Fatalf("Load did not reset the play position: %v", tim)
	}
}

func testTimeEvent(t *testing.T, out Output, testURL string) {
	out.Load(testURL)
	if err := out.Play(); err != nil {
		t.Fatal(err)
	}
	util.TestEventEmission(t, out, TimeEvent{Seconds: 2}, func() {
		out.SetTime(2)
	})
}

func testVolume(t *testing.T, out Output) {
	const volA = 0.2
	const volB = 0.4
	out.SetVolume(volA)
	if vol := out.Volume(); vol != volA {
		t.Fatalf("Volume does not match expected value, %v != %v", volA, vol)
	}
	out.SetVolume(volB)
	if vol := out.Volume(); vol != volB {
		t.Fatalf("Volume does not match expected value, %v != %v", volB, vol)
	}

	out.SetVolume(2)
	if vol := out.Volume(); vol != 1 {
		t.Fatalf("Volume was not clamped: %v", vol)
	}
	out.SetVolume(-1)
	if vol := out.Volume(); vol != 0 {
		t.Fatalf("Volume was not clamped: %v", vol)
	}
}
