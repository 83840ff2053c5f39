package sim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"purps/src/player"
)

func TestOutputImplementation(t *testing.T) {
	out := New()
	defer out.Close()
	player.TestOutputImplementation(t, out, "file:///dev/null.mp3")
}

func TestPlayFailureInjection(t *testing.T) {
	out := New()
	defer out.Close()
	out.Load("a.mp3")

	out.FailNextPlay()
	require.ErrorIs(t, out.Play(), ErrPlayRefused)
	require.NoError(t, out.Play(), "failure injection must be one-shot")

	out.SetFailPlay(true)
	require.Error(t, out.Play())
	require.Error(t, out.Play())
	out.SetFailPlay(false)
	require.NoError(t, out.Play())
}

func TestEndOfResource(t *testing.T) {
	out := New()
	defer out.Close()
	out.DurationFunc = func(string) float64 { return 10 }
	out.Load("a.mp3")
	require.NoError(t, out.Play())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := out.Events().Listen(ctx)

	out.AdvanceTime(11)

	var sawTime, sawEnded bool
	deadline := time.After(time.Second)
	for !sawEnded {
		select {
		case event := <-events:
			switch event.(type) {
			case player.TimeEvent:
				sawTime = true
			case player.EndedEvent:
				sawEnded = true
			}
		case <-deadline:
			t.Fatal("EndedEvent was not emitted")
		}
	}
	assert.True(t, sawTime, "position should be reported before completion")
	assert.False(t, out.Playing())
	assert.Equal(t, 10.0, out.Time(), "position clamps to the duration")
}

func TestTickingProgress(t *testing.T) {
	out := NewTicking(10 * time.Millisecond)
	defer out.Close()
	out.DurationFunc = func(string) float64 { return 3600 }
	out.Load("a.mp3")
	require.NoError(t, out.Play())

	assert.Eventually(t, func() bool {
		return out.Time() > 0
	}, time.Second, 5*time.Millisecond)

	out.Pause()
	pos := out.Time()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, pos, out.Time(), "position must not move while paused")
}
