// Package mpdout drives a Music Player Daemon as the audio output device.
package mpdout

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/fhs/gompd/v2/mpd"
	log "github.com/sirupsen/logrus"

	"purps/src/player"
	"purps/src/util"
)

// timePollInterval determines how often the play position is reported while
// playing. MPD's idle protocol only notifies on state changes, not on
// progress.
const timePollInterval = time.Second

// Output implements player.Output on top of an MPD server.
type Output struct {
	events util.Emitter

	network, address, passwd string

	watcher *mpd.Watcher
	stop    chan struct{}

	lock sync.Mutex
	// expectStop suppresses the completion event for stops this output
	// caused itself by clearing the playlist on Load.
	expectStop bool
	lastState  string
	lastTime   float64
	lastVolume float64
}

var _ player.Output = (*Output)(nil)

// Connect sets up the MPD connection and its event watcher.
func Connect(network, address string, password *string) (*Output, error) {
	var passwd string
	if password != nil {
		passwd = *password
	}

	// Running the idle routine on the same connection as the command
	// connection is not possible, hence the separate watcher.
	watcher, err := mpd.NewWatcher(network, address, passwd, "player", "mixer")
	if err != nil {
		return nil, fmt.Errorf("unable to watch MPD: %v", err)
	}

	out := &Output{
		network: network,
		address: address,
		passwd:  passwd,
		watcher: watcher,
		stop:    make(chan struct{}),
	}
	go out.eventLoop()
	go out.timeLoop()
	return out, nil
}

func (out *Output) withMpd(fn func(*mpd.Client) error) error {
	client, err := mpd.DialAuthenticated(out.network, out.address, out.passwd)
	if err != nil {
		return err
	}
	defer client.Close()
	return fn(client)
}

func (out *Output) Load(url string) {
	out.lock.Lock()
	out.expectStop = true
	out.lastTime = 0
	out.lock.Unlock()

	err := out.withMpd(func(mpdc *mpd.Client) error {
		if err := mpdc.Clear(); err != nil {
			return err
		}
		return mpdc.Add(url)
	})
	if err != nil {
		log.Errorf("Could not load %q: %v", url, err)
		out.events.Emit(player.ErrorEvent{Err: err})
	}
}

func (out *Output) Play() error {
	return out.withMpd(func(mpdc *mpd.Client) error {
		status, err := mpdc.Status()
		if err != nil {
			return err
		}
		if status["state"] == "pause" {
			return mpdc.Pause(false)
		}
		return mpdc.Play(0)
	})
}

func (out *Output) Pause() {
	if err := out.withMpd(func(mpdc *mpd.Client) error {
		return mpdc.Pause(true)
	}); err != nil {
		log.Errorf("Could not pause: %v", err)
		out.events.Emit(player.ErrorEvent{Err: err})
	}
}

func (out *Output) Time() float64 {
	var elapsed float64
	err := out.withMpd(func(mpdc *mpd.Client) error {
		status, err := mpdc.Status()
		if err != nil {
			return err
		}
		elapsed, _ = strconv.ParseFloat(status["elapsed"], 64)
		return nil
	})
	if err != nil {
		out.lock.Lock()
		defer out.lock.Unlock()
		return out.lastTime
	}
	out.lock.Lock()
	out.lastTime = elapsed
	out.lock.Unlock()
	return elapsed
}

func (out *Output) SetTime(seconds float64) {
	if err := out.withMpd(func(mpdc *mpd.Client) error {
		return mpdc.SeekCur(time.Duration(seconds*float64(time.Second)), false)
	}); err != nil {
		log.Errorf("Could not seek: %v", err)
		out.events.Emit(player.ErrorEvent{Err: err})
	}
}

func (out *Output) Volume() float64 {
	var volume float64
	err := out.withMpd(func(mpdc *mpd.Client) error {
		status, err := mpdc.Status()
		if err != nil {
			return err
		}
		v, err := strconv.Atoi(status["volume"])
		if err != nil || v < 0 {
			// Sometimes the volume reported by MPD is invalid.
			return fmt.Errorf("invalid volume %q", status["volume"])
		}
		volume = float64(v) / 100
		return nil
	})
	if err != nil {
		out.lock.Lock()
		defer out.lock.Unlock()
		return out.lastVolume
	}
	out.lock.Lock()
	out.lastVolume = volume
	out.lock.Unlock()
	return volume
}

func (out *Output) SetVolume(volume float64) {
	if volume > 1 {
		volume = 1
	} else if volume < 0 {
		volume = 0
	}
	if err := out.withMpd(func(mpdc *mpd.Client) error {
		return mpdc.SetVolume(int(volume * 100))
	}); err != nil {
		log.Errorf("Could not set volume: %v", err)
		out.events.Emit(player.ErrorEvent{Err: err})
	}
}

func (out *Output) Events() *util.Emitter {
	return &out.events
}

func (out *Output) Close() error {
	close(out.stop)
	return out.watcher.Close()
}

func (out *Output) eventLoop() {
	for {
		select {
		case subsystem, ok := <-out.watcher.Event:
			if !ok {
				return
			}
			if subsystem == "player" || subsystem == "mixer" {
				out.pollStatus()
			}
		case err, ok := <-out.watcher.Error:
			if !ok {
				return
			}
			log.Errorf("MPD watcher: %v", err)
			out.events.Emit(player.ErrorEvent{Err: err})
		case <-out.stop:
			return
		}
	}
}

// timeLoop reports the advancing play position while MPD is playing.
func (out *Output) timeLoop() {
	ticker := time.NewTicker(timePollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			out.lock.Lock()
			playing := out.lastState == "play"
			out.lock.Unlock()
			if playing {
				out.pollStatus()
			}
		case <-out.stop:
			return
		}
	}
}

func (out *Output) pollStatus() {
	var status mpd.Attrs
	err := out.withMpd(func(mpdc *mpd.Client) error {
		var err error
		status, err = mpdc.Status()
		return err
	})
	if err != nil {
		log.Errorf("Could not get MPD status: %v", err)
		out.events.Emit(player.ErrorEvent{Err: err})
		return
	}

	state := status["state"]
	elapsed, _ := strconv.ParseFloat(status["elapsed"], 64)

	out.lock.Lock()
	wasPlaying := out.lastState == "play"
	ended := false
	if state == "stop" {
		if out.expectStop {
			out.expectStop = false
		} else if wasPlaying {
			ended = true
		}
	}
	out.lastState = state
	out.lastTime = elapsed
	out.lock.Unlock()

	out.events.Emit(player.TimeEvent{Seconds: elapsed})
	if ended {
		out.events.Emit(player.EndedEvent{})
	}
}
