package mpdout

import (
	"os"
	"testing"

	"purps/src/player"
)

// The MPD tests need a real server with at least one playable URL. Set
// PURPS_TEST_MPD to e.g. "127.0.0.1:6600" and PURPS_TEST_MPD_URL to a
// resource in its database to enable them.
func TestOutputImplementation(t *testing.T) {
	addr := os.Getenv("PURPS_TEST_MPD")
	url := os.Getenv("PURPS_TEST_MPD_URL")
	if addr == "" || url == "" {
		t.Skip("PURPS_TEST_MPD not set")
	}

	out, err := Connect("tcp", addr, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer out.Close()
	player.TestOutputImplementation(t, out, url)
}
