package probe

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"purps/src/library"
)

// mp3Body builds a minimal constant bitrate MPEG-1 layer III stream: an empty
// ID3v2.3 container followed by 128kbps frame headers and padding up to
// audioBytes of audio data.
func mp3Body(audioBytes int) []byte {
	body := []byte{'I', 'D', '3', 3, 0, 0, 0, 0, 0, 0}
	audio := make([]byte, audioBytes)
	copy(audio, []byte{0xff, 0xfb, 0x90, 0x00})
	return append(body, audio...)
}

func TestProbeDuration(t *testing.T) {
	// 16000 bytes at 128kbps is exactly one second of audio.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(mp3Body(16000))
	}))
	defer server.Close()

	result := New().Probe(context.Background(), server.URL)
	if math.Abs(result.Duration-1.0) > 0.01 {
		t.Fatalf("Unexpected duration: %v", result.Duration)
	}
}

func TestProbeFallback(t *testing.T) {
	t.Run("garbage", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("certainly not audio data"))
		}))
		defer server.Close()

		result := New().Probe(context.Background(), server.URL)
		if result.Duration != library.FallbackDuration {
			t.Fatalf("Unexpected duration: %v", result.Duration)
		}
	})
	t.Run("http_error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer server.Close()

		result := New().Probe(context.Background(), server.URL)
		if result.Duration != library.FallbackDuration {
			t.Fatalf("Unexpected duration: %v", result.Duration)
		}
	})
	t.Run("unreachable", func(t *testing.T) {
		result := New().Probe(context.Background(), "http://127.0.0.1:0/nope.mp3")
		if result.Duration != library.FallbackDuration {
			t.Fatalf("Unexpected duration: %v", result.Duration)
		}
	})
}

func TestEstimateMP3Duration(t *testing.T) {
	body := mp3Body(32000)
	// 32000 bytes at 128kbps.
	if d := estimateMP3Duration(body, int64(len(body))); math.Abs(d-2.0) > 0.01 {
		t.Fatalf("Unexpected duration: %v", d)
	}

	// The head holds the full ID3 container and the first frame; the stream is
	// known to be longer.
	if d := estimateMP3Duration(body, 10+64000); math.Abs(d-4.0) > 0.01 {
		t.Fatalf("Unexpected duration: %v", d)
	}

	if d := estimateMP3Duration([]byte("garbage"), 7); d != 0 {
		t.Fatalf("Garbage input should not yield a duration: %v", d)
	}
}

func TestFirstFrameBitrate(t *testing.T) {
	if br := firstFrameBitrate([]byte{0xff, 0xfb, 0x90, 0x00}); br != 128000 {
		t.Fatalf("Unexpected bitrate: %v", br)
	}
	// A sync word of a non MPEG-1 layer III stream should be skipped.
	if br := firstFrameBitrate([]byte{0xff, 0xf3, 0x90, 0x00}); br != 0 {
		t.Fatalf("Unexpected bitrate: %v", br)
	}
	if br := firstFrameBitrate(make([]byte, 16)); br != 0 {
		t.Fatalf("Unexpected bitrate: %v", br)
	}
}
