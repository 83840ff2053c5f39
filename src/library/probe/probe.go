// Package probe resolves the duration and missing display metadata of an
// audio resource on a best effort basis. All failure modes degrade to the
// catalog's fallback duration; nothing in here returns an error to the
// caller.
package probe

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/dhowden/tag"
	log "github.com/sirupsen/logrus"

	"purps/src/library"
)

const (
	// DefaultTimeout bounds the whole probe, including the body download.
	DefaultTimeout = 10 * time.Second

	// maxProbeBytes caps how much of the resource is downloaded. Tags sit at
	// the head of the file and the bitrate estimate only needs one frame
	// header, so a small prefix suffices.
	maxProbeBytes = 1 << 20
)

// Result carries whatever the probe could determine. Duration is always
// usable; Title and Artist may be empty.
type Result struct {
	Title    string
	Artist   string
	Duration float64
}

type Prober struct {
	Client  *http.Client
	Timeout time.Duration
}

func New() *Prober {
	return &Prober{
		Client:  http.DefaultClient,
		Timeout: DefaultTimeout,
	}
}

// Probe fetches the head of the audio resource and derives the track duration
// and any tagged title/artist from it. On any failure the fallback duration
// is returned.
func (p *Prober) Probe(ctx context.Context, url string) Result {
	result := Result{Duration: library.FallbackDuration}

	timeout := p.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Debugf("Could not probe %q: %v", url, err)
		return result
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		log.Debugf("Could not probe %q: %v", url, err)
		return result
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Debugf("Could not probe %q: http status %d", url, resp.StatusCode)
		return result
	}

	head, err := io.ReadAll(io.LimitReader(resp.Body, maxProbeBytes))
	if err != nil || len(head) == 0 {
		log.Debugf("Could not probe %q: %v", url, err)
		return result
	}

	if meta, err := tag.ReadFrom(bytes.NewReader(head)); err == nil {
		result.Title = meta.Title()
		result.Artist = meta.Artist()
	}

	totalLength := resp.ContentLength
	if totalLength <= 0 {
		totalLength = int64(len(head))
	}
	if d := estimateMP3Duration(head, totalLength); d > 0 {
		result.Duration = d
	}
	return result
}

// estimateMP3Duration derives the play time of a constant bitrate MPEG-1
// layer III stream from its size and the bitrate of the first audio frame.
// Returns 0 when no usable frame header is found.
func estimateMP3Duration(head []byte, totalLength int64) float64 {
	audioLength := totalLength

	// An ID3v2 container at the head of the file is not audio data. Its size
	// field is a 28 bit sync-safe integer.
	if len(head) >= 10 && bytes.Equal(head[:3], []byte("ID3")) {
		tagSize := int64(head[6]&0x7f)<<21 | int64(head[7]&0x7f)<<14 |
			int64(head[8]&0x7f)<<7 | int64(head[9]&0x7f)
		skip := tagSize + 10
		if skip < int64(len(head)) {
			head = head[skip:]
			audioLength -= skip
		} else {
			return 0
		}
	}

	bitrate := firstFrameBitrate(head)
	if bitrate <= 0 || audioLength <= 0 {
		return 0
	}
	return float64(audioLength*8) / float64(bitrate)
}

// MPEG-1 layer III bitrates in bits per second, indexed by the header's
// bitrate field.
var mp3Bitrates = [16]int{
	0, 32000, 40000, 48000, 56000, 64000, 80000, 96000,
	112000, 128000, 160000, 192000, 224000, 256000, 320000, 0,
}

func firstFrameBitrate(data []byte) int {
	for i := 0; i+4 <= len(data); i++ {
		if data[i] != 0xff || data[i+1]&0xe0 != 0xe0 {
			continue
		}
		version := data[i+1] >> 3 & 0x3
		layer := data[i+1] >> 1 & 0x3
		if version != 0x3 || layer != 0x1 { // MPEG-1 layer III only.
			continue
		}
		return mp3Bitrates[data[i+2]>>4]
	}
	return 0
}
