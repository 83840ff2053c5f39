package util

import (
	"bufio"
	"net"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// LogHandler provides middleware that logs all requests and response codes
// using logrus. Event stream requests hijack the connection and never settle
// on a status code; those are logged when the stream ends instead.
func LogHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		track := &responseTracker{ResponseWriter: w}
		start := time.Now()
		next.ServeHTTP(track, r)

		if track.hijacked {
			log.Debugf("%s %s -> stream closed after %s", r.Method, r.URL.Path, time.Since(start).Round(time.Millisecond))
			return
		}
		code := track.statusCode
		if code == 0 {
			// The handler returned without writing anything; net/http sends
			// an implicit 200.
			code = http.StatusOK
		}
		switch {
		case code >= 500:
			log.Errorf("%s %s -> %d", r.Method, r.URL.Path, code)
		case code >= 400:
			log.Warnf("%s %s -> %d", r.Method, r.URL.Path, code)
		default:
			log.Debugf("%s %s -> %d", r.Method, r.URL.Path, code)
		}
	})
}

// responseTracker records what the wrapped handler did with the response: the
// status code it settled on, or that it took over the connection entirely.
type responseTracker struct {
	http.ResponseWriter
	statusCode int
	hijacked   bool
}

func (track *responseTracker) WriteHeader(code int) {
	track.statusCode = code
	track.ResponseWriter.WriteHeader(code)
}

func (track *responseTracker) Write(b []byte) (int, error) {
	if track.statusCode == 0 {
		track.statusCode = http.StatusOK
	}
	return track.ResponseWriter.Write(b)
}

func (track *responseTracker) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	track.hijacked = true
	return track.ResponseWriter.(http.Hijacker).Hijack()
}
