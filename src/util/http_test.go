package util

import (
	"bufio"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLogHandlerPassthrough(t *testing.T) {
	h := LogHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/tracks", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("Unexpected status: %v", rec.Code)
	}
	if rec.Body.String() != "short and stout" {
		t.Fatalf("Unexpected body: %q", rec.Body.String())
	}
}

func TestResponseTracker(t *testing.T) {
	track := &responseTracker{ResponseWriter: httptest.NewRecorder()}
	track.Write([]byte("hello"))
	if track.statusCode != http.StatusOK {
		t.Fatalf("A bare write should imply status 200, got %v", track.statusCode)
	}

	track = &responseTracker{ResponseWriter: httptest.NewRecorder()}
	track.WriteHeader(http.StatusNotFound)
	if track.statusCode != http.StatusNotFound {
		t.Fatalf("Unexpected status: %v", track.statusCode)
	}
	if track.hijacked {
		t.Fatal("The response was never hijacked")
	}
}

type hijackableRecorder struct {
	*httptest.ResponseRecorder
	conn net.Conn
}

func (rec *hijackableRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return rec.conn, bufio.NewReadWriter(bufio.NewReader(rec.conn), bufio.NewWriter(rec.conn)), nil
}

func TestLogHandlerHijack(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	h := LogHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, _, err := w.(http.Hijacker).Hijack()
		if err != nil {
			t.Errorf("Could not hijack: %v", err)
			return
		}
		conn.Write([]byte("event: ping\n\n"))
		conn.Close()
	}))

	done := make(chan struct{})
	go func() {
		defer close(done)
		rec := &hijackableRecorder{httptest.NewRecorder(), server}
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/data/events", nil))
	}()

	buf := make([]byte, 64)
	n, err := client.Read(buf)
	if err != nil {
		t.Fatalf("Could not read from the hijacked connection: %v", err)
	}
	if string(buf[:n]) != "event: ping\n\n" {
		t.Fatalf("Unexpected stream data: %q", buf[:n])
	}
	<-done
}
