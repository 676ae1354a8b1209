package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"prettytrace/src/catcher"
)

func testCatcher() (*catcher.Catcher, *[]string) {
	c := catcher.New(catcher.Config{Limit: 24, Rich: true})
	var lines []string
	c.SetLogFunc(func(line string) { lines = append(lines, line) })
	return c, &lines
}

func TestHealthcheck(t *testing.T) {
	c, _ := testCatcher()
	s := NewServer(c, nil)
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthcheck")
	if err != nil {
		t.Fatalf("healthcheck request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "OK" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestReportsEndpointWithoutPersistence(t *testing.T) {
	c, _ := testCatcher()
	s := NewServer(c, nil)
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/reports")
	if err != nil {
		t.Fatalf("reports request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when persistence is disabled, got %d", resp.StatusCode)
	}
}

// A panicking handler must produce a 500 response and a full report through
// the catcher.
func TestRecovererReportsPanic(t *testing.T) {
	c, lines := testCatcher()
	s := NewServer(c, nil)

	h := s.recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("handler exploded")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}

	joined := strings.Join(*lines, "\n")
	if !strings.Contains(joined, "PanicError: handler exploded") {
		t.Fatalf("report missing panic summary:\n%s", joined)
	}
	if !strings.Contains(joined, `path = "/boom"`) {
		t.Fatalf("report missing request context:\n%s", joined)
	}
}

func TestWebsocketStream(t *testing.T) {
	c, _ := testCatcher()
	s := NewServer(c, nil)
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/reports"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	// Registration happens right after the upgrade; give the handler a
	// moment before broadcasting.
	time.Sleep(100 * time.Millisecond)

	s.Hub().HandleReport(io.ErrUnexpectedEOF, "REPORT TEXT")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event StreamEvent
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("failed to read stream event: %v", err)
	}
	if event.Report != "REPORT TEXT" {
		t.Fatalf("unexpected event: %+v", event)
	}
}
