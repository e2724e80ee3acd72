package recognize

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
)

func voskTestServer(t *testing.T, finalText string) *httptest.Server {
	t.Helper()
	up := websocket.Upgrader{}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		// first frame is the config
		_, cfg, err := conn.ReadMessage()
		if err != nil {
			t.Errorf("read config: %v", err)
			return
		}
		if !strings.Contains(string(cfg), "sample_rate") {
			t.Errorf("config frame missing sample_rate: %s", cfg)
			return
		}

		for {
			mt, _, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if mt == websocket.BinaryMessage {
				_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"partial" : "..."}`))
				continue
			}
			// eof marker
			_ = conn.WriteMessage(websocket.TextMessage,
				[]byte(fmt.Sprintf(`{"text" : %q}`, finalText)))
			return
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestClientRecognize(t *testing.T) {
	srv := voskTestServer(t, "alpha turn on lights")
	defer srv.Close()

	c := NewClient(wsURL(srv))
	got, err := c.Recognize(make([]byte, voskChunkSize*2+100))
	if err != nil {
		t.Fatal(err)
	}
	if got != "alpha turn on lights" {
		t.Fatalf("got %q", got)
	}
}

func TestClientRecognizeEmpty(t *testing.T) {
	srv := voskTestServer(t, "")
	defer srv.Close()

	c := NewClient(wsURL(srv))
	got, err := c.Recognize(make([]byte, 100))
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Fatalf("expected empty transcript, got %q", got)
	}
}

func TestClientRecognizeDialError(t *testing.T) {
	c := NewClient("ws://127.0.0.1:1")
	if _, err := c.Recognize(make([]byte, 10)); err == nil {
		t.Fatal("expected dial error")
	}
}

func TestRecoverable(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, true},
		{ErrNoSpeech, true},
		{ErrBusy, true},
		{errors.New("transient network drop"), true},
		{ErrNotAllowed, false},
		{fmt.Errorf("%w: device locked", ErrNotAllowed), false},
	}
	for i, c := range cases {
		if got := Recoverable(c.err); got != c.want {
			t.Fatalf("case#%v Recoverable(%v)=%v want %v", i, c.err, got, c.want)
		}
	}
}
