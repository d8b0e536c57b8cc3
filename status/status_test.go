package status

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestNilHub(t *testing.T) {
	var h *Hub
	h.Info("nobody listens to %d", 1)
	if h.Clients() != 0 {
		t.Errorf("nil hub reports clients")
	}
}

func TestHubBroadcast(t *testing.T) {
	h := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(h.HandlerWebsocket))
	defer srv.Close()

	h.Info("collapsed %d meshes", 2)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		t.Fatal(err)
	}
	if e.Message != "collapsed 2 meshes" || e.Type != INFO {
		t.Errorf("event=%+v", e)
	}

	h.Progress(0.5, "storing")
	_, data, err = conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if err := json.Unmarshal(data, &e); err != nil || e.Type != PROGRESS || e.Progress != 0.5 {
		t.Errorf("event=%+v err=%v", e, err)
	}
}
