package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"binduty-service/internal/models"
	"binduty-service/internal/services"
)

func dialFeed(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v0/ws?token=" + token
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("handshake status = %d", resp.StatusCode)
	}
	return conn
}

// waitForCount polls until the manager holds n connections.
func waitForCount(t *testing.T, ws *services.WebSocketManager, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for ws.Count() != n {
		if time.Now().After(deadline) {
			t.Fatalf("connections = %d, want %d", ws.Count(), n)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWebSocketReceivesReminderSent(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.router)
	defer srv.Close()
	token := s.login(t, "root@example.com", models.RoleSuperuser)

	conn := dialFeed(t, srv, token)
	defer conn.Close()
	waitForCount(t, s.svc.WebSockets(), 1)

	s.do(t, http.MethodPost, "/residents", token, map[string]string{"name": "Jane", "flat_number": "4B"})
	if w := s.do(t, http.MethodPost, "/trigger-reminder", token, nil); w.Code != http.StatusOK {
		t.Fatalf("trigger status = %d, body %s", w.Code, w.Body)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var ev struct {
		Type string                `json:"type"`
		Data models.ReminderResult `json:"data"`
	}
	if err := json.Unmarshal(raw, &ev); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	if ev.Type != services.EventReminderSent || ev.Data.Resident != "Jane" {
		t.Fatalf("event = %+v", ev)
	}
}

func TestWebSocketRejectsMissingToken(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v0/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("resp = %v", resp)
	}
}

func TestWebSocketConnectionCapAndDisconnect(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.router)
	defer srv.Close()
	token := s.login(t, "root@example.com", models.RoleSuperuser)
	ws := s.svc.WebSockets()

	var conns []*websocket.Conn
	defer func() {
		for _, c := range conns {
			c.Close()
		}
	}()
	for i := 0; i < 10; i++ {
		conns = append(conns, dialFeed(t, srv, token))
	}
	waitForCount(t, ws, 10)

	extra := dialFeed(t, srv, token)
	defer extra.Close()
	_ = extra.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := extra.ReadMessage()
	var closeErr *websocket.CloseError
	if !errors.As(err, &closeErr) || closeErr.Code != websocket.ClosePolicyViolation {
		t.Fatalf("over-cap read err = %v", err)
	}
	if ws.Count() != 10 {
		t.Fatalf("connections = %d after rejected dial", ws.Count())
	}

	conns[0].Close()
	conns = conns[1:]
	waitForCount(t, ws, 9)

	// Broadcast still reaches the remaining connections.
	ws.Broadcast(services.EventIssueReported, nil)
	_ = conns[0].SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conns[0].ReadMessage(); err != nil {
		t.Fatalf("read after disconnect: %v", err)
	}
}
