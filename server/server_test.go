package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/goleak"

	"github.com/pthm-cable/hangry/config"
	"github.com/pthm-cable/hangry/game"
	"github.com/pthm-cable/hangry/storage"
	"github.com/pthm-cable/hangry/telemetry"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSessions struct {
	rows []storage.Session
}

func (f *fakeSessions) Save(_ context.Context, s *storage.Session) error {
	f.rows = append(f.rows, *s)
	return nil
}

func (f *fakeSessions) Get(_ context.Context, id string) (*storage.Session, error) {
	for _, s := range f.rows {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeSessions) Recent(_ context.Context, limit int) ([]storage.Session, error) {
	return f.rows[:min(limit, len(f.rows))], nil
}

func (f *fakeSessions) Best(ctx context.Context, limit int) ([]storage.Session, error) {
	return f.Recent(ctx, limit)
}

// startServer runs a fresh session behind an httptest server and tears
// both down when the test ends.
func startServer(t *testing.T, sessions storage.SessionRepository) (*Server, *httptest.Server) {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	cfg.Chef.Enabled = false

	g := game.NewGameWithOptions(game.Options{Config: cfg, Seed: 9, StepsPerUpdate: 1})
	srv := New(g, 120, sessions)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := srv.Start(ctx)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		cancel()
		<-stopped
		g.Close()
	})
	return srv, ts
}

func postCommand(t *testing.T, ts *httptest.Server, req CommandRequest) (int, Reply) {
	t.Helper()
	body, _ := json.Marshal(req)
	resp, err := ts.Client().Post(ts.URL+"/api/command", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /api/command: %v", err)
	}
	defer resp.Body.Close()
	var r Reply
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	return resp.StatusCode, r
}

func TestCommandAndStatus(t *testing.T) {
	_, ts := startServer(t, nil)

	if code, r := postCommand(t, ts, CommandRequest{Verb: "start"}); code != http.StatusOK || !r.OK {
		t.Fatalf("start = %d %+v", code, r)
	}
	if code, _ := postCommand(t, ts, CommandRequest{Verb: "dance"}); code != http.StatusBadRequest {
		t.Errorf("dance status = %d, want 400", code)
	}
	if code, _ := postCommand(t, ts, CommandRequest{Verb: "cook", Fish: 99}); code != http.StatusNotFound {
		t.Errorf("cook 99 status = %d, want 404", code)
	}
	if code, _ := postCommand(t, ts, CommandRequest{Verb: "resume"}); code != http.StatusConflict {
		t.Errorf("resume while playing = %d, want 409", code)
	}

	resp, err := ts.Client().Get(ts.URL + "/api/status")
	if err != nil {
		t.Fatalf("GET /api/status: %v", err)
	}
	defer resp.Body.Close()
	var st game.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if st.State != "playing" {
		t.Errorf("state = %q, want playing", st.State)
	}
	if st.Cap != 40 {
		t.Errorf("cap = %d, want 40", st.Cap)
	}
}

func TestWebsocketStreamsEvents(t *testing.T) {
	_, ts := startServer(t, nil)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var first Message
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read initial status: %v", err)
	}
	if first.Type != "status" || first.Status == nil || first.Status.State != "menu" {
		t.Fatalf("first message = %+v, want menu status", first)
	}

	if err := conn.WriteJSON(CommandRequest{Verb: "start"}); err != nil {
		t.Fatalf("write start: %v", err)
	}

	var gotReply, gotStarted bool
	for !gotReply || !gotStarted {
		var m Message
		if err := conn.ReadJSON(&m); err != nil {
			t.Fatalf("read: %v (reply %v, started %v)", err, gotReply, gotStarted)
		}
		switch m.Type {
		case "reply":
			if !m.Reply.OK {
				t.Fatalf("start reply = %+v", m.Reply)
			}
			gotReply = true
		case "event":
			if m.Event.Type == telemetry.EventSessionStarted {
				gotStarted = true
			}
		}
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("write garbage: %v", err)
	}
	for {
		var m Message
		if err := conn.ReadJSON(&m); err != nil {
			t.Fatalf("read: %v", err)
		}
		if m.Type == "reply" {
			if m.Reply.OK || !strings.Contains(m.Reply.Error, "invalid command") {
				t.Errorf("garbage reply = %+v", m.Reply)
			}
			break
		}
	}
}

func TestSessionsEndpoints(t *testing.T) {
	store := &fakeSessions{rows: []storage.Session{
		{ID: "a", Average: 4.5, Outcome: "best"},
		{ID: "b", Average: 1.5, Outcome: "bad"},
	}}
	_, ts := startServer(t, store)

	resp, err := ts.Client().Get(ts.URL + "/api/sessions?limit=1")
	if err != nil {
		t.Fatalf("GET /api/sessions: %v", err)
	}
	var list []storage.Session
	err = json.NewDecoder(resp.Body).Decode(&list)
	resp.Body.Close()
	if err != nil || len(list) != 1 || list[0].ID != "a" {
		t.Errorf("sessions = %+v, %v", list, err)
	}

	resp, err = ts.Client().Get(ts.URL + "/api/sessions/b")
	if err != nil {
		t.Fatalf("GET /api/sessions/b: %v", err)
	}
	var s storage.Session
	err = json.NewDecoder(resp.Body).Decode(&s)
	resp.Body.Close()
	if err != nil || s.Outcome != "bad" {
		t.Errorf("session b = %+v, %v", s, err)
	}

	resp, err = ts.Client().Get(ts.URL + "/api/sessions/zzz")
	if err != nil {
		t.Fatalf("GET /api/sessions/zzz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing session status = %d, want 404", resp.StatusCode)
	}

	resp, err = ts.Client().Get(ts.URL + "/api/sessions?limit=nope")
	if err != nil {
		t.Fatalf("GET bad limit: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want 400", resp.StatusCode)
	}
}

func TestLoopStops(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	g := game.NewGameWithOptions(game.Options{Config: cfg, Seed: 1, StepsPerUpdate: 1, AutoStart: true})
	defer g.Close()
	loop := NewLoop(g, 200)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	st, err := loop.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Tick == 0 {
		t.Error("loop did not tick")
	}

	cancel()
	<-done
	if _, err := loop.Apply(game.Command{Verb: game.VerbPause}); !errors.Is(err, ErrStopped) {
		t.Errorf("Apply after stop = %v, want ErrStopped", err)
	}
}
