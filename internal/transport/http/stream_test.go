package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"statusboard/internal/domain"
)

type sseEvent struct {
	id    string
	event string
	data  map[string]any
}

// readSSE reads one framed event (id/event/data terminated by a blank line).
func readSSE(t *testing.T, br *bufio.Reader) sseEvent {
	t.Helper()
	var ev sseEvent
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			t.Fatalf("stream read failed: %v", err)
		}
		line = strings.TrimRight(line, "\n")
		switch {
		case line == "":
			if ev.event != "" {
				return ev
			}
		case strings.HasPrefix(line, "id: "):
			ev.id = strings.TrimPrefix(line, "id: ")
		case strings.HasPrefix(line, "event: "):
			ev.event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			payload := strings.TrimPrefix(line, "data: ")
			if err := json.Unmarshal([]byte(payload), &ev.data); err != nil {
				t.Fatalf("event data is not JSON: %v: %s", err, payload)
			}
		}
	}
}

func openStream(t *testing.T, env *testEnv, lastEventID string) (*bufio.Reader, context.CancelFunc) {
	t.Helper()
	srv := httptest.NewServer(env.router)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/events", nil)
	if err != nil {
		cancel()
		t.Fatal(err)
	}
	if lastEventID != "" {
		req.Header.Set("Last-Event-ID", lastEventID)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		cancel()
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q, want text/event-stream", ct)
	}
	return bufio.NewReader(resp.Body), cancel
}

func TestEventsInitialSnapshot(t *testing.T) {
	env := newTestEnv(t)
	br, cancel := openStream(t, env, "")
	defer cancel()

	connected := readSSE(t, br)
	if connected.event != "connected" {
		t.Fatalf("first event = %q, want connected", connected.event)
	}
	if connected.data["clientId"] == nil || connected.id == "" {
		t.Errorf("connected event missing clientId or id: %+v", connected)
	}

	initial := readSSE(t, br)
	if initial.event != "initial_data" {
		t.Fatalf("second event = %q, want initial_data", initial.event)
	}
	if initial.data["count"].(float64) != 0 {
		t.Errorf("count = %v, want 0", initial.data["count"])
	}
	if devices := initial.data["devices"].(map[string]any); len(devices) != 0 {
		t.Errorf("devices = %v, want empty", devices)
	}
}

func TestEventsResumeHintStillGetsSnapshot(t *testing.T) {
	env := newTestEnv(t)
	far := fmt.Sprint(time.Now().Unix() + 1000)
	br, cancel := openStream(t, env, far)
	defer cancel()

	// No replay log: a resume hint only seeds the cursor, the client still
	// gets the fresh connected/initial_data pair.
	if ev := readSSE(t, br); ev.event != "connected" {
		t.Fatalf("first event = %q, want connected", ev.event)
	}
	if ev := readSSE(t, br); ev.event != "initial_data" {
		t.Fatalf("second event = %q, want initial_data", ev.event)
	}
}

func TestEventsUpdatePropagation(t *testing.T) {
	env := newTestEnv(t)
	br, cancel := openStream(t, env, "")
	defer cancel()

	readSSE(t, br) // connected
	readSSE(t, br) // initial_data

	env.do(t, http.MethodPost, "/api/status", `{"deviceId":"pixel-7"}`, nil)

	deadline := time.Now().Add(2 * time.Second)
	for {
		if time.Now().After(deadline) {
			t.Fatal("no device_update within the poll deadline")
		}
		ev := readSSE(t, br)
		if ev.event != "device_update" {
			continue
		}
		if ev.data["deviceId"] != "pixel-7" {
			t.Errorf("deviceId = %v, want pixel-7", ev.data["deviceId"])
		}
		if ev.data["totalDevices"].(float64) != 1 {
			t.Errorf("totalDevices = %v, want 1", ev.data["totalDevices"])
		}
		return
	}
}

func TestEventsCollapseRapidUpdates(t *testing.T) {
	env := newTestEnv(t)
	br, cancel := openStream(t, env, "")
	defer cancel()

	readSSE(t, br) // connected
	readSSE(t, br) // initial_data

	// Two publishes faster than one poll interval collapse into the latest.
	now := time.Now().Unix()
	env.events.Publish(domain.ChangeEvent{
		Type: "device_update", DeviceID: "x",
		Device: domain.DeviceRecord{DeviceID: "x", CurrentApp: "first"},
		Timestamp: now, TotalDevices: 1,
	})
	env.events.Publish(domain.ChangeEvent{
		Type: "device_update", DeviceID: "x",
		Device: domain.DeviceRecord{DeviceID: "x", CurrentApp: "second"},
		Timestamp: now, TotalDevices: 1,
	})

	deadline := time.Now().Add(2 * time.Second)
	var lastID int64
	for {
		if time.Now().After(deadline) {
			t.Fatal("no device_update within the poll deadline")
		}
		ev := readSSE(t, br)

		var id int64
		fmt.Sscan(ev.id, &id)
		if id < lastID {
			t.Fatalf("event id regressed: %d after %d", id, lastID)
		}
		lastID = id

		if ev.event != "device_update" {
			continue
		}
		device := ev.data["device"].(map[string]any)
		if device["currentApp"] != "second" {
			t.Errorf("currentApp = %v, want the later ingest only", device["currentApp"])
		}
		return
	}
}

func TestEventsHeartbeat(t *testing.T) {
	env := newTestEnv(t)
	br, cancel := openStream(t, env, "")
	defer cancel()

	readSSE(t, br) // connected
	readSSE(t, br) // initial_data

	deadline := time.Now().Add(5 * time.Second)
	for {
		if time.Now().After(deadline) {
			t.Fatal("no heartbeat within the heartbeat interval")
		}
		ev := readSSE(t, br)
		if ev.event == "heartbeat" {
			if ev.data["timestamp"] == nil {
				t.Error("heartbeat missing timestamp")
			}
			return
		}
	}
}
