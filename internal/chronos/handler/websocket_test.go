package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	alarmsvc "github.com/msto63/tempus/internal/alarm/service"
	"github.com/msto63/tempus/internal/chronos/service"
)

type wsReply struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func dialClock(t *testing.T, f *fixture) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(NewWebSocketHandler(WebSocketConfig{
		Service: f.service,
		Alarms:  f.alarms,
		Timers:  f.timers,
		Logger:  f.logger,
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/clock"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload interface{}) {
	t.Helper()
	msg := map[string]interface{}{"type": typ}
	if payload != nil {
		msg["payload"] = payload
	}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
}

// next reads until a reply of type typ arrives
func next(t *testing.T, conn *websocket.Conn, typ string) wsReply {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var reply wsReply
		if err := conn.ReadJSON(&reply); err != nil {
			t.Fatalf("waiting for %s: %v", typ, err)
		}
		if reply.Type == typ {
			return reply
		}
	}
}

func TestWebSocketPing(t *testing.T) {
	conn := dialClock(t, newFixture(t))

	send(t, conn, "ping", nil)
	next(t, conn, "pong")
}

func TestWebSocketClock(t *testing.T) {
	conn := dialClock(t, newFixture(t))

	send(t, conn, "clock", WSClockPayload{View: service.View{Locale: "ru_RU"}, Pattern: "%Y|%B"})

	var last int64
	for i := 0; i < 2; i++ {
		reply := next(t, conn, "tick")
		var tick WSTickPayload
		if err := json.Unmarshal(reply.Payload, &tick); err != nil {
			t.Fatalf("tick payload error = %v", err)
		}
		year := time.Unix(tick.Timestamp, 0).UTC().Format("2006")
		if !strings.HasPrefix(tick.Text, year+"|") {
			t.Errorf("tick text = %q, want year %s", tick.Text, year)
		}
		if tick.Timestamp < last {
			t.Errorf("tick %d went backwards", i)
		}
		last = tick.Timestamp
	}

	send(t, conn, "stop", nil)
	next(t, conn, "stopped")
}

func TestWebSocketErrors(t *testing.T) {
	conn := dialClock(t, newFixture(t))

	testCases := []struct {
		name    string
		typ     string
		payload interface{}
		code    string
	}{
		{"unknown type", "chat", nil, "unknown_type"},
		{"unknown locale", "clock", WSClockPayload{View: service.View{Locale: "xx_XX"}}, "invalid_request"},
		{"bad payload", "clock", "not an object", "invalid_payload"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			send(t, conn, tc.typ, tc.payload)
			reply := next(t, conn, "error")
			var payload WSErrorPayload
			if err := json.Unmarshal(reply.Payload, &payload); err != nil {
				t.Fatalf("error payload = %v", err)
			}
			if payload.Code != tc.code {
				t.Errorf("code = %s, want %s", payload.Code, tc.code)
			}
		})
	}
}

func TestWebSocketAlarms(t *testing.T) {
	f := newFixture(t)
	conn := dialClock(t, f)

	send(t, conn, "alarms", nil)
	next(t, conn, "subscribed")

	alarm, err := f.alarms.Add(context.Background(), alarmsvc.AddRequest{
		Label: "kettle",
		At:    service.At(time.Now().Add(-time.Second).Unix()),
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	reply := next(t, conn, "alarm")
	var event alarmsvc.Event
	if err := json.Unmarshal(reply.Payload, &event); err != nil {
		t.Fatalf("alarm payload error = %v", err)
	}
	if event.Alarm == nil || event.Alarm.ID != alarm.ID || event.Alarm.Label != "kettle" {
		t.Errorf("event = %+v", event)
	}
}

func TestWebSocketAlarmsDisabled(t *testing.T) {
	f := newFixture(t)
	f.alarms = nil
	conn := dialClock(t, f)

	send(t, conn, "alarms", nil)
	reply := next(t, conn, "error")
	if !strings.Contains(string(reply.Payload), "service_unavailable") {
		t.Errorf("payload = %s", reply.Payload)
	}
}
