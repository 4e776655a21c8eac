//go:build integration

package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var (
	baseURL     = getEnvOrDefault("TEMPUS_URL", "http://localhost:9401")
	testTimeout = 10 * time.Second
)

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func newTestClient() *http.Client {
	return &http.Client{Timeout: testTimeout}
}

// requireGateway skips the test when no gateway is running
func requireGateway(t *testing.T) {
	t.Helper()
	resp, err := newTestClient().Get(baseURL + "/api/v1/health")
	if err != nil {
		t.Skipf("Skipping: gateway not reachable at %s: %v", baseURL, err)
	}
	resp.Body.Close()
}

func postJSON(t *testing.T, path string, body interface{}, out interface{}) int {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	resp, err := newTestClient().Post(baseURL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s failed: %v", path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
	}
	return resp.StatusCode
}

func TestE2E_Format(t *testing.T) {
	requireGateway(t)

	var resp struct {
		Text string `json:"text"`
	}
	code := postJSON(t, "/api/v1/format", map[string]interface{}{
		"locale":  "ru_RU",
		"pattern": "%d %B %Y",
		"date":    map[string]interface{}{"timestamp": 1382313600},
	}, &resp)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if resp.Text != "21 Октябрь 2013" {
		t.Errorf("text = %q", resp.Text)
	}
}

func TestE2E_Month(t *testing.T) {
	requireGateway(t)

	resp, err := newTestClient().Get(baseURL + "/api/v1/month?year=2013&month=10&monday_first=true")
	if err != nil {
		t.Fatalf("GET month failed: %v", err)
	}
	defer resp.Body.Close()

	var month struct {
		Days     int      `json:"days"`
		DayNames []string `json:"day_names"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&month); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if month.Days != 31 || len(month.DayNames) != 7 || month.DayNames[0] != "Mon" {
		t.Errorf("month = %+v", month)
	}
}

func TestE2E_Alarms(t *testing.T) {
	requireGateway(t)

	var alarm struct {
		ID string `json:"id"`
	}
	code := postJSON(t, "/api/v1/alarms", map[string]interface{}{
		"label": "e2e",
		"at":    map[string]interface{}{"timestamp": 4102444800},
	}, &alarm)
	if code == http.StatusServiceUnavailable {
		t.Skip("Skipping: alarms disabled")
	}
	if code != http.StatusCreated {
		t.Fatalf("status = %d", code)
	}

	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/api/v1/alarms/%s", baseURL, alarm.ID), nil)
	resp, err := newTestClient().Do(req)
	if err != nil {
		t.Fatalf("DELETE failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("DELETE status = %d, want 204", resp.StatusCode)
	}
}

func TestE2E_WebSocketPing(t *testing.T) {
	requireGateway(t)

	wsURL := "ws" + baseURL[len("http"):] + "/ws/clock"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]string{"type": "ping"}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	var msg struct {
		Type string `json:"type"`
	}
	conn.SetReadDeadline(time.Now().Add(testTimeout))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if msg.Type != "pong" {
		t.Errorf("type = %q, want pong", msg.Type)
	}
}
