package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/chartwire/pkg/cache"
	errs "github.com/matzehuels/chartwire/pkg/errors"
	"github.com/matzehuels/chartwire/pkg/pipeline"
)

const salesSpec = `
id = "sales"
type = "bar"
title = "Sales"
description = "Quarterly *sales*"

[data]
labels = ["Q1", "Q2"]

[[data.datasets]]
label = "2024"
data = [10, 20]

[[patches]]
path = "options.scales.y.ticks.callback"
function = { args = ["value"], body = "return value + 'k'" }
`

const growthSpec = `{
	"id": "growth",
	"type": "scatter",
	"data": {"datasets": [{"data": [{"x": 1, "y": 2}]}]}
}`

const salesDocument = `{"id":"sales","type":"bar","data":{"datasets":[{"data":[10,20],"label":"2024"}],"labels":["Q1","Q2"]},"options":{"scales":{"y":{"ticks":{"callback":function(value) { return value + 'k' }}}}}}`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestServer(t *testing.T) (*Server, *httptest.Server, string) {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "sales.toml", salesSpec)
	writeFile(t, dir, "growth.json", growthSpec)

	lru, err := cache.NewLRUCache(64)
	if err != nil {
		t.Fatal(err)
	}
	runner := pipeline.NewRunner(lru, nil, nil)
	s, err := New(context.Background(), runner, Options{Dir: dir, Debounce: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		s.hub.close()
		ts.Close()
	})
	return s, ts, dir
}

func get(t *testing.T, url string) (int, string, http.Header) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, string(body), resp.Header
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + LiveReloadPath
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	// The greeting arrives once the server has registered the client.
	if msg := readMessage(t, conn); msg.Type != messageConnected {
		t.Fatalf("first message = %q, want %q", msg.Type, messageConnected)
	}
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) message {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read message: %v", err)
	}
	return msg
}

func TestNewRequiresDir(t *testing.T) {
	if _, err := New(context.Background(), nil, Options{}); err == nil {
		t.Error("expected error for empty dir")
	}
}

func TestNewEmptyDir(t *testing.T) {
	s, err := New(context.Background(), nil, Options{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("empty directory should load: %v", err)
	}
	if len(s.Files()) != 0 {
		t.Errorf("expected no files, got %d", len(s.Files()))
	}
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()
	if status, _, _ := get(t, ts.URL+"/"); status != http.StatusOK {
		t.Errorf("index of empty directory: status %d", status)
	}
}

func TestIndex(t *testing.T) {
	_, ts, _ := newTestServer(t)
	status, body, header := get(t, ts.URL+"/")
	if status != http.StatusOK {
		t.Fatalf("status = %d, body = %s", status, body)
	}
	if !strings.HasPrefix(header.Get("Content-Type"), "text/html") {
		t.Errorf("Content-Type = %q", header.Get("Content-Type"))
	}
	for _, want := range []string{`<canvas id="sales">`, `<canvas id="growth">`, "new WebSocket(", "<em>sales</em>"} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q", want)
		}
	}
}

func TestChartPage(t *testing.T) {
	_, ts, _ := newTestServer(t)
	status, body, _ := get(t, ts.URL+"/charts/sales")
	if status != http.StatusOK {
		t.Fatalf("status = %d, body = %s", status, body)
	}
	if !strings.Contains(body, "<title>Sales</title>") {
		t.Error("chart page should use the chart title")
	}
	if strings.Contains(body, `<canvas id="growth">`) {
		t.Error("chart page should only contain the requested chart")
	}
}

func TestDocument(t *testing.T) {
	_, ts, _ := newTestServer(t)
	status, body, header := get(t, ts.URL+"/charts/sales/document.js")
	if status != http.StatusOK {
		t.Fatalf("status = %d, body = %s", status, body)
	}
	if body != salesDocument {
		t.Errorf("document =\n%s\nwant\n%s", body, salesDocument)
	}
	if !strings.HasPrefix(header.Get("Content-Type"), "text/javascript") {
		t.Errorf("Content-Type = %q", header.Get("Content-Type"))
	}
}

func TestSource(t *testing.T) {
	_, ts, _ := newTestServer(t)

	status, body, _ := get(t, ts.URL+"/charts/sales/source")
	if status != http.StatusOK {
		t.Fatalf("status = %d, body = %s", status, body)
	}
	if !strings.Contains(body, "chroma") || !strings.Contains(body, "callback") {
		t.Error("document view should be highlighted and include the document")
	}

	status, body, _ = get(t, ts.URL+"/charts/sales/source?view=spec")
	if status != http.StatusOK {
		t.Fatalf("spec view status = %d", status)
	}
	if !strings.Contains(body, "Quarterly") {
		t.Error("spec view should show the spec file")
	}

	if status, _, _ := get(t, ts.URL+"/charts/sales/source?view=bogus"); status != http.StatusBadRequest {
		t.Errorf("unknown view status = %d, want 400", status)
	}
}

func TestChartErrors(t *testing.T) {
	_, ts, _ := newTestServer(t)
	tests := []struct {
		path   string
		status int
	}{
		{"/charts/missing", http.StatusNotFound},
		{"/charts/missing/document.js", http.StatusNotFound},
		{"/charts/1sales", http.StatusBadRequest},
		{"/nothing-here", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if status, _, _ := get(t, ts.URL+tt.path); status != tt.status {
				t.Errorf("status = %d, want %d", status, tt.status)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	_, ts, _ := newTestServer(t)
	status, body, _ := get(t, ts.URL+"/healthz")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var h health
	if err := json.Unmarshal([]byte(body), &h); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if h.Status != "ok" || h.Charts != 2 {
		t.Errorf("unexpected health: %+v", h)
	}
}

func TestReloadBroadcast(t *testing.T) {
	s, ts, dir := newTestServer(t)
	conn := dial(t, ts)

	writeFile(t, dir, "visits.yaml", "id: visits\ntype: line\ndata:\n  datasets:\n    - data: [1, 2, 3]\n")
	s.reloadAndNotify(context.Background())

	msg := readMessage(t, conn)
	if msg.Type != messageReload {
		t.Fatalf("message type = %q, want %q", msg.Type, messageReload)
	}
	if strings.Join(msg.Charts, ",") != "growth,sales,visits" {
		t.Errorf("charts = %v", msg.Charts)
	}
	if status, _, _ := get(t, ts.URL+"/charts/visits"); status != http.StatusOK {
		t.Errorf("new chart status = %d", status)
	}
}

func TestReloadFailureKeepsCharts(t *testing.T) {
	s, ts, dir := newTestServer(t)
	conn := dial(t, ts)

	writeFile(t, dir, "broken.toml", `type = "bar"`) // no data
	s.reloadAndNotify(context.Background())

	msg := readMessage(t, conn)
	if msg.Type != messageError || msg.Error == "" {
		t.Fatalf("expected error message, got %+v", msg)
	}
	if len(s.Files()) != 2 {
		t.Errorf("previous charts should stay loaded, got %d", len(s.Files()))
	}

	_, body, _ := get(t, ts.URL+"/healthz")
	var h health
	_ = json.Unmarshal([]byte(body), &h)
	if h.Status != "degraded" || h.Error == "" {
		t.Errorf("health should report the load error: %+v", h)
	}
}

func TestWatch(t *testing.T) {
	s, ts, dir := newTestServer(t)
	conn := dial(t, ts)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watchErr := make(chan error, 1)
	go func() { watchErr <- s.Watch(ctx) }()

	// Keep touching the file until the watcher is up and a reload arrives.
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = os.WriteFile(filepath.Join(dir, "growth.json"), []byte(growthSpec), 0o644)
			}
		}
	}()
	msg := readMessage(t, conn)
	close(done)
	if msg.Type != messageReload {
		t.Errorf("message type = %q, want %q", msg.Type, messageReload)
	}

	cancel()
	if err := <-watchErr; err != nil {
		t.Errorf("Watch: %v", err)
	}
}

func TestRelevant(t *testing.T) {
	tests := []struct {
		name string
		op   fsnotify.Op
		want bool
	}{
		{"charts/sales.toml", fsnotify.Write, true},
		{"charts/sales.yml", fsnotify.Create, true},
		{"charts/sales.json", fsnotify.Remove, true},
		{"charts/sales.jsonc", fsnotify.Rename, true},
		{"charts/sales.toml", fsnotify.Chmod, false},
		{"charts/notes.md", fsnotify.Write, false},
		{"charts/.sales.toml", fsnotify.Write, false},
	}
	for _, tt := range tests {
		ev := fsnotify.Event{Name: tt.name, Op: tt.op}
		if got := relevant(ev); got != tt.want {
			t.Errorf("relevant(%s %s) = %v, want %v", tt.name, tt.op, got, tt.want)
		}
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errs.New(errs.ErrCodeNotFound, "x"), http.StatusNotFound},
		{errs.New(errs.ErrCodeInvalidChartID, "x"), http.StatusBadRequest},
		{fmt.Errorf("serialize sales: %w", errs.New(errs.ErrCodeDuplicateArgument, "x")), http.StatusUnprocessableEntity},
		{errs.New(errs.ErrCodeEmbedding, "x"), http.StatusUnprocessableEntity},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
