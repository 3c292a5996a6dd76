package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/vdiff/internal/config"
	"github.com/vango-dev/vdiff/internal/errors"
	"github.com/vango-dev/vdiff/pkg/dom"
	"github.com/vango-dev/vdiff/pkg/protocol"
	"github.com/vango-dev/vdiff/pkg/render"
	"github.com/vango-dev/vdiff/pkg/vdom"
	"github.com/vango-dev/vdiff/pkg/vtest"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, modify func(*ServerConfig)) (*Server, *httptest.Server) {
	t.Helper()
	cfg := DefaultServerConfig()
	cfg.Logger = quietLogger()
	cfg.Registry = prometheus.NewRegistry()
	if modify != nil {
		modify(cfg)
	}
	srv := New(cfg)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Shutdown(context.Background())
		ts.Close()
	})
	return srv, ts
}

func postDiff(t *testing.T, url string, req DiffRequest) *http.Response {
	t.Helper()
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, ContentTypeJSON, bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

const (
	oldList = `<ul><li data-key="a">A</li><li data-key="b">B</li><li data-key="c">C</li></ul>`
	newList = `<ul class="done"><li data-key="c">C!</li><li data-key="a">A</li></ul>`
)

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Errorf("GET /healthz = %d %q", resp.StatusCode, body)
	}
}

func TestDiffJSON(t *testing.T) {
	_, ts := newTestServer(t, nil)
	resp := postDiff(t, ts.URL+"/diff", DiffRequest{Old: oldList, New: newList, Render: true})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != ContentTypeJSON {
		t.Errorf("Content-Type = %q", ct)
	}

	var got DiffResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	prev, next := vtest.MustParse(t, oldList), vtest.MustParse(t, newList)
	want := vdom.Patches(vdom.Diff(prev, next))
	if got.Patches.String() != want.String() {
		t.Errorf("patches =\n%s\nwant\n%s", got.Patches, want)
	}

	html, err := render.NewRenderer(render.RendererConfig{}).RenderToString(next)
	if err != nil {
		t.Fatal(err)
	}
	if got.HTML != html {
		t.Errorf("html = %q, want %q", got.HTML, html)
	}

	// The decoded patches still apply.
	doc := dom.NewDocument()
	doc.Mount(prev)
	if err := doc.Apply(got.Patches); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != newList {
		t.Errorf("applied document = %s, want %s", buf.String(), newList)
	}
}

func TestDiffBinary(t *testing.T) {
	_, ts := newTestServer(t, nil)
	resp := postDiff(t, ts.URL+"/diff?format=binary", DiffRequest{Old: oldList, New: newList})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != ContentTypeFrame {
		t.Errorf("Content-Type = %q", ct)
	}

	frame, err := protocol.ReadFrame(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if frame.Type != protocol.FramePatches {
		t.Fatalf("frame type = %v", frame.Type)
	}
	pf, err := protocol.DecodePatches(frame.Payload)
	if err != nil {
		t.Fatal(err)
	}
	want := vdom.Patches(vdom.Diff(vtest.MustParse(t, oldList), vtest.MustParse(t, newList)))
	if vdom.Patches(pf.Patches).String() != want.String() {
		t.Errorf("patches =\n%s\nwant\n%s", vdom.Patches(pf.Patches), want)
	}
}

func TestDiffErrors(t *testing.T) {
	_, ts := newTestServer(t, func(c *ServerConfig) { c.MaxMessageBytes = 256 })

	tests := []struct {
		name   string
		url    string
		body   string
		status int
		code   string
	}{
		{"unknown format", "/diff?format=xml", `{"old":"","new":""}`, http.StatusBadRequest, errors.CodeUnknownFormat},
		{"bad json", "/diff", `{"old":`, http.StatusBadRequest, errors.CodeInputUnreadable},
		{"too large", "/diff", `{"old":"` + strings.Repeat("x", 300) + `","new":""}`, http.StatusRequestEntityTooLarge, errors.CodeInputUnreadable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+tc.url, ContentTypeJSON, strings.NewReader(tc.body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tc.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tc.status)
			}
			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Error.Code != tc.code {
				t.Errorf("error code = %q, want %q", body.Error.Code, tc.code)
			}
		})
	}
}

func TestDiffNotFoundMethod(t *testing.T) {
	_, ts := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/diff")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /diff = %d, want 405", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := newTestServer(t, nil)
	postDiff(t, ts.URL+"/diff", DiffRequest{Old: oldList, New: newList})

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{
		"vdiff_diffs_total 1",
		`vdiff_patches_total{op="MoveNode"}`,
		`vdiff_server_diff_requests_total{format="json",status="200"} 1`,
		"vdiff_server_active_sessions 0",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("/metrics missing %q", want)
		}
	}
}

func TestMetricsDisabled(t *testing.T) {
	_, ts := newTestServer(t, func(c *ServerConfig) { c.Registry = nil })
	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET /metrics = %d, want 404", resp.StatusCode)
	}

	// Diffing still works without a registry.
	if resp := postDiff(t, ts.URL+"/diff", DiffRequest{Old: oldList, New: newList}); resp.StatusCode != http.StatusOK {
		t.Errorf("POST /diff = %d", resp.StatusCode)
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Port = 9999
	cfg.Metrics.Namespace = "ns"
	cfg.Render.Pretty = true

	sc := FromConfig(cfg)
	if sc.Address != "localhost:9999" {
		t.Errorf("Address = %q", sc.Address)
	}
	if sc.Registry == nil || sc.MetricsNamespace != "ns" {
		t.Errorf("metrics not configured: %+v", sc)
	}
	if !sc.Render.Pretty {
		t.Error("Render.Pretty not carried over")
	}

	cfg.Metrics.Enabled = false
	if FromConfig(cfg).Registry != nil {
		t.Error("Registry should be nil with metrics disabled")
	}
}

func TestServeAndShutdown(t *testing.T) {
	cfg := DefaultServerConfig()
	cfg.Logger = quietLogger()
	srv := New(cfg)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/healthz"
	var resp *http.Response
	for i := 0; i < 50; i++ {
		if resp, err = http.Get(url); err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server did not come up: %v", err)
	}
	resp.Body.Close()

	ln2, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	if err := srv.Serve(context.Background(), ln2); err != ErrServerRunning {
		t.Errorf("second Serve() = %v, want ErrServerRunning", err)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
