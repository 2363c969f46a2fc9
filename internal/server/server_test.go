package server

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gerunddev/docd/internal/config"
	"github.com/gerunddev/docd/internal/logger"
	"github.com/gerunddev/docd/internal/site"
	"github.com/gerunddev/docd/internal/state"
)

func testServer(t *testing.T, pages map[string]string) (*Server, *config.Config) {
	t.Helper()
	tmpDir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.SourceDir = filepath.Join(tmpDir, "content")
	cfg.OutputDir = filepath.Join(tmpDir, "public")
	cfg.StateFile = filepath.Join(tmpDir, "state.json")

	for name, content := range pages {
		path := filepath.Join(cfg.SourceDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(cfg.SourceDir, 0755); err != nil {
		t.Fatal(err)
	}

	return New(cfg, site.NewBuilder(cfg, state.NewState())), cfg
}

func TestHandler(t *testing.T) {
	s, _ := testServer(t, map[string]string{
		"index.md":       "# Home\n",
		"guide/intro.md": "+++\ntitle = \"Intro\"\n+++\nhello *there*\n",
	})
	h := s.Handler()

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantBody   []string
	}{
		{
			name:       "index lists pages",
			method:     http.MethodGet,
			path:       "/",
			wantStatus: http.StatusOK,
			wantBody:   []string{`<a href="/guide/intro.html">guide/intro</a>`, `<a href="/index.html">index</a>`},
		},
		{
			name:       "page renders on request",
			method:     http.MethodGet,
			path:       "/guide/intro.html",
			wantStatus: http.StatusOK,
			wantBody:   []string{"<title>Intro</title>", "<p>hello <em>there</em></p>"},
		},
		{
			name:       "missing page",
			method:     http.MethodGet,
			path:       "/nope.html",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "not an html path",
			method:     http.MethodGet,
			path:       "/index.md",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "render fragment",
			method:     http.MethodPost,
			path:       "/render",
			body:       "## Title\n\n- a\n- b",
			wantStatus: http.StatusOK,
			wantBody:   []string{"<h2>Title</h2>", "<li><p>a</p>", "<li><p>b</p>"},
		},
		{
			name:       "render empty body",
			method:     http.MethodPost,
			path:       "/render",
			wantStatus: http.StatusOK,
		},
		{
			name:       "post to index",
			method:     http.MethodPost,
			path:       "/",
			wantStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %q)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			for _, want := range tt.wantBody {
				if !strings.Contains(rec.Body.String(), want) {
					t.Errorf("body missing %q:\n%s", want, rec.Body.String())
				}
			}
			if rec.Header().Get("X-Request-Id") == "" {
				t.Error("Expected X-Request-Id header")
			}
		})
	}
}

func TestRenderTooLarge(t *testing.T) {
	s, _ := testServer(t, nil)

	body := strings.Repeat("a", MaxRenderBody+1)
	req := httptest.NewRequest(http.MethodPost, "/render", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusRequestEntityTooLarge)
	}
}

func TestRequestsLogged(t *testing.T) {
	s, _ := testServer(t, map[string]string{"a.md": "a"})

	var buf bytes.Buffer
	s.SetLogger(logger.New(&buf))

	req := httptest.NewRequest(http.MethodGet, "/a.html", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	out := buf.String()
	id := rec.Header().Get("X-Request-Id")
	for _, want := range []string{"request", "request_id=" + id, "path=/a.html", "status=200"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestRunShutsDownOnCancel(t *testing.T) {
	s, cfg := testServer(t, map[string]string{"a.md": "a"})

	// reserve a free port for the server
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Addr = l.Addr().String()
	l.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	var resp *http.Response
	for range 50 {
		resp, err = http.Get("http://" + cfg.Addr + "/a.html")
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server never came up: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunAddressInUse(t *testing.T) {
	s, cfg := testServer(t, nil)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	cfg.Addr = l.Addr().String()

	if err := s.Run(context.Background()); err == nil {
		t.Error("Expected error when the address is taken")
	}
}
