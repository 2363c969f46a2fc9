// Package server serves a live preview of the source tree, rendering each
// page when it is requested.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gerunddev/docd/internal/config"
	"github.com/gerunddev/docd/internal/converter"
	"github.com/gerunddev/docd/internal/logger"
	"github.com/gerunddev/docd/internal/site"
)

// MaxRenderBody caps the size of a POST /render request body
const MaxRenderBody = 1 << 20

const shutdownTimeout = 5 * time.Second

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>docd preview</title>
</head>
<body>
<ul>
{{range .}}<li><a href="/{{.Rel}}.html">{{.Rel}}</a></li>
{{end}}</ul>
</body>
</html>
`))

// Server is the preview HTTP server
type Server struct {
	config  *config.Config
	builder *site.Builder
	log     *logger.Logger

	// the builder caches templates and is not safe for concurrent use
	mu sync.Mutex
}

// New creates a preview server for the source tree of cfg
func New(cfg *config.Config, builder *site.Builder) *Server {
	return &Server{
		config:  cfg,
		builder: builder,
		log:     logger.Discard(),
	}
}

// SetLogger sets the logger for the server
func (s *Server) SetLogger(l *logger.Logger) {
	s.log = l
}

// Handler returns the routes of the server wrapped in request logging
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /{path...}", s.handlePage)
	mux.HandleFunc("POST /render", s.handleRender)
	return s.logRequests(mux)
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("preview server started", "addr", s.config.Addr)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	s.log.Info("preview server stopped")
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	pages, err := s.builder.Pages()
	if err != nil {
		s.log.Error("failed to list pages", "error", err)
		http.Error(w, "failed to list pages", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, pages); err != nil {
		s.log.Error("failed to write index", "error", err)
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	rel, ok := strings.CutSuffix(r.PathValue("path"), ".html")
	if !ok || rel == "" {
		http.NotFound(w, r)
		return
	}

	source := filepath.Join(s.config.SourceDir, filepath.FromSlash(rel)+".md")
	page, err := s.builder.Page(source)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if _, err := os.Stat(page.Source); err != nil {
		http.NotFound(w, r)
		return
	}

	s.mu.Lock()
	html, err := s.builder.RenderPage(page)
	s.mu.Unlock()
	if err != nil {
		s.log.FileError(page.Source, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxRenderBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	conv := converter.NewConverter(
		converter.WithLogger(s.log),
		converter.WithTableClass(s.config.TableClass),
	)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, conv.MarkdownToHTML(string(body)))
}

// statusRecorder remembers the status code written through it
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// logRequests tags every request with an id and logs it once served
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Request(id, r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
