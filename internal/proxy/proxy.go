// Package proxy is the attachment rendering service: it fetches raw
// attachment content from the origin CDN and renders it as an HTML page
// for users without access to the chat platform's file storage.
//
// The content-type gate is the security boundary of the service: content
// the origin does not declare as UTF-8 text is never rendered as a page
// body, regardless of its actual bytes.
package proxy

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"io"
	"log/slog"
	"net/http"
	"time"

	"diagbot/internal/extract"
	"diagbot/internal/fetch"
)

const (
	originTimeout = 30 * time.Second
	maxBodyBytes  = 8 << 20

	// DefaultOriginBase is where attachment bytes live upstream.
	DefaultOriginBase = "https://cdn.discordapp.com/attachments"
)

// fallbackPage is served when even the error template fails to render.
const fallbackPage = `<!DOCTYPE html>
<html lang="en"><head><meta charset="utf-8"><title>Error</title></head>
<body><p>Something went wrong rendering this page.</p></body></html>
`

//go:embed templates/*.html
var templateFS embed.FS

// Server serves GET /{channelID}/{messageID}/{filename} and nothing else.
// Requests are stateless; the HTTP client and templates are shared and
// read-only.
type Server struct {
	addr       string
	originBase string
	userAgent  string
	client     *http.Client
	tmpl       *htmltemplate.Template
	logger     *slog.Logger
	server     *http.Server
}

// ServerConfig configures the rendering proxy.
type ServerConfig struct {
	Addr       string
	OriginBase string
	UserAgent  string
	Logger     *slog.Logger
}

// NewServer creates the proxy. Templates are parsed eagerly so a broken
// build fails at startup, not per request.
func NewServer(cfg ServerConfig) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.OriginBase == "" {
		cfg.OriginBase = DefaultOriginBase
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		addr:       cfg.Addr,
		originBase: cfg.OriginBase,
		userAgent:  cfg.UserAgent,
		client:     fetch.SharedHTTPClient(originTimeout),
		tmpl:       htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/*.html")),
		logger:     logger,
	}
}

// Handler returns the route table. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{channelID}/{messageID}/{filename}", s.handleView)
	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("rendering proxy listening", "addr", s.addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("proxy server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

// viewData is the input contract of the paste template.
type viewData struct {
	Filename string
	Content  string
}

// handleView walks the request through origin fetch, content-type gate and
// rendering, exiting early with a typed error page at any step.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	channelID := r.PathValue("channelID")
	messageID := r.PathValue("messageID")
	filename := r.PathValue("filename")

	originURL := fmt.Sprintf("%s/%s/%s/%s", s.originBase, channelID, messageID, filename)

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, originURL, nil)
	if err != nil {
		s.renderError(w, originFailure(fmt.Sprintf("bad origin request: %v", err)))
		return
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.renderError(w, originFailure(fmt.Sprintf("origin returned an error: %v", err)))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.renderError(w, originFailure(fmt.Sprintf("origin returned an error: status %s", resp.Status)))
		return
	}

	// An absent Content-Type header is an empty one, and empty is not
	// text. Fail closed.
	if !extract.IsUTF8Text(resp.Header.Get("Content-Type")) {
		s.renderError(w, notFound())
		return
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		s.renderError(w, originFailure(fmt.Sprintf("origin returned an error: %v", err)))
		return
	}

	// Render into a buffer so a templating failure can still produce a
	// well-formed error response.
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "paste.html", viewData{
		Filename: filename,
		Content:  string(body),
	}); err != nil {
		s.renderError(w, templatingFailure(fmt.Sprintf("templating returned an error: %v", err)))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
