// Package webserver serves the dashboard's web UI: static SPA assets
// with history-API fallback, plus a reverse proxy that forwards /api
// and /ws to the API server so the browser talks to a single origin.
package webserver

import (
	"context"
	"io"
	"io/fs"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Server is the web server for the dashboard UI.
type Server struct {
	addr     string
	apiURL   *url.URL
	staticFS fs.FS
	logger   *log.Logger
}

// Config holds server configuration.
type Config struct {
	Addr     string
	APIURL   string // Base URL of the API server, e.g. "http://127.0.0.1:3333"
	StaticFS fs.FS  // Embedded static files (optional)
}

// New creates a new server.
func New(cfg Config) (*Server, error) {
	apiURL, err := url.Parse(cfg.APIURL)
	if err != nil {
		return nil, err
	}

	return &Server{
		addr:     cfg.Addr,
		apiURL:   apiURL,
		staticFS: cfg.StaticFS,
		logger:   log.NewWithOptions(os.Stderr, log.Options{Prefix: "webserver"}),
	}, nil
}

// Start starts the server and blocks until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()

	// API proxy. ReverseProxy passes WebSocket upgrades through, so
	// /ws rides the same path.
	proxy := httputil.NewSingleHostReverseProxy(s.apiURL)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		s.logger.Error("api proxy failed", "path", r.URL.Path, "error", err)
		http.Error(w, "Bad Gateway", http.StatusBadGateway)
	}
	mux.Handle("/api/", http.StripPrefix("/api", proxy))
	mux.Handle("/ws", proxy)
	mux.Handle("/calendar.ics", proxy)

	// Health check
	mux.HandleFunc("GET /health", s.handleHealth)

	// Static files (SPA)
	if s.staticFS != nil {
		mux.Handle("/", s.staticFileHandler())
	}

	handler := s.securityHeadersMiddleware(s.loggingMiddleware(mux))

	server := &http.Server{
		Addr:         s.addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting server", "addr", s.addr)

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// staticFileHandler returns a handler for serving static files with SPA support.
func (s *Server) staticFileHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := path.Clean(r.URL.Path)
		if p == "/" {
			p = "/index.html"
		}

		filePath := strings.TrimPrefix(p, "/")
		f, err := s.staticFS.Open(filePath)
		if err != nil {
			// File not found, serve index.html for SPA routing
			f, err = s.staticFS.Open("index.html")
			if err != nil {
				http.NotFound(w, r)
				return
			}
			filePath = "index.html"
		}
		defer f.Close()

		stat, err := f.Stat()
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		// If it's a directory, serve index.html
		if stat.IsDir() {
			f.Close()
			indexPath := path.Join(filePath, "index.html")
			f, err = s.staticFS.Open(indexPath)
			if err != nil {
				f, err = s.staticFS.Open("index.html")
				if err != nil {
					http.NotFound(w, r)
					return
				}
			}
		}

		contentType := getContentType(filePath)
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}

		content, err := io.ReadAll(f)
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Write(content)
	})
}

// getContentType returns the content type for a file extension.
func getContentType(path string) string {
	switch {
	case strings.HasSuffix(path, ".html"):
		return "text/html; charset=utf-8"
	case strings.HasSuffix(path, ".css"):
		return "text/css; charset=utf-8"
	case strings.HasSuffix(path, ".js"):
		return "application/javascript"
	case strings.HasSuffix(path, ".json"):
		return "application/json"
	case strings.HasSuffix(path, ".svg"):
		return "image/svg+xml"
	case strings.HasSuffix(path, ".png"):
		return "image/png"
	case strings.HasSuffix(path, ".ico"):
		return "image/x-icon"
	default:
		return ""
	}
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
