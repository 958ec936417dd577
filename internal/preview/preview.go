// Package preview serves the built site locally and rebuilds it when content changes.
package preview

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/NYTimes/gziphandler"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/site"
)

// buildStatus tracks the outcome of the most recent build.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	lastBuild    time.Time
	hasGoodBuild bool
}

func (bs *buildStatus) set(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
	bs.lastBuild = time.Now()
	if err == nil {
		bs.hasGoodBuild = true
	}
}

func (bs *buildStatus) get() (last time.Time, hasGoodBuild bool, err error) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.lastBuild, bs.hasGoodBuild, bs.lastError
}

// Server builds the site, serves it and rebuilds on change.
type Server struct {
	cfg      *config.Config
	gen      *site.Generator
	registry *prom.Registry
	status   buildStatus
	builds   atomic.Int64
	buildMu  sync.Mutex
}

// New creates a preview server. Drafts are listed when drafts is true.
func New(cfg *config.Config, drafts bool) *Server {
	s := &Server{cfg: cfg}
	gen := site.NewGenerator(cfg).WithDrafts(drafts)
	if cfg.Preview.Metrics {
		s.registry = prom.NewRegistry()
		gen = gen.WithRecorder(metrics.NewPrometheusRecorder(s.registry))
	}
	s.gen = gen
	return s
}

// Builds returns the number of builds attempted so far.
func (s *Server) Builds() int64 { return s.builds.Load() }

// Rebuild runs one build. Concurrent calls are serialized.
func (s *Server) Rebuild(ctx context.Context) error {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	_, err := s.gen.Build(ctx)
	s.builds.Add(1)
	s.status.set(err)
	if err != nil {
		slog.Warn("Preview build failed", logfields.Error(err))
	}
	return err
}

// Handler serves the output directory gzip-compressed, plus /healthz and /metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	if s.registry != nil {
		metrics.Mount(mux, s.registry)
	}
	mux.Handle("/", gziphandler.GzipHandler(http.FileServer(http.Dir(s.cfg.Output.Directory))))
	return mux
}

type healthResponse struct {
	Status    string `json:"status"`
	Builds    int64  `json:"builds"`
	LastBuild string `json:"last_build,omitempty"`
	LastError string `json:"last_error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	last, good, err := s.status.get()
	resp := healthResponse{Status: "ok", Builds: s.builds.Load()}
	if !last.IsZero() {
		resp.LastBuild = last.UTC().Format(time.RFC3339)
	}
	code := http.StatusOK
	switch {
	case err != nil:
		resp.Status = "error"
		resp.LastError = err.Error()
		if !good {
			code = http.StatusServiceUnavailable
		}
	case !good:
		resp.Status = "starting"
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}

// Run builds once, starts the HTTP server and watches the content and layout
// directories until ctx is canceled. A failing initial build keeps the server up
// so the next edit can fix it.
func (s *Server) Run(ctx context.Context) error {
	_ = s.Rebuild(ctx)

	ln, err := net.Listen("tcp", s.cfg.Preview.Addr)
	if err != nil {
		return errors.ConfigError("failed to listen for preview").
			WithCause(err).WithContext("addr", s.cfg.Preview.Addr).Build()
	}
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	slog.Info("Preview server listening", logfields.Addr("http://"+ln.Addr().String()))

	w, err := newWatcher(s.watchDirs(), s.cfg.Output.Directory)
	if err != nil {
		_ = srv.Close()
		return err
	}
	defer func() { _ = w.Close() }()

	debounce := time.Duration(s.cfg.Preview.DebounceMS) * time.Millisecond
	rebuildReq, trigger := newDebouncer(debounce)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-rebuildReq:
				slog.Info("Change detected; rebuilding site")
				_ = s.Rebuild(ctx)
			}
		}
	}()

	err = w.Run(ctx, trigger)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	slog.Info("Shutting down preview server")
	if serr := srv.Shutdown(shutdownCtx); serr != nil {
		slog.Warn("Preview server shutdown error", logfields.Error(serr))
	}
	if serr, ok := <-serveErr; ok && serr != nil {
		return errors.WrapError(serr, errors.CategoryInternal, "preview server failed").Build()
	}
	return err
}

func (s *Server) watchDirs() []string {
	dirs := append([]string(nil), s.cfg.Content.Dirs...)
	if s.cfg.Site.LayoutsDir != "" {
		dirs = append(dirs, s.cfg.Site.LayoutsDir)
	}
	return dirs
}
