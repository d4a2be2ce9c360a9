package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/qrchat/internal/config"
	"github.com/ziadkadry99/qrchat/internal/inbox"
	"github.com/ziadkadry99/qrchat/internal/page"
	"github.com/ziadkadry99/qrchat/internal/surface"
)

// ReloadPath is the websocket endpoint pages listen on for reloads.
const ReloadPath = "/ws/reload"

const shutdownTimeout = 5 * time.Second

// Config holds server configuration.
type Config struct {
	Port      int
	AssetsDir string   // directory holding qrchat.wasm and wasm_exec.js
	AllowAll  bool     // allow all CORS origins
	Reload    bool     // tell demo pages to listen for reloads
	Forward   []string // webhook URLs that receive every inbox submission
	// InboxToken guards the inbox read routes. Empty disables them.
	InboxToken string
}

// Server hosts the demo page, the server-side preview and, when a store is
// configured, the contact inbox.
type Server struct {
	cfg    Config
	inbox  *inbox.Store
	logger *log.Logger
	hub    *Hub

	mu     sync.RWMutex
	widget config.Config

	router     chi.Router
	httpServer *http.Server
}

// New creates a server for widgetCfg. store may be nil to disable the inbox.
func New(cfg Config, widgetCfg config.Config, store *inbox.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		cfg:    cfg,
		inbox:  store,
		logger: logger,
		hub:    NewHub(logger),
		widget: widgetCfg,
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Widgets on other sites post to the inbox, so the API is cross-origin.
	// Authorization is not an allowed header, so cross-origin scripts can
	// never present the inbox token.
	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// The reload socket is long-lived and stays outside the timeout.
	r.Get(ReloadPath, s.hub.ServeHTTP)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})
		r.Get("/", s.handleDemo)
		r.Get("/preview", s.handlePreview)
		r.Get("/config.json", s.handleConfig)

		if s.cfg.AssetsDir != "" {
			fs := http.StripPrefix(page.DefaultAssetsBase, http.FileServer(http.Dir(s.cfg.AssetsDir)))
			r.Get(page.DefaultAssetsBase+"*", fs.ServeHTTP)
		}
		if s.inbox != nil {
			var fwd *inbox.Forwarder
			if len(s.cfg.Forward) > 0 {
				fwd = inbox.NewForwarder(s.cfg.Forward, s.logger)
			}
			inbox.RegisterRoutes(r, s.inbox, fwd, s.cfg.InboxToken)
		}
	})

	return r
}

func (s *Server) pageOptions() page.Options {
	opts := page.Options{AssetsBase: page.DefaultAssetsBase}
	if s.cfg.Reload {
		opts.Reload = ReloadPath
	}
	return opts
}

func (s *Server) handleDemo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Demo(w, s.WidgetConfig(), s.pageOptions()); err != nil {
		s.logger.Error("rendering demo page", "err", err)
		http.Error(w, "rendering failed", http.StatusInternalServerError)
	}
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	t := surface.NewTree()
	if _, err := page.Prerender(t, s.WidgetConfig(), r.URL.Query().Get("closed") == ""); err != nil {
		s.logger.Error("prerendering widget", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.Render(w); err != nil {
		s.logger.Error("writing preview", "err", err)
	}
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(config.PartialOf(s.WidgetConfig()))
}

// WidgetConfig returns the configuration pages are currently served with.
func (s *Server) WidgetConfig() config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.widget
}

// SetWidgetConfig replaces the served configuration and tells connected
// pages to reload. Reloading re-runs the whole widget setup, which is how
// a configuration change reaches a page.
func (s *Server) SetWidgetConfig(cfg config.Config) {
	s.mu.Lock()
	s.widget = cfg
	s.mu.Unlock()
	n := s.hub.Broadcast("reload")
	s.logger.Info("configuration reloaded", "pages", n)
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Hub returns the reload hub.
func (s *Server) Hub() *Hub { return s.hub }

// Run listens on the configured port and serves until ctx is done. It
// returns once the graceful shutdown has finished, so the caller may
// close the inbox database afterwards.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- s.httpServer.Serve(ln) }()
	s.logger.Info("qrchat server listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := s.Shutdown(shutdownCtx)
	if serveErr := <-errCh; !errors.Is(serveErr, http.ErrServerClosed) && err == nil {
		err = serveErr
	}
	return err
}

// Shutdown gracefully shuts down the server and closes reload sockets.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
