// Package remote is the presenter remote: an HTTP page and a websocket that mirror deck
// events and send navigation commands back to the engine.
package remote

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"sync"
	"time"

	"deck-cli/internal/model"
	"deck-cli/internal/sched"

	"github.com/CAFxX/httpcompression"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var assetsFS embed.FS

// Controller is the engine surface the remote drives. Every call happens on the scheduler's
// goroutine.
type Controller interface {
	GoToSlide(i int)
	NextSlide()
	PreviousSlide()
	ToggleOverview()
	CurrentSlide() int
	TotalSlides() int
	Slides() []model.Slide
	On(event string, fn model.Listener)
}

const (
	ActionNext     = "next"
	ActionPrev     = "prev"
	ActionGoto     = "goto"
	ActionOverview = "overview"
)

// Command is what remotes send: {"action":"goto","index":2}. Index is 0-based.
type Command struct {
	Action string `json:"action"`
	Index  *int   `json:"index,omitempty"`
}

func (c Command) validate() error {
	switch c.Action {
	case ActionNext, ActionPrev, ActionOverview:
		return nil
	case ActionGoto:
		if c.Index == nil {
			return errors.New("goto requires index")
		}
		return nil
	default:
		return fmt.Errorf("unknown action %q", c.Action)
	}
}

type errorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

type slideSummary struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// DeckSummary is the body of GET /api/deck.
type DeckSummary struct {
	CurrentSlide int            `json:"currentSlide"`
	TotalSlides  int            `json:"totalSlides"`
	Slides       []slideSummary `json:"slides"`
}

type ServerConfig struct {
	Addr string
	// AllowedOrigins enables CORS on the JSON API for other origins.
	AllowedOrigins []string
}

type Server struct {
	cfg   ServerConfig
	ctrl  Controller
	sched sched.Scheduler
	log   logrus.FieldLogger
	hub   *Hub
	tmpl  *template.Template
	// compress wraps the page and the JSON API; /ws stays unwrapped for the upgrade.
	compress func(http.Handler) http.Handler

	mu   sync.RWMutex
	snap DeckSummary
}

// NewServer must be called on the scheduler's goroutine, after the engine started: it reads
// the initial state and subscribes to engine events.
func NewServer(cfg ServerConfig, ctrl Controller, s sched.Scheduler, log logrus.FieldLogger) (*Server, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("remote: missing addr")
	}
	if ctrl == nil || s == nil {
		return nil, errors.New("remote: missing controller or scheduler")
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(discardWriter{})
		log = l
	}
	tmpl, err := template.ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	compress, err := httpcompression.DefaultAdapter()
	if err != nil {
		return nil, fmt.Errorf("remote: compression: %w", err)
	}
	srv := &Server{cfg: cfg, ctrl: ctrl, sched: s, log: log.WithField("component", "remote"), tmpl: tmpl, compress: compress}
	srv.hub = NewHub(srv.log, srv.welcome, srv.Dispatch)

	slides := ctrl.Slides()
	summaries := make([]slideSummary, len(slides))
	for i, sl := range slides {
		summaries[i] = slideSummary{ID: sl.ID, Content: sl.Content}
	}
	srv.snap = DeckSummary{CurrentSlide: ctrl.CurrentSlide(), TotalSlides: ctrl.TotalSlides(), Slides: summaries}

	ctrl.On(model.EventReady, srv.observe)
	ctrl.On(model.EventSlideChange, srv.observe)
	return srv, nil
}

func (s *Server) Addr() string { return strings.TrimSpace(s.cfg.Addr) }

func (s *Server) Hub() *Hub { return s.hub }

// Snapshot returns the last state seen from the engine.
func (s *Server) Snapshot() DeckSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.snap
	out.Slides = append([]slideSummary(nil), s.snap.Slides...)
	return out
}

func (s *Server) observe(ev model.Event) {
	s.mu.Lock()
	s.snap.CurrentSlide = ev.CurrentSlide
	s.snap.TotalSlides = ev.TotalSlides
	s.mu.Unlock()
	s.hub.Broadcast(ev)
}

func (s *Server) welcome() []byte {
	snap := s.Snapshot()
	b, err := json.Marshal(model.Event{Type: model.EventReady, CurrentSlide: snap.CurrentSlide, TotalSlides: snap.TotalSlides})
	if err != nil {
		return nil
	}
	return b
}

// Dispatch validates cmd and posts it to the scheduler. It is safe from any goroutine.
func (s *Server) Dispatch(cmd Command) error {
	cmd.Action = strings.ToLower(strings.TrimSpace(cmd.Action))
	if err := cmd.validate(); err != nil {
		return err
	}
	s.log.WithField("action", cmd.Action).Debug("remote command")
	s.sched.Post(func() {
		switch cmd.Action {
		case ActionNext:
			s.ctrl.NextSlide()
		case ActionPrev:
			s.ctrl.PreviousSlide()
		case ActionOverview:
			s.ctrl.ToggleOverview()
		case ActionGoto:
			// Out-of-range indices are dropped by the engine.
			s.ctrl.GoToSlide(*cmd.Index)
		}
	})
	return nil
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	if len(s.cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/ws", s.hub.ServeWS)
	r.Group(func(r chi.Router) {
		r.Use(s.compress)
		r.Get("/", s.handleIndex)
		r.Route("/api", func(r chi.Router) {
			r.Get("/deck", s.handleDeck)
			r.Post("/command", s.handleCommand)
		})
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   ww.Status(),
			"duration": time.Since(start),
			"req_id":   middleware.GetReqID(r.Context()),
		}).Debug("http request")
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "remote.html", s.Snapshot()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleDeck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var cmd Command
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMessageSize))
	if err := dec.Decode(&cmd); err != nil {
		writeJSON(w, http.StatusBadRequest, errorMessage{Type: "error", Error: "invalid command: " + err.Error()})
		return
	}
	if err := s.Dispatch(cmd); err != nil {
		writeJSON(w, http.StatusBadRequest, errorMessage{Type: "error", Error: err.Error()})
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// ListenAndServe runs the hub and the HTTP server until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.hub.Run(ctx)

	httpSrv := &http.Server{
		Addr:              s.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()
	s.log.WithField("addr", s.Addr()).Info("remote listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		return httpSrv.Shutdown(shutdownCtx)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
