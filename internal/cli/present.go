package cli

import (
	"context"
	"errors"
	"strings"

	"deck-cli/internal/config"
	"deck-cli/internal/deck"
	"deck-cli/internal/dom"
	"deck-cli/internal/location"
	"deck-cli/internal/plugin/builtin"
	"deck-cli/internal/remote"
	"deck-cli/internal/sched"
	"deck-cli/internal/session"
	"deck-cli/internal/tui"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const containerID = "deck"

// presentation is a started engine and everything it was wired to.
type presentation struct {
	cfg    *config.Config
	log    *logrus.Logger
	loop   *sched.Loop
	loc    *location.Memory
	engine *deck.Engine

	closers []func()
}

func (p *presentation) Close() {
	for i := len(p.closers) - 1; i >= 0; i-- {
		p.closers[i]()
	}
	p.closers = nil
}

// startPresentation loads config, opens the session store and starts the engine on a fresh
// document. It runs on the goroutine that later drives the UI.
func startPresentation(ctx context.Context, app *App, path string) (*presentation, error) {
	cfg, err := app.loadConfig()
	if err != nil {
		return nil, err
	}
	path, hash := splitHash(path)
	if strings.TrimSpace(path) != "" {
		cfg.ContentPath = path
		cfg.Content = ""
	}
	if strings.TrimSpace(cfg.Content) == "" && strings.TrimSpace(cfg.ContentPath) == "" {
		return nil, errNoDeck()
	}

	log, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	p := &presentation{cfg: cfg, log: log, closers: []func(){closeLog}}

	opts, err := cfg.EngineOptions()
	if err != nil {
		p.Close()
		return nil, err
	}

	p.loop = sched.NewLoop()
	p.closers = append(p.closers, p.loop.Close)

	doc := dom.NewDocument(p.loop.Now)
	container := doc.CreateElement("div")
	container.SetID(containerID)
	doc.Body().AppendChild(container)
	p.loc = location.NewMemory(hash)

	store, err := session.Open(ctx, cfg.Session.Backend, cfg.Session.Path)
	if err != nil {
		// Resuming is a convenience; present anyway.
		log.WithError(err).WithField("backend", cfg.Session.Backend).Warn("open session store")
		store = nil
	}
	if store != nil {
		p.closers = append(p.closers, func() {
			if err := store.Close(); err != nil {
				log.WithError(err).Warn("close session store")
			}
		})
	}
	source := cfg.ContentPath
	if source == "" {
		source = "inline:" + cfg.Content
	}

	opts.Document = doc
	opts.ContainerID = containerID
	opts.Scheduler = p.loop
	opts.Location = p.loc
	opts.Session = session.NewHandle(ctx, store, session.Key(source), log)
	opts.Logger = log
	opts.Registry = builtin.Registry()

	eng, err := deck.New(opts)
	if err != nil {
		p.Close()
		return nil, err
	}
	if err := eng.Start(ctx); err != nil {
		p.Close()
		return nil, err
	}
	p.engine = eng
	// Destroy runs before the loop closes.
	p.closers = append(p.closers, eng.Destroy)
	return p, nil
}

// splitHash separates a trailing slide fragment: "talk.md#3" starts at the third slide.
func splitHash(path string) (string, string) {
	i := strings.LastIndex(path, "#")
	if i <= 0 {
		return path, ""
	}
	if _, ok := deck.ParseHash(path[i:]); !ok {
		return path, ""
	}
	return path[:i], path[i:]
}

func (p *presentation) tuiOptions() tui.Options {
	return tui.Options{
		Engine:   p.engine,
		Tasks:    p.loop.Tasks(),
		Done:     p.loop.Done(),
		Location: p.loc,
		Logger:   p.log,
	}
}

// present runs the terminal view, plus the remote when addr is set.
func present(cmd *cobra.Command, app *App, path, addr string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	p, err := startPresentation(ctx, app, path)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer p.Close()

	if strings.TrimSpace(addr) == "" {
		return tui.Run(ctx, p.tuiOptions())
	}

	srv, err := remote.NewServer(remote.ServerConfig{Addr: addr}, p.engine, p.loop, p.log)
	if err != nil {
		return writeErr(cmd, err)
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srvErr := make(chan error, 1)
	go func() { srvErr <- srv.ListenAndServe(ctx) }()

	tuiErr := tui.Run(ctx, p.tuiOptions())
	cancel()
	if err := <-srvErr; err != nil && !errors.Is(err, context.Canceled) {
		p.log.WithError(err).Error("remote server")
		if tuiErr == nil {
			return writeErr(cmd, err)
		}
	}
	return tuiErr
}
