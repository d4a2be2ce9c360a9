// Package widget renders the floating contact button and its panel on a
// surface and wires the toggle and submit interactions.
package widget

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/ziadkadry99/qrchat/internal/config"
	"github.com/ziadkadry99/qrchat/internal/style"
	"github.com/ziadkadry99/qrchat/internal/surface"
)

// Options are the host capabilities a widget needs.
type Options struct {
	// Notifier shows notices; defaults to logging them.
	Notifier Notifier
	// Opener opens deep links. Required in deeplink mode unless Submitter is set.
	Opener Opener
	// Client is used for remote submissions; defaults to http.DefaultClient.
	Client *http.Client
	// Submitter overrides the strategy derived from the submission mode.
	Submitter Submitter
	// Logger defaults to discarding output.
	Logger *log.Logger
	// Spawn runs a submission off the event turn; defaults to a goroutine.
	// Event handlers must return promptly in the browser, and a remote
	// submission blocks until the response arrives.
	Spawn func(func())
}

// StaticAttr marks prerendered markup that has no live listeners. Mount
// replaces marked markup instead of failing with ErrAlreadyMounted.
const StaticAttr = "data-qrchat-static"

// Widget is a mounted widget instance.
type Widget struct {
	Config     config.Config
	Handles    Handles
	Controller *Controller
}

// Mount injects the stylesheet, renders the widget and binds its
// listeners. cfg should come from config.Resolve. Every check runs before
// the surface is modified, so an error leaves nothing half-rendered.
func Mount(ctx context.Context, s surface.Surface, cfg config.Config, opts Options) (*Widget, error) {
	if s == nil {
		return nil, errors.New("widget: no surface")
	}
	var stale []surface.Element
	if btn, ok := s.ElementByID(cfg.ElementID("button")); ok {
		if _, static := btn.Attribute(StaticAttr); !static {
			return nil, ErrAlreadyMounted
		}
		stale = append(stale, btn)
		// The prerendered stylesheet may come from an older config.
		for _, part := range []string{"panel", "style"} {
			if el, ok := s.ElementByID(cfg.ElementID(part)); ok {
				stale = append(stale, el)
			}
		}
	}

	css, err := style.Synthesize(cfg)
	if err != nil {
		return nil, fmt.Errorf("widget: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	logger = logger.With("instance", cfg.InstanceID)

	submitter := opts.Submitter
	if submitter == nil {
		if cfg.SubmissionMode != config.ModeRemote && opts.Opener == nil {
			return nil, errors.New("widget: deeplink mode requires an Opener")
		}
		submitter = NewSubmitter(cfg, opts.Opener, opts.Client)
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = logNotifier{logger: logger}
	}
	spawn := opts.Spawn
	if spawn == nil {
		spawn = func(f func()) { go f() }
	}

	for _, el := range stale {
		el.Remove()
	}
	if len(stale) > 0 {
		logger.Debug("replacing prerendered markup")
	}

	style.InjectOnce(s, cfg, css)
	h, err := Render(s, cfg)
	if err != nil {
		return nil, err
	}

	c := NewController(h, submitter, notifier, logger)
	h.Button.AddEventListener("click", func() { c.Toggle() })
	h.Submit.AddEventListener("click", func() {
		spawn(func() {
			if err := c.Submit(ctx); errors.Is(err, ErrSubmitting) {
				logger.Debug("ignored click while submitting")
			}
		})
	})

	logger.Debug("widget mounted", "mode", cfg.SubmissionMode, "number", cfg.WhatsAppNumber)
	return &Widget{Config: cfg, Handles: h, Controller: c}, nil
}
