package widget

import (
	"context"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/ziadkadry99/qrchat/internal/style"
)

// Controller drives the two interactions: toggling the panel and
// submitting the form. It is safe for concurrent use; a submission may
// complete on a different goroutine than the click that started it.
type Controller struct {
	h         Handles
	submitter Submitter
	notifier  Notifier
	logger    *log.Logger

	mu     sync.Mutex
	panel  PanelState
	submit SubmitState
}

// NewController returns a controller for rendered handles. The panel is
// assumed hidden, as Render leaves it.
func NewController(h Handles, submitter Submitter, notifier Notifier, logger *log.Logger) *Controller {
	return &Controller{
		h:         h,
		submitter: submitter,
		notifier:  notifier,
		logger:    logger,
	}
}

// Toggle flips panel visibility unconditionally and returns the new state.
func (c *Controller) Toggle() PanelState {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.panel == PanelHidden {
		c.panel = PanelVisible
		c.h.Panel.SetAttribute("class", style.OpenClass)
		c.h.Button.SetAttribute("aria-expanded", "true")
	} else {
		c.panel = PanelHidden
		c.h.Panel.RemoveAttribute("class")
		c.h.Button.SetAttribute("aria-expanded", "false")
	}
	c.logger.Debug("panel toggled", "state", c.panel)
	return c.panel
}

// Panel returns the current panel state.
func (c *Controller) Panel() PanelState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.panel
}

// State returns the current submission state.
func (c *Controller) State() SubmitState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submit
}

// Submit validates the form and hands it to the submitter. Empty fields
// produce a validation notice and a *ValidationError without any
// delivery. While a submission is in flight the submit control is
// disabled and further calls return ErrSubmitting. On success the fields
// are cleared; on failure they are kept so the user can retry.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.submit == Submitting {
		c.mu.Unlock()
		return ErrSubmitting
	}
	f := Form{
		Message: strings.TrimSpace(c.h.Message.Value()),
		Name:    strings.TrimSpace(c.h.Name.Value()),
		Email:   strings.TrimSpace(c.h.Email.Value()),
	}
	if missing := f.Missing(); len(missing) > 0 {
		c.mu.Unlock()
		c.logger.Debug("submit rejected", "missing", missing)
		c.notifier.Notify(Notice{Kind: NoticeValidation, Message: msgValidation})
		return &ValidationError{Missing: missing}
	}
	c.submit = Submitting
	c.h.Submit.SetAttribute("disabled", "")
	c.mu.Unlock()

	ack, err := c.submitter.Submit(ctx, f)

	c.mu.Lock()
	c.submit = Idle
	c.h.Submit.RemoveAttribute("disabled")
	if err == nil {
		c.h.Message.SetValue("")
		c.h.Name.SetValue("")
		c.h.Email.SetValue("")
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("submission failed", "err", err)
		c.notifier.Notify(Notice{Kind: NoticeFailure, Message: msgFailure})
		return err
	}
	c.logger.Debug("submission delivered")
	c.notifier.Notify(Notice{Kind: NoticeSuccess, Message: ack})
	return nil
}
