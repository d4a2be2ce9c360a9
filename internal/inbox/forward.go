package inbox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// Forwarder relays stored submissions to webhook URLs, for example a chat
// integration that should see every new message.
type Forwarder struct {
	urls   []string
	client *http.Client
	logger *log.Logger
}

// NewForwarder returns a Forwarder posting to urls. logger may be nil.
func NewForwarder(urls []string, logger *log.Logger) *Forwarder {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Forwarder{
		urls:   urls,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// Forward posts sub as JSON to every URL. Each URL gets one attempt; the
// returned error joins the failures.
func (f *Forwarder) Forward(ctx context.Context, sub Submission) error {
	payload, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("encoding submission: %w", err)
	}
	var errs []error
	for _, u := range f.urls {
		if err := f.send(ctx, u, payload); err != nil {
			f.logger.Warn("forwarding submission failed", "url", u, "id", sub.ID, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", u, err))
		}
	}
	return errors.Join(errs...)
}

func (f *Forwarder) send(ctx context.Context, url string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
