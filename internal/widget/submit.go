package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ziadkadry99/qrchat/internal/config"
	"github.com/ziadkadry99/qrchat/internal/links"
)

// Submitter delivers a validated form. On success it returns the
// acknowledgment to show the user.
type Submitter interface {
	Submit(ctx context.Context, f Form) (string, error)
}

// Opener opens a URL in a new browsing context.
type Opener interface {
	Open(url string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(url string) error

// Open implements Opener.
func (f OpenerFunc) Open(url string) error { return f(url) }

// DeepLinkSubmitter sends the form as a prefilled WhatsApp message. No
// response is awaited; a successful Open counts as delivered.
type DeepLinkSubmitter struct {
	Config config.Config
	Opener Opener
}

// Submit implements Submitter.
func (d *DeepLinkSubmitter) Submit(_ context.Context, f Form) (string, error) {
	if d.Opener == nil {
		return "", &SubmissionError{Err: errors.New("no opener configured")}
	}
	u := links.DeepLinkURL(d.Config, links.ContactMessage(f.Name, f.Email, f.Message))
	if err := d.Opener.Open(u); err != nil {
		return "", &SubmissionError{Err: fmt.Errorf("opening deep link: %w", err)}
	}
	return msgOpened, nil
}

// RemoteSubmitter posts the form as JSON to Endpoint. Any 2xx status is
// success; the response body is not read. A zero Timeout waits as long
// as ctx allows.
type RemoteSubmitter struct {
	Endpoint string
	Client   *http.Client
	Timeout  time.Duration
}

// Submit implements Submitter.
func (r *RemoteSubmitter) Submit(ctx context.Context, f Form) (string, error) {
	body, err := json.Marshal(f)
	if err != nil {
		return "", &SubmissionError{Err: fmt.Errorf("encoding form: %w", err)}
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &SubmissionError{Err: fmt.Errorf("building request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", &SubmissionError{Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &SubmissionError{Status: resp.StatusCode}
	}
	return msgSuccess, nil
}

// NewSubmitter returns the strategy selected by cfg.SubmissionMode.
func NewSubmitter(cfg config.Config, opener Opener, client *http.Client) Submitter {
	if cfg.SubmissionMode == config.ModeRemote {
		return &RemoteSubmitter{Endpoint: cfg.RemoteEndpoint, Client: client, Timeout: cfg.RemoteTimeout}
	}
	return &DeepLinkSubmitter{Config: cfg, Opener: opener}
}
