package widget

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ziadkadry99/qrchat/internal/config"
	"github.com/ziadkadry99/qrchat/internal/links"
	"github.com/ziadkadry99/qrchat/internal/style"
	"github.com/ziadkadry99/qrchat/internal/surface"
)

type recordingOpener struct {
	urls []string
	err  error
}

func (o *recordingOpener) Open(u string) error {
	o.urls = append(o.urls, u)
	return o.err
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []Notice
}

func (n *recordingNotifier) Notify(notice Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
}

func (n *recordingNotifier) kinds() []NoticeKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	var kinds []NoticeKind
	for _, notice := range n.notices {
		kinds = append(kinds, notice.Kind)
	}
	return kinds
}

// inline runs submissions synchronously so tests can assert right after Dispatch.
func inline(f func()) { f() }

type fixture struct {
	tree     *surface.Tree
	widget   *Widget
	opener   *recordingOpener
	notifier *recordingNotifier
}

func mountFixture(t *testing.T, cfg config.Config) *fixture {
	t.Helper()
	f := &fixture{
		tree:     surface.NewTree(),
		opener:   &recordingOpener{},
		notifier: &recordingNotifier{},
	}
	w, err := Mount(context.Background(), f.tree, cfg, Options{
		Notifier: f.notifier,
		Opener:   f.opener,
		Spawn:    inline,
	})
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	f.widget = w
	return f
}

func (f *fixture) fill(message, name, email string) {
	h := f.widget.Handles
	h.Message.SetValue(message)
	h.Name.SetValue(name)
	h.Email.SetValue(email)
}

func (f *fixture) values() [3]string {
	h := f.widget.Handles
	return [3]string{h.Message.Value(), h.Name.Value(), h.Email.Value()}
}

func (f *fixture) clickSubmit() { f.tree.Dispatch(f.widget.Handles.Submit, "click") }

func remoteConfig(endpoint string) config.Config {
	mode := config.ModeRemote
	return config.Resolve(config.Defaults(), config.Partial{
		SubmissionMode: &mode,
		RemoteEndpoint: &endpoint,
	})
}

func TestTogglePanelParity(t *testing.T) {
	f := mountFixture(t, config.Defaults())
	h := f.widget.Handles

	if f.widget.Controller.Panel() != PanelHidden {
		t.Fatal("panel should start hidden")
	}
	for n := 1; n <= 7; n++ {
		f.tree.Dispatch(h.Button, "click")
		visible := f.widget.Controller.Panel() == PanelVisible
		if visible != (n%2 == 1) {
			t.Errorf("after %d clicks visible = %v", n, visible)
		}
		class, _ := h.Panel.Attribute("class")
		if (class == style.OpenClass) != visible {
			t.Errorf("after %d clicks panel class = %q", n, class)
		}
		expanded, _ := h.Button.Attribute("aria-expanded")
		if (expanded == "true") != visible {
			t.Errorf("after %d clicks aria-expanded = %q", n, expanded)
		}
	}
}

func TestSubmitValidationFailure(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	for _, cfg := range []config.Config{config.Defaults(), remoteConfig(srv.URL)} {
		f := mountFixture(t, cfg)
		f.fill("hi", "", "a@b.com")

		err := f.widget.Controller.Submit(context.Background())
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: err = %v, want ErrValidation", cfg.SubmissionMode, err)
		}
		var verr *ValidationError
		if !errors.As(err, &verr) || strings.Join(verr.Missing, ",") != "name" {
			t.Errorf("%s: missing = %v", cfg.SubmissionMode, verr)
		}
		if len(f.opener.urls) != 0 {
			t.Errorf("%s: opened %v", cfg.SubmissionMode, f.opener.urls)
		}
		if got := f.notifier.kinds(); len(got) != 1 || got[0] != NoticeValidation {
			t.Errorf("%s: notices = %v", cfg.SubmissionMode, got)
		}
		if f.values() != [3]string{"hi", "", "a@b.com"} {
			t.Errorf("%s: fields changed: %v", cfg.SubmissionMode, f.values())
		}
	}
	if hits.Load() != 0 {
		t.Errorf("server received %d requests", hits.Load())
	}
}

func TestSubmitWhitespaceOnlyIsEmpty(t *testing.T) {
	f := mountFixture(t, config.Defaults())
	f.fill("   ", "\tAna ", " ana@example.com")
	if err := f.widget.Controller.Submit(context.Background()); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestSubmitDeepLink(t *testing.T) {
	cfg := config.Defaults()
	cfg.WhatsAppNumber = "15551234567"
	f := mountFixture(t, cfg)
	f.fill("  ¿Tienen envíos?  ", "Ana", "ana@example.com")

	f.clickSubmit()

	if len(f.opener.urls) != 1 {
		t.Fatalf("opened %d URLs, want 1", len(f.opener.urls))
	}
	u := f.opener.urls[0]
	if !strings.HasPrefix(u, "https://wa.me/15551234567?text=") {
		t.Errorf("url = %q", u)
	}
	want := links.DeepLinkURL(cfg, links.ContactMessage("Ana", "ana@example.com", "¿Tienen envíos?"))
	if u != want {
		t.Errorf("url = %q, want %q", u, want)
	}
	if got := f.notifier.kinds(); len(got) != 1 || got[0] != NoticeSuccess {
		t.Errorf("notices = %v", got)
	}
	if f.values() != [3]string{} {
		t.Errorf("fields not cleared: %v", f.values())
	}
}

func TestSubmitDeepLinkOpenFailure(t *testing.T) {
	f := mountFixture(t, config.Defaults())
	f.opener.err = errors.New("popup blocked")
	f.fill("hi", "Ana", "ana@example.com")

	err := f.widget.Controller.Submit(context.Background())
	var serr *SubmissionError
	if !errors.As(err, &serr) {
		t.Fatalf("err = %v, want SubmissionError", err)
	}
	if f.values() != [3]string{"hi", "Ana", "ana@example.com"} {
		t.Errorf("fields should be preserved: %v", f.values())
	}
	if got := f.notifier.kinds(); len(got) != 1 || got[0] != NoticeFailure {
		t.Errorf("notices = %v", got)
	}
}

func TestSubmitRemoteSuccess(t *testing.T) {
	var got Form
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		contentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := mountFixture(t, remoteConfig(srv.URL))
	f.fill("hello", "Ana", "ana@example.com")
	f.clickSubmit()

	if contentType != "application/json" {
		t.Errorf("content type = %q", contentType)
	}
	if got != (Form{Message: "hello", Name: "Ana", Email: "ana@example.com"}) {
		t.Errorf("posted form = %+v", got)
	}
	if f.values() != [3]string{} {
		t.Errorf("fields not cleared: %v", f.values())
	}
	if kinds := f.notifier.kinds(); len(kinds) != 1 || kinds[0] != NoticeSuccess {
		t.Errorf("notices = %v", kinds)
	}
	if len(f.opener.urls) != 0 {
		t.Errorf("remote mode opened %v", f.opener.urls)
	}
	if _, ok := f.widget.Handles.Submit.Attribute("disabled"); ok {
		t.Error("submit control should be re-enabled")
	}
}

func TestSubmitRemoteFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := mountFixture(t, remoteConfig(srv.URL))
	f.fill("hello", "Ana", "ana@example.com")

	err := f.widget.Controller.Submit(context.Background())
	var serr *SubmissionError
	if !errors.As(err, &serr) || serr.Status != http.StatusInternalServerError {
		t.Fatalf("err = %v, want status 500", err)
	}
	if f.values() != [3]string{"hello", "Ana", "ana@example.com"} {
		t.Errorf("fields should be preserved: %v", f.values())
	}
	if kinds := f.notifier.kinds(); len(kinds) != 1 || kinds[0] != NoticeFailure {
		t.Errorf("notices = %v", kinds)
	}
	if f.widget.Controller.State() != Idle {
		t.Error("controller should return to idle")
	}
}

func TestSubmitRemoteNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	f := mountFixture(t, remoteConfig(endpoint))
	f.fill("hello", "Ana", "ana@example.com")

	err := f.widget.Controller.Submit(context.Background())
	var serr *SubmissionError
	if !errors.As(err, &serr) || serr.Status != 0 || serr.Err == nil {
		t.Fatalf("err = %v, want transport SubmissionError", err)
	}
	if f.values() != [3]string{"hello", "Ana", "ana@example.com"} {
		t.Errorf("fields should be preserved: %v", f.values())
	}
}

// blockingSubmitter holds every submission until release is closed.
type blockingSubmitter struct {
	started chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (b *blockingSubmitter) Submit(ctx context.Context, f Form) (string, error) {
	b.calls.Add(1)
	b.started <- struct{}{}
	<-b.release
	return "sent", nil
}

func TestSubmitRejectsConcurrentSubmission(t *testing.T) {
	sub := &blockingSubmitter{started: make(chan struct{}, 1), release: make(chan struct{})}
	tr := surface.NewTree()
	notifier := &recordingNotifier{}
	w, err := Mount(context.Background(), tr, config.Defaults(), Options{
		Submitter: sub,
		Notifier:  notifier,
	})
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	w.Handles.Message.SetValue("hello")
	w.Handles.Name.SetValue("Ana")
	w.Handles.Email.SetValue("ana@example.com")

	done := make(chan error, 1)
	go func() { done <- w.Controller.Submit(context.Background()) }()
	<-sub.started

	if w.Controller.State() != Submitting {
		t.Errorf("state = %v, want submitting", w.Controller.State())
	}
	if _, ok := w.Handles.Submit.Attribute("disabled"); !ok {
		t.Error("submit control should be disabled while submitting")
	}
	if err := w.Controller.Submit(context.Background()); !errors.Is(err, ErrSubmitting) {
		t.Errorf("second submit err = %v, want ErrSubmitting", err)
	}

	close(sub.release)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if sub.calls.Load() != 1 {
		t.Errorf("submitter called %d times, want 1", sub.calls.Load())
	}
	if w.Controller.State() != Idle {
		t.Error("state should be idle after completion")
	}
	if kinds := notifier.kinds(); len(kinds) != 1 || kinds[0] != NoticeSuccess {
		t.Errorf("notices = %v", kinds)
	}
}

func TestMountTwice(t *testing.T) {
	f := mountFixture(t, config.Defaults())
	before := f.tree.String()

	_, err := Mount(context.Background(), f.tree, config.Defaults(), Options{Opener: f.opener})
	if !errors.Is(err, ErrAlreadyMounted) {
		t.Fatalf("err = %v, want ErrAlreadyMounted", err)
	}
	if f.tree.String() != before {
		t.Error("second Mount modified the surface")
	}
}

func TestMountReplacesStaticMarkup(t *testing.T) {
	f := mountFixture(t, config.Defaults())
	f.widget.Handles.Button.SetAttribute(StaticAttr, "")
	f.widget.Handles.Panel.SetAttribute(StaticAttr, "")

	live := config.Defaults()
	live.Colors.ButtonBackground = "#128C7E"
	w, err := Mount(context.Background(), f.tree, live, Options{Opener: f.opener, Spawn: inline})
	if err != nil {
		t.Fatalf("Mount over static markup: %v", err)
	}
	if got := strings.Count(f.tree.String(), `id="qrchat-button"`); got != 1 {
		t.Errorf("%d buttons after replacement, want 1", got)
	}
	if got := strings.Count(f.tree.String(), `id="qrchat-style"`); got != 1 {
		t.Errorf("%d stylesheets after replacement, want 1", got)
	}
	if !strings.Contains(f.tree.String(), "#128C7E") {
		t.Error("stylesheet should follow the live config")
	}
	if _, static := w.Handles.Button.Attribute(StaticAttr); static {
		t.Error("live button should not carry the static marker")
	}
	f.tree.Dispatch(w.Handles.Button, "click")
	if w.Controller.Panel() != PanelVisible {
		t.Error("replacement widget should be interactive")
	}
}

func TestMountInjectsStyle(t *testing.T) {
	f := mountFixture(t, config.Defaults())
	el, ok := f.tree.ElementByID("qrchat-style")
	if !ok {
		t.Fatal("stylesheet not injected")
	}
	if !strings.Contains(f.tree.TextOf(el), "#qrchat-button") {
		t.Error("stylesheet content missing selectors")
	}
}

func TestMountRejectsBadConfigWithoutRendering(t *testing.T) {
	tr := surface.NewTree()
	cfg := config.Defaults()
	cfg.Colors.ButtonBackground = "red;}"
	before := tr.String()

	if _, err := Mount(context.Background(), tr, cfg, Options{Opener: &recordingOpener{}}); err == nil {
		t.Fatal("expected error")
	}
	if tr.String() != before {
		t.Error("failed Mount modified the surface")
	}

	if _, err := Mount(context.Background(), tr, config.Defaults(), Options{}); err == nil {
		t.Error("deeplink mode without an opener should fail")
	}
	if tr.String() != before {
		t.Error("failed Mount modified the surface")
	}
}

func TestNewSubmitter(t *testing.T) {
	if _, ok := NewSubmitter(config.Defaults(), nil, nil).(*DeepLinkSubmitter); !ok {
		t.Error("deeplink mode should use DeepLinkSubmitter")
	}
	cfg := remoteConfig("https://example.com/contact")
	r, ok := NewSubmitter(cfg, nil, nil).(*RemoteSubmitter)
	if !ok {
		t.Fatal("remote mode should use RemoteSubmitter")
	}
	if r.Endpoint != "https://example.com/contact" {
		t.Errorf("endpoint = %q", r.Endpoint)
	}
}
