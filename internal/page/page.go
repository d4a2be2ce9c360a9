// Package page builds the host-page side of the widget: the loader
// snippet that boots the WebAssembly bundle, a demo page around it, and
// static prerenders produced on a surface.Tree.
package page

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/ziadkadry99/qrchat/internal/config"
	"github.com/ziadkadry99/qrchat/internal/surface"
	"github.com/ziadkadry99/qrchat/internal/widget"
)

// Bundle file names expected under the assets base.
const (
	WasmFile     = "qrchat.wasm"
	WasmExecFile = "wasm_exec.js"
)

// DefaultAssetsBase is where the demo server serves the bundle.
const DefaultAssetsBase = "/assets/"

// Options controls the loader snippet.
type Options struct {
	// AssetsBase is the URL prefix of the bundle files. Defaults to DefaultAssetsBase.
	AssetsBase string
	// Reload is a websocket path; pages reload when it sends a message.
	Reload string
}

func (o Options) base() string {
	b := o.AssetsBase
	if b == "" {
		b = DefaultAssetsBase
	}
	if !strings.HasSuffix(b, "/") {
		b += "/"
	}
	return b
}

// LoaderID is the id of the loader script for cfg's instance.
func LoaderID(cfg config.Config) string { return cfg.ElementID("loader") }

// Loader returns the script markup that loads the bundle and mounts the
// widget with cfg.
func Loader(cfg config.Config, opts Options) (string, error) {
	base := opts.base()
	var buf bytes.Buffer
	err := loaderTmpl.Execute(&buf, struct {
		ID      string
		ExecURL string
		WasmURL string
		Config  config.Partial
		Reload  string
	}{
		ID:      LoaderID(cfg),
		ExecURL: base + WasmExecFile,
		WasmURL: base + WasmFile,
		Config:  config.PartialOf(cfg),
		Reload:  opts.Reload,
	})
	if err != nil {
		return "", fmt.Errorf("rendering loader: %w", err)
	}
	return buf.String(), nil
}

// Inject appends the loader snippet to the end of t's body. It reports
// false without touching t when the instance's loader is already present.
func Inject(t *surface.Tree, cfg config.Config, opts Options) (bool, error) {
	if _, ok := t.ElementByID(LoaderID(cfg)); ok {
		return false, nil
	}
	snippet, err := Loader(cfg, opts)
	if err != nil {
		return false, err
	}
	body := t.Node(t.Body())
	nodes, err := html.ParseFragment(strings.NewReader(snippet), body)
	if err != nil {
		return false, fmt.Errorf("parsing loader: %w", err)
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}
	return true, nil
}

// Prerender mounts a static copy of the widget on t. Listeners are bound
// on the tree only, so the markup is inert until the bundle replaces it
// with a live widget. Prerendering over an earlier prerender replaces it.
func Prerender(t *surface.Tree, cfg config.Config, open bool) (*widget.Widget, error) {
	w, err := widget.Mount(context.Background(), t, cfg, widget.Options{
		Opener: widget.OpenerFunc(func(string) error { return nil }),
		Spawn:  func(f func()) { f() },
	})
	if err != nil {
		return nil, err
	}
	w.Handles.Button.SetAttribute(widget.StaticAttr, "")
	w.Handles.Panel.SetAttribute(widget.StaticAttr, "")
	if open {
		w.Controller.Toggle()
	}
	return w, nil
}

// Demo writes a standalone page hosting the widget for cfg.
func Demo(w io.Writer, cfg config.Config, opts Options) error {
	loader, err := Loader(cfg, opts)
	if err != nil {
		return err
	}
	return demoTmpl.Execute(w, struct {
		Title    string
		Number   string
		Mode     config.SubmissionMode
		Endpoint string
		Loader   template.HTML
	}{
		Title:    "qrchat demo",
		Number:   cfg.WhatsAppNumber,
		Mode:     cfg.SubmissionMode,
		Endpoint: cfg.RemoteEndpoint,
		Loader:   template.HTML(loader),
	})
}
