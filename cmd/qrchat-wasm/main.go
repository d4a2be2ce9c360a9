//go:build js && wasm

// Command qrchat-wasm is the browser bundle. It registers
// qrchatMount(config, onNotify) on the global object and then waits for
// calls. config is an object or a JSON string; onNotify, when given,
// receives {kind, message} notices, otherwise window.alert is used.
package main

import (
	"context"
	"errors"
	"os"
	"syscall/js"

	"github.com/charmbracelet/log"

	"github.com/ziadkadry99/qrchat/internal/config"
	"github.com/ziadkadry99/qrchat/internal/surface/dom"
	"github.com/ziadkadry99/qrchat/internal/widget"
)

var errPopupBlocked = errors.New("the browser blocked the new window")

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "qrchat"})

	mountFn := js.FuncOf(func(this js.Value, args []js.Value) any {
		w, err := mount(args, logger)
		if err != nil {
			logger.Error("mount failed", "err", err)
			return map[string]any{"ok": false, "error": err.Error()}
		}
		return map[string]any{"ok": true, "instance": w.Config.InstanceID}
	})
	js.Global().Set("qrchatMount", mountFn)

	select {}
}

func mount(args []js.Value, logger *log.Logger) (*widget.Widget, error) {
	var raw, onNotify js.Value
	if len(args) > 0 {
		raw = args[0]
	}
	if len(args) > 1 {
		onNotify = args[1]
	}

	p, dropped, err := config.ParseJSON([]byte(configJSON(raw)))
	if err != nil {
		logger.Warn("ignoring widget config, using defaults", "err", err)
		p = config.Partial{}
	}
	if len(dropped) > 0 {
		logger.Debug("ignoring malformed config fields", "fields", dropped)
	}
	cfg := config.Resolve(config.Defaults(), p)

	doc, err := dom.New()
	if err != nil {
		return nil, err
	}

	global := js.Global()
	opener := widget.OpenerFunc(func(url string) error {
		if win := global.Call("open", url, "_blank"); !win.Truthy() {
			return errPopupBlocked
		}
		return nil
	})
	notifier := widget.NotifierFunc(func(n widget.Notice) {
		if onNotify.Type() == js.TypeFunction {
			onNotify.Invoke(map[string]any{"kind": string(n.Kind), "message": n.Message})
			return
		}
		global.Call("alert", n.Message)
	})

	return widget.Mount(context.Background(), doc, cfg, widget.Options{
		Notifier: notifier,
		Opener:   opener,
		Logger:   logger,
	})
}

// configJSON accepts a JSON string or a plain object.
func configJSON(v js.Value) string {
	switch v.Type() {
	case js.TypeUndefined, js.TypeNull:
		return ""
	case js.TypeString:
		return v.String()
	default:
		return js.Global().Get("JSON").Call("stringify", v).String()
	}
}
