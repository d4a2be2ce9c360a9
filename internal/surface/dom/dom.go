//go:build js && wasm

// Package dom implements surface.Surface on the live browser document
// through syscall/js.
package dom

import (
	"errors"
	"syscall/js"

	"github.com/ziadkadry99/qrchat/internal/surface"
)

// ErrNoDocument is returned when the global object has no document, for
// example inside a worker.
var ErrNoDocument = errors.New("dom: no document available")

// Document is the browser document as a Surface.
type Document struct {
	doc js.Value
	// funcs keeps js.Func values alive for as long as the page lives.
	funcs []js.Func
}

// New returns the global document. It fails instead of returning a
// Surface that would panic on first use.
func New() (*Document, error) {
	doc := js.Global().Get("document")
	if !doc.Truthy() {
		return nil, ErrNoDocument
	}
	if !doc.Get("head").Truthy() || !doc.Get("body").Truthy() {
		return nil, errors.New("dom: document has no head or body yet")
	}
	return &Document{doc: doc}, nil
}

// CreateElement implements surface.Surface.
func (d *Document) CreateElement(tag string) surface.Element {
	return &element{d: d, v: d.doc.Call("createElement", tag)}
}

// CreateElementNS implements surface.Surface.
func (d *Document) CreateElementNS(namespace, tag string) surface.Element {
	return &element{d: d, v: d.doc.Call("createElementNS", namespace, tag)}
}

// ElementByID implements surface.Surface.
func (d *Document) ElementByID(id string) (surface.Element, bool) {
	v := d.doc.Call("getElementById", id)
	if !v.Truthy() {
		return nil, false
	}
	return &element{d: d, v: v}, true
}

// Head implements surface.Surface.
func (d *Document) Head() surface.Element { return &element{d: d, v: d.doc.Get("head")} }

// Body implements surface.Surface.
func (d *Document) Body() surface.Element { return &element{d: d, v: d.doc.Get("body")} }

type element struct {
	d *Document
	v js.Value
}

func (e *element) SetAttribute(name, value string) { e.v.Call("setAttribute", name, value) }

func (e *element) Attribute(name string) (string, bool) {
	if !e.v.Call("hasAttribute", name).Bool() {
		return "", false
	}
	return e.v.Call("getAttribute", name).String(), true
}

func (e *element) RemoveAttribute(name string) { e.v.Call("removeAttribute", name) }

func (e *element) SetText(text string) { e.v.Set("textContent", text) }

func (e *element) AppendChild(child surface.Element) {
	c, ok := child.(*element)
	if !ok {
		return
	}
	e.v.Call("appendChild", c.v)
}

func (e *element) Remove() { e.v.Call("remove") }

func (e *element) AddEventListener(event string, handler func()) {
	fn := js.FuncOf(func(this js.Value, args []js.Value) any {
		handler()
		return nil
	})
	e.d.funcs = append(e.d.funcs, fn)
	e.v.Call("addEventListener", event, fn)
}

// Value reads the live value property, which tracks user input; the
// value attribute only holds the initial value.
func (e *element) Value() string { return e.v.Get("value").String() }

func (e *element) SetValue(v string) { e.v.Set("value", v) }
