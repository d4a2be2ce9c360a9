package surface

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const blankPage = "<!DOCTYPE html><html><head></head><body></body></html>"

// Tree is an in-memory Surface backed by an x/net/html node tree. It is
// used for server-side previews and as the fake document in tests.
// Listeners never fire on their own; call Dispatch.
type Tree struct {
	doc       *html.Node
	head      *html.Node
	body      *html.Node
	elems     map[*html.Node]*treeElement
	listeners map[*html.Node]map[string][]func()
}

// NewTree returns a Surface holding an empty HTML document.
func NewTree() *Tree {
	t, err := ParseTree(strings.NewReader(blankPage))
	if err != nil {
		panic(err) // blankPage is a constant
	}
	return t
}

// ParseTree parses a host page. The HTML parser always produces head and
// body elements, so any page (even a fragment) can host the widget.
func ParseTree(r io.Reader) (*Tree, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}
	t := &Tree{
		doc:       doc,
		elems:     make(map[*html.Node]*treeElement),
		listeners: make(map[*html.Node]map[string][]func()),
	}
	walk(doc, func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Head:
				if t.head == nil {
					t.head = n
				}
			case atom.Body:
				if t.body == nil {
					t.body = n
				}
			}
		}
		return t.head == nil || t.body == nil
	})
	if t.head == nil || t.body == nil {
		return nil, fmt.Errorf("parsing page: document has no head or body")
	}
	return t, nil
}

// Render writes the document as HTML.
func (t *Tree) Render(w io.Writer) error {
	return html.Render(w, t.doc)
}

// String renders the document, ignoring write errors.
func (t *Tree) String() string {
	var b strings.Builder
	_ = t.Render(&b)
	return b.String()
}

// CreateElement implements Surface.
func (t *Tree) CreateElement(tag string) Element {
	tag = strings.ToLower(tag)
	return t.wrap(&html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	})
}

// CreateElementNS implements Surface.
func (t *Tree) CreateElementNS(namespace, tag string) Element {
	ns := namespace
	if namespace == SVGNamespace {
		ns = "svg"
	}
	return t.wrap(&html.Node{
		Type:      html.ElementNode,
		Data:      tag,
		Namespace: ns,
	})
}

// ElementByID implements Surface.
func (t *Tree) ElementByID(id string) (Element, bool) {
	var found *html.Node
	walk(t.doc, func(n *html.Node) bool {
		if n.Type == html.ElementNode && attr(n, "id") == id {
			found = n
			return false
		}
		return true
	})
	if found == nil {
		return nil, false
	}
	return t.wrap(found), true
}

// Head implements Surface.
func (t *Tree) Head() Element { return t.wrap(t.head) }

// Body implements Surface.
func (t *Tree) Body() Element { return t.wrap(t.body) }

// Dispatch runs the handlers registered on el for event, in registration
// order, and reports how many ran.
func (t *Tree) Dispatch(el Element, event string) int {
	n := t.Node(el)
	if n == nil {
		return 0
	}
	handlers := t.listeners[n][event]
	for _, h := range handlers {
		h()
	}
	return len(handlers)
}

// Node returns the html node behind el, or nil if el belongs to another surface.
func (t *Tree) Node(el Element) *html.Node {
	te, ok := el.(*treeElement)
	if !ok || te.t != t {
		return nil
	}
	return te.n
}

// TextOf returns the concatenated text content of el.
func (t *Tree) TextOf(el Element) string {
	n := t.Node(el)
	if n == nil {
		return ""
	}
	return textContent(n)
}

func (t *Tree) wrap(n *html.Node) *treeElement {
	if e, ok := t.elems[n]; ok {
		return e
	}
	e := &treeElement{t: t, n: n}
	t.elems[n] = e
	return e
}

type treeElement struct {
	t *Tree
	n *html.Node
}

func (e *treeElement) SetAttribute(name, value string) {
	for i := range e.n.Attr {
		if e.n.Attr[i].Key == name {
			e.n.Attr[i].Val = value
			return
		}
	}
	e.n.Attr = append(e.n.Attr, html.Attribute{Key: name, Val: value})
}

func (e *treeElement) Attribute(name string) (string, bool) {
	for _, a := range e.n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (e *treeElement) RemoveAttribute(name string) {
	attrs := e.n.Attr[:0]
	for _, a := range e.n.Attr {
		if a.Key != name {
			attrs = append(attrs, a)
		}
	}
	e.n.Attr = attrs
}

func (e *treeElement) SetText(text string) {
	for c := e.n.FirstChild; c != nil; {
		next := c.NextSibling
		e.n.RemoveChild(c)
		c = next
	}
	if text != "" {
		e.n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

func (e *treeElement) AppendChild(child Element) {
	c := e.t.Node(child)
	if c == nil {
		return
	}
	if c.Parent != nil {
		c.Parent.RemoveChild(c)
	}
	e.n.AppendChild(c)
}

func (e *treeElement) Remove() {
	if e.n.Parent != nil {
		e.n.Parent.RemoveChild(e.n)
	}
}

func (e *treeElement) AddEventListener(event string, handler func()) {
	m := e.t.listeners[e.n]
	if m == nil {
		m = make(map[string][]func())
		e.t.listeners[e.n] = m
	}
	m[event] = append(m[event], handler)
}

func (e *treeElement) Value() string {
	if e.n.DataAtom == atom.Textarea {
		return textContent(e.n)
	}
	v, _ := e.Attribute("value")
	return v
}

func (e *treeElement) SetValue(v string) {
	if e.n.DataAtom == atom.Textarea {
		e.SetText(v)
		return
	}
	e.SetAttribute("value", v)
}

func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if !visit(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, visit) {
			return false
		}
	}
	return true
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return b.String()
}
