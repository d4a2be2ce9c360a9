// Package surface abstracts the document the widget renders into. The
// widget only needs to create elements, set attributes and text, attach
// children and listen for events, so it runs unchanged against the live
// browser DOM (package dom) or an in-memory HTML tree (Tree).
package surface

// Element is a node on a Surface.
type Element interface {
	SetAttribute(name, value string)
	Attribute(name string) (string, bool)
	RemoveAttribute(name string)
	SetText(text string)
	AppendChild(child Element)
	// Remove detaches the element from its parent.
	Remove()
	AddEventListener(event string, handler func())

	// Value and SetValue access the current value of a form control.
	Value() string
	SetValue(v string)
}

// Surface is a document.
type Surface interface {
	CreateElement(tag string) Element
	// CreateElementNS creates a namespaced element such as an inline svg.
	CreateElementNS(namespace, tag string) Element
	ElementByID(id string) (Element, bool)
	Head() Element
	Body() Element
}

// SVGNamespace is the namespace of inline svg elements.
const SVGNamespace = "http://www.w3.org/2000/svg"
