// Package xmltree decodes SOAP responses into a generic key/value tree.
//
// The upstream collapses singleton lists to a bare element, so a child may be
// either a Node or a []any depending on how many siblings share its name.
// Callers never index the raw values directly; they go through AsList,
// Children and First, which accept both shapes.
package xmltree

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// TextKey holds the character data of an element that also carries attributes.
const TextKey = "#text"

var ErrEmptyDocument = errors.New("xmltree: empty document")

// Node is one decoded element. Values are string, Node or []any.
type Node map[string]any

// Option tunes Parse.
type Option func(*options)

type options struct {
	attrPrefix string
}

// WithAttrPrefix stores attributes under prefix+name, e.g. "@_Key", so they
// cannot collide with child elements of the same name.
func WithAttrPrefix(prefix string) Option {
	return func(o *options) {
		o.attrPrefix = prefix
	}
}

// Parse decodes data into a tree rooted at a synthetic node whose single key
// is the document element, e.g. {"SOAP:Envelope": {...}}.
//
// Element and attribute names keep the prefix exactly as written in the
// document. Attributes are stored as string fields next to children, with
// no marker unless WithAttrPrefix is given. xmlns declarations are dropped.
func Parse(data []byte, opts ...Option) (Node, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false

	root := &element{node: Node{}}
	stack := []*element{root}

	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("xmltree: decode: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &element{name: qualified(t.Name), node: Node{}}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
					continue
				}
				el.node[o.attrPrefix+qualified(a.Name)] = a.Value
			}
			stack = append(stack, el)

		case xml.EndElement:
			if len(stack) < 2 {
				return nil, fmt.Errorf("xmltree: unexpected end element %s", qualified(t.Name))
			}
			el := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			stack[len(stack)-1].add(el.name, el.value())

		case xml.CharData:
			stack[len(stack)-1].text.Write(t)
		}
	}

	if len(stack) != 1 {
		return nil, fmt.Errorf("xmltree: %d unclosed elements", len(stack)-1)
	}
	if len(root.node) == 0 {
		return nil, ErrEmptyDocument
	}
	return root.node, nil
}

type element struct {
	name string
	node Node
	text strings.Builder
}

func (e *element) add(name string, v any) {
	existing, ok := e.node[name]
	if !ok {
		e.node[name] = v
		return
	}
	if list, ok := existing.([]any); ok {
		e.node[name] = append(list, v)
		return
	}
	e.node[name] = []any{existing, v}
}

// value collapses leaf elements the way the frontend expects them: text-only
// elements become strings and empty elements become "".
func (e *element) value() any {
	text := strings.TrimSpace(e.text.String())
	if len(e.node) == 0 {
		return text
	}
	if text != "" {
		e.node[TextKey] = text
	}
	return e.node
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// AsList coerces a tree value to a sequence: nil yields an empty slice, a
// slice is returned as is and anything else is wrapped.
func AsList(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	default:
		return []any{t}
	}
}

// Child returns the named child when it is a single element node.
func (n Node) Child(name string) Node {
	if n == nil {
		return nil
	}
	if c, ok := n[name].(Node); ok {
		return c
	}
	return nil
}

// First returns the named child, taking the first element node when the
// upstream sent a list.
func (n Node) First(name string) Node {
	for _, v := range AsList(n.raw(name)) {
		if c, ok := v.(Node); ok {
			return c
		}
	}
	return nil
}

// Children returns every element node stored under name.
func (n Node) Children(name string) []Node {
	items := AsList(n.raw(name))
	out := make([]Node, 0, len(items))
	for _, v := range items {
		if c, ok := v.(Node); ok {
			out = append(out, c)
		}
	}
	return out
}

// Has reports whether name is present at all, whatever its shape.
func (n Node) Has(name string) bool {
	if n == nil {
		return false
	}
	_, ok := n[name]
	return ok
}

// Attr returns the string value stored under name.
func (n Node) Attr(name string) string {
	if s, ok := n.raw(name).(string); ok {
		return s
	}
	return ""
}

// Lookup follows a chain of single-element children.
func (n Node) Lookup(path ...string) Node {
	cur := n
	for _, p := range path {
		cur = cur.Child(p)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Keys lists the node's fields in sorted order.
func (n Node) Keys() []string {
	keys := make([]string, 0, len(n))
	for k := range n {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (n Node) raw(name string) any {
	if n == nil {
		return nil
	}
	return n[name]
}
