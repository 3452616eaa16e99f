// Package ergast models the Ergast-compatible F1 API: its response pages,
// its endpoints, and the registry of flatteners that turn one page into
// flat rows.
package ergast

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrMalformedPage is returned when a page lacks a mandatory container.
var ErrMalformedPage = errors.New("malformed page")

// Page is one decoded API response body. Numbers are kept as json.Number.
type Page map[string]any

// Row is one flat record: column name to scalar value (string, json.Number or nil).
type Row map[string]any

// Decode reads one JSON object from r.
func Decode(r io.Reader) (Page, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("decode page: top-level value is %T, want object", v)
	}
	return Page(obj), nil
}

// Root returns the page as a Node.
func (p Page) Root() Node {
	if p == nil {
		return Node{}
	}
	return Node{v: map[string]any(p)}
}

// Total returns MRData.total. Absent or unparseable totals count as 0.
func (p Page) Total() int {
	n, err := strconv.Atoi(strings.TrimSpace(p.Root().Path("MRData", "total").String()))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Require descends keys from the page root and fails with ErrMalformedPage
// at the first missing key.
func (p Page) Require(keys ...string) (Node, error) {
	n := p.Root()
	for i, key := range keys {
		n = n.Get(key)
		if !n.Exists() {
			return Node{}, fmt.Errorf("%w: missing %s", ErrMalformedPage, strings.Join(keys[:i+1], "."))
		}
	}
	return n, nil
}

// RequireList is Require for a container that must be a JSON array.
func (p Page) RequireList(keys ...string) ([]Node, error) {
	n, err := p.Require(keys...)
	if err != nil {
		return nil, err
	}
	if !n.IsList() {
		return nil, fmt.Errorf("%w: %s is not a list", ErrMalformedPage, strings.Join(keys, "."))
	}
	return n.List(), nil
}

// Node is a null-tolerant view over a decoded JSON value. Descending into a
// missing key or a non-object yields an absent Node instead of failing.
type Node struct {
	v any
}

// NewNode wraps a decoded JSON value.
func NewNode(v any) Node {
	return Node{v: v}
}

// Exists reports whether the node holds a non-null value.
func (n Node) Exists() bool {
	return n.v != nil
}

// Get returns the child under key.
func (n Node) Get(key string) Node {
	m, ok := n.v.(map[string]any)
	if !ok {
		return Node{}
	}
	return Node{v: m[key]}
}

// Path descends through keys, stopping at the first absent link.
func (n Node) Path(keys ...string) Node {
	for _, key := range keys {
		n = n.Get(key)
		if !n.Exists() {
			return Node{}
		}
	}
	return n
}

// IsList reports whether the node holds a JSON array.
func (n Node) IsList() bool {
	_, ok := n.v.([]any)
	return ok
}

// List returns the elements of a JSON array, or nil.
func (n Node) List() []Node {
	arr, ok := n.v.([]any)
	if !ok {
		return nil
	}
	out := make([]Node, len(arr))
	for i, v := range arr {
		out[i] = Node{v: v}
	}
	return out
}

// Value returns the scalar held by the node, or nil for absent, object and array nodes.
func (n Node) Value() any {
	switch v := n.v.(type) {
	case string, json.Number, bool, float64:
		return v
	default:
		return nil
	}
}

// String returns the node as text; "" when absent or not a scalar.
func (n Node) String() string {
	switch v := n.v.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}
