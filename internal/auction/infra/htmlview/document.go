// Package htmlview keeps a parsed HTML page in memory and applies patcher writes to it
package htmlview

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/cristianortiz/auctionView/internal/auction/domain"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ValidityAttr stores the custom validity message of form inputs
const ValidityAttr = "data-validity-message"

// Document is a live page. Reads and writes are serialized by its lock, observers
// are notified after the lock is released
type Document struct {
	mu        sync.RWMutex
	root      *html.Node
	observers []func(Patch)
}

type element struct {
	doc  *Document
	node *html.Node
	id   string
}

// Parse reads a complete HTML page
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("htmlview: failed to parse page: %w", err)
	}
	return &Document{root: root}, nil
}

// Load parses the page stored at path
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("htmlview: failed to open page: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// OnPatch registers fn to receive every write applied to the document
func (d *Document) OnPatch(fn func(Patch)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = append(d.observers, fn)
}

// ElementByID implements domain.View
func (d *Document) ElementByID(id string) (domain.Element, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n := findByID(d.root, id)
	if n == nil {
		return nil, false
	}
	return &element{doc: d, node: n, id: id}, true
}

// Render writes the current page
func (d *Document) Render(w io.Writer) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return html.Render(w, d.root)
}

// String renders the page, used by tests and debugging
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// write applies fn under the lock and then notifies observers with p
func (d *Document) write(p Patch, fn func()) {
	d.mu.Lock()
	fn()
	observers := append([]func(Patch){}, d.observers...)
	d.mu.Unlock()

	for _, obs := range observers {
		obs(p)
	}
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func (e *element) Attr(name string) (string, bool) {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	for _, a := range e.node.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (e *element) SetText(text string) {
	e.doc.write(Patch{Op: PatchSetText, Target: e.id, Value: text}, func() {
		removeChildren(e.node)
		e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	})
}

func (e *element) SetAttr(name, value string) {
	e.doc.write(Patch{Op: PatchSetAttr, Target: e.id, Name: name, Value: value}, func() {
		setAttr(e.node, name, value)
	})
}

func (e *element) PrependRow(cells ...string) {
	e.doc.write(Patch{Op: PatchPrependRow, Target: e.id, Cells: cells}, func() {
		row := &html.Node{Type: html.ElementNode, Data: "tr", DataAtom: atom.Tr}
		for _, c := range cells {
			td := &html.Node{Type: html.ElementNode, Data: "td", DataAtom: atom.Td}
			td.AppendChild(&html.Node{Type: html.TextNode, Data: c})
			row.AppendChild(td)
		}
		e.node.InsertBefore(row, e.node.FirstChild)
	})
}

func (e *element) SetCustomValidity(message string) {
	e.doc.write(Patch{Op: PatchSetValidity, Target: e.id, Value: message}, func() {
		if message == "" {
			removeAttr(e.node, ValidityAttr)
			return
		}
		setAttr(e.node, ValidityAttr, message)
	})
}

func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
}

func setAttr(n *html.Node, name, value string) {
	for i := range n.Attr {
		if n.Attr[i].Key == name {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}

func removeAttr(n *html.Node, name string) {
	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != name {
			attrs = append(attrs, a)
		}
	}
	n.Attr = attrs
}
