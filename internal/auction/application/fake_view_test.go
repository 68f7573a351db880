package application

import (
	"sync"

	"github.com/cristianortiz/auctionView/internal/auction/domain"
)

// fakeView is an in-memory page, safe to read from tests while the router loop writes
type fakeView struct {
	mu       sync.Mutex
	elements map[string]*fakeElement
}

type fakeElement struct {
	view     *fakeView
	attrs    map[string]string
	text     string
	rows     [][]string
	validity string
	writes   int
}

func newFakeView(ids ...string) *fakeView {
	v := &fakeView{elements: make(map[string]*fakeElement)}
	for _, id := range ids {
		v.add(id)
	}
	return v
}

func (v *fakeView) add(id string) *fakeElement {
	el := &fakeElement{view: v, attrs: map[string]string{"id": id}}
	v.elements[id] = el
	return el
}

func (v *fakeView) ElementByID(id string) (domain.Element, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	el, ok := v.elements[id]
	if !ok {
		return nil, false
	}
	return el, true
}

func (v *fakeView) text(id string) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.elements[id].text
}

func (v *fakeView) attr(id, name string) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.elements[id].attrs[name]
}

func (v *fakeView) rows(id string) [][]string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([][]string(nil), v.elements[id].rows...)
}

func (v *fakeView) writes(id string) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.elements[id].writes
}

func (e *fakeElement) Attr(name string) (string, bool) {
	e.view.mu.Lock()
	defer e.view.mu.Unlock()
	v, ok := e.attrs[name]
	return v, ok
}

func (e *fakeElement) SetText(text string) {
	e.view.mu.Lock()
	defer e.view.mu.Unlock()
	e.text = text
	e.writes++
}

func (e *fakeElement) SetAttr(name, value string) {
	e.view.mu.Lock()
	defer e.view.mu.Unlock()
	e.attrs[name] = value
	e.writes++
}

func (e *fakeElement) PrependRow(cells ...string) {
	e.view.mu.Lock()
	defer e.view.mu.Unlock()
	e.rows = append([][]string{cells}, e.rows...)
	e.writes++
}

func (e *fakeElement) SetCustomValidity(message string) {
	e.view.mu.Lock()
	defer e.view.mu.Unlock()
	e.validity = message
	e.writes++
}
