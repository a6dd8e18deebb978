// internal/browser/memdriver/event.go
package memdriver

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/valpere/UIProbe/internal/browser"
)

// Event is passed to handlers. Its methods act on the document the event
// happened in and are only valid during the handler call.
type Event struct {
	d      *Driver
	doc    *html.Node
	Kind   EventKind
	Target *Element
	Keys   string
}

func (ev *Event) nodes(loc browser.Locator) []*html.Node {
	nodes, err := query(ev.doc, loc)
	if err != nil {
		return nil
	}
	return nodes
}

// Attr reads an attribute of the event target.
func (ev *Event) Attr(name string) string {
	v, _ := attr(ev.Target.node, name)
	return v
}

// ValueOf returns the value attribute of the first match of loc.
func (ev *Event) ValueOf(loc browser.Locator) string {
	for _, n := range ev.nodes(loc) {
		v, _ := attr(n, "value")
		return v
	}
	return ""
}

// SetText replaces the children of every match of loc with text.
func (ev *Event) SetText(loc browser.Locator, text string) {
	for _, n := range ev.nodes(loc) {
		for c := n.FirstChild; c != nil; c = n.FirstChild {
			n.RemoveChild(c)
		}
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

// SetHTML replaces the children of every match of loc with parsed markup.
func (ev *Event) SetHTML(loc browser.Locator, markup string) {
	for _, n := range ev.nodes(loc) {
		frag, err := html.ParseFragment(strings.NewReader(markup), n)
		if err != nil {
			continue
		}
		for c := n.FirstChild; c != nil; c = n.FirstChild {
			n.RemoveChild(c)
		}
		for _, c := range frag {
			n.AppendChild(c)
		}
	}
}

// AppendHTML adds parsed markup to the end of every match of loc.
func (ev *Event) AppendHTML(loc browser.Locator, markup string) {
	for _, n := range ev.nodes(loc) {
		frag, err := html.ParseFragment(strings.NewReader(markup), n)
		if err != nil {
			continue
		}
		for _, c := range frag {
			n.AppendChild(c)
		}
	}
}

// SetAttr sets an attribute on every match of loc.
func (ev *Event) SetAttr(loc browser.Locator, name, val string) {
	for _, n := range ev.nodes(loc) {
		setAttr(n, name, val)
	}
}

// RemoveAttr removes an attribute from every match of loc.
func (ev *Event) RemoveAttr(loc browser.Locator, name string) {
	for _, n := range ev.nodes(loc) {
		removeAttr(n, name)
	}
}

// Remove detaches every match of loc from the document.
func (ev *Event) Remove(loc browser.Locator) {
	for _, n := range ev.nodes(loc) {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}

// Count returns the number of matches of loc.
func (ev *Event) Count(loc browser.Locator) int {
	return len(ev.nodes(loc))
}

// Text returns the normalized text of the first match of loc.
func (ev *Event) Text(loc browser.Locator) string {
	for _, n := range ev.nodes(loc) {
		return textOf(n)
	}
	return ""
}

// Closest returns the nearest ancestor-or-self of the target matching css.
func (ev *Event) Closest(css string) *Element {
	sel := goquery.NewDocumentFromNode(ev.Target.node).Closest(css)
	if len(sel.Nodes) == 0 {
		return nil
	}
	return &Element{d: ev.d, node: sel.Nodes[0]}
}

// RemoveNode detaches el from its document.
func (ev *Event) RemoveNode(el *Element) {
	if el != nil && el.node.Parent != nil {
		el.node.Parent.RemoveChild(el.node)
	}
}

// OpenWindow opens rawURL in a new window without switching to it.
func (ev *Event) OpenWindow(rawURL string) {
	w := ev.d.newWindowLocked("about:blank", mustParse("<html></html>"))
	if err := ev.d.loadLocked(w, rawURL); err != nil {
		w.url = rawURL
	}
}

// Navigate loads rawURL into the current window, the way client-side
// routing replaces the page after a click. Unregistered URLs are ignored.
func (ev *Event) Navigate(rawURL string) {
	if w := ev.d.current; w != nil {
		_ = ev.d.loadLocked(w, resolve(w.url, rawURL))
	}
}

// OpenWindowHTML opens a new window showing markup directly.
func (ev *Event) OpenWindowHTML(markup string) {
	ev.d.newWindowLocked("about:blank", mustParse(markup))
}

// Alert opens a dialog. onClose runs when it is accepted or dismissed and
// may itself use the event to update the page.
func (ev *Event) Alert(typ browser.DialogType, message string, onClose func(ev *Event, accepted bool, text string)) {
	ev.d.openDialogLocked(browser.Dialog{Type: typ, Message: message}, ev.closer(onClose))
}

// AlertAfter opens a dialog once delay has passed.
func (ev *Event) AlertAfter(delay time.Duration, typ browser.DialogType, message string, onClose func(ev *Event, accepted bool, text string)) {
	closer := ev.closer(onClose)
	ev.d.after(delay, func() {
		ev.d.openDialogLocked(browser.Dialog{Type: typ, Message: message}, closer)
	})
}

// After runs fn against this document once delay has passed.
func (ev *Event) After(delay time.Duration, fn func(ev *Event)) {
	ev.d.after(delay, func() { fn(ev) })
}

func (ev *Event) closer(onClose func(*Event, bool, string)) func(bool, string) {
	if onClose == nil {
		return nil
	}
	return func(accepted bool, text string) { onClose(ev, accepted, text) }
}
