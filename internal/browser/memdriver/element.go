// internal/browser/memdriver/element.go
package memdriver

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/valpere/UIProbe/internal/browser"
)

// Element is a node in one of the driver's documents.
type Element struct {
	d    *Driver
	node *html.Node
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, name, val string) {
	for i, a := range n.Attr {
		if a.Key == name {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: val})
}

func removeAttr(n *html.Node, name string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != name {
			out = append(out, a)
		}
	}
	n.Attr = out
}

func visible(n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type != html.ElementNode {
			continue
		}
		switch cur.Data {
		case "head", "script", "style", "template":
			return false
		}
		if _, ok := attr(cur, "hidden"); ok {
			return false
		}
		if style, ok := attr(cur, "style"); ok {
			compact := strings.ReplaceAll(strings.ToLower(style), " ", "")
			if strings.Contains(compact, "display:none") || strings.Contains(compact, "visibility:hidden") {
				return false
			}
		}
		if cur == n && cur.Data == "input" {
			if t, _ := attr(cur, "type"); strings.EqualFold(t, "hidden") {
				return false
			}
		}
	}
	return true
}

func disabled(n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type != html.ElementNode {
			continue
		}
		if _, ok := attr(cur, "disabled"); ok {
			return true
		}
		if cur.Data == "fieldset" || cur.Data == "form" {
			break
		}
	}
	return false
}

func intercepted(n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if _, ok := attr(cur, "data-intercept"); ok {
			return true
		}
	}
	return false
}

func textOf(n *html.Node) string {
	return strings.Join(strings.Fields(goquery.NewDocumentFromNode(n).Text()), " ")
}

func (e *Element) guard() error {
	return e.d.usable()
}

func (e *Element) interactable() error {
	if err := e.guard(); err != nil {
		return err
	}
	if !visible(e.node) {
		return fmt.Errorf("%w: <%s> is not displayed", browser.ErrNotInteractable, e.node.Data)
	}
	return nil
}

func (e *Element) Click(ctx context.Context) error {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()
	if err := e.interactable(); err != nil {
		return err
	}
	if intercepted(e.node) {
		return fmt.Errorf("%w: <%s> is covered by another element", browser.ErrClickIntercepted, e.node.Data)
	}
	return e.activate()
}

func (e *Element) ClickJS(ctx context.Context) error {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()
	if err := e.guard(); err != nil {
		return err
	}
	return e.activate()
}

// activate applies the default action for the node, then the bindings.
func (e *Element) activate() error {
	if disabled(e.node) {
		return nil
	}
	n := e.node
	if n.Data == "label" {
		if id, ok := attr(n, "for"); ok {
			if target := goquery.NewDocumentFromNode(documentOf(n)).Find("#" + id).Nodes; len(target) > 0 && !disabled(target[0]) {
				toggle(target[0])
			}
		}
	}
	if n.Data == "input" {
		toggle(n)
	}
	if a := closest(n, "a"); a != nil {
		if href, ok := attr(a, "href"); ok && href != "" && !strings.HasPrefix(href, "#") && !strings.HasPrefix(href, "javascript:") {
			target := resolve(e.d.current.url, href)
			if t, _ := attr(a, "target"); t == "_blank" {
				w := e.d.newWindowLocked("about:blank", mustParse("<html></html>"))
				_ = e.d.loadLocked(w, target)
			} else if err := e.d.loadLocked(e.d.current, target); err != nil {
				return err
			}
		}
	}
	e.d.dispatch(EventClick, n, "")
	return nil
}

func toggle(n *html.Node) {
	t, _ := attr(n, "type")
	switch strings.ToLower(t) {
	case "checkbox":
		if _, on := attr(n, "checked"); on {
			removeAttr(n, "checked")
		} else {
			setAttr(n, "checked", "")
		}
	case "radio":
		name, _ := attr(n, "name")
		if name != "" {
			for _, other := range goquery.NewDocumentFromNode(documentOf(n)).Find(fmt.Sprintf("input[type=radio][name=%q]", name)).Nodes {
				removeAttr(other, "checked")
			}
		}
		setAttr(n, "checked", "")
	}
}

func closest(n *html.Node, tag string) *html.Node {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type == html.ElementNode && cur.Data == tag {
			return cur
		}
	}
	return nil
}

func (e *Element) DoubleClick(ctx context.Context) error {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()
	if err := e.interactable(); err != nil {
		return err
	}
	e.d.dispatch(EventDoubleClick, e.node, "")
	return nil
}

func (e *Element) RightClick(ctx context.Context) error {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()
	if err := e.interactable(); err != nil {
		return err
	}
	e.d.dispatch(EventRightClick, e.node, "")
	return nil
}

func (e *Element) ScrollIntoView(ctx context.Context) error {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()
	return e.guard()
}

func (e *Element) Text(ctx context.Context) (string, error) {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()
	if err := e.guard(); err != nil {
		return "", err
	}
	if !visible(e.node) {
		return "", nil
	}
	return textOf(e.node), nil
}

func (e *Element) Value(ctx context.Context) (string, error) {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()
	if err := e.guard(); err != nil {
		return "", err
	}
	if e.node.Data == "textarea" {
		if v, ok := attr(e.node, "value"); ok {
			return v, nil
		}
		return textOf(e.node), nil
	}
	v, _ := attr(e.node, "value")
	return v, nil
}

func (e *Element) Attribute(ctx context.Context, name string) (string, bool, error) {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()
	if err := e.guard(); err != nil {
		return "", false, err
	}
	v, ok := attr(e.node, name)
	return v, ok, nil
}

func (e *Element) IsDisplayed(ctx context.Context) (bool, error) {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()
	if err := e.guard(); err != nil {
		return false, err
	}
	return visible(e.node), nil
}

func (e *Element) IsEnabled(ctx context.Context) (bool, error) {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()
	if err := e.guard(); err != nil {
		return false, err
	}
	return !disabled(e.node), nil
}

func (e *Element) IsSelected(ctx context.Context) (bool, error) {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()
	if err := e.guard(); err != nil {
		return false, err
	}
	_, checked := attr(e.node, "checked")
	_, selected := attr(e.node, "selected")
	return checked || selected, nil
}

func (e *Element) SendKeys(ctx context.Context, keys string) error {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()
	if err := e.interactable(); err != nil {
		return err
	}
	if disabled(e.node) {
		return fmt.Errorf("%w: <%s> is disabled", browser.ErrNotInteractable, e.node.Data)
	}
	typed := strings.NewReplacer(browser.KeyEnter, "", browser.KeyTab, "").Replace(keys)
	if typed != "" {
		current, _ := attr(e.node, "value")
		setAttr(e.node, "value", current+typed)
	}
	e.d.dispatch(EventKeys, e.node, keys)
	return nil
}

func (e *Element) Clear(ctx context.Context) error {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()
	if err := e.interactable(); err != nil {
		return err
	}
	setAttr(e.node, "value", "")
	return nil
}

func (e *Element) SelectByText(ctx context.Context, text string) error {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()
	if err := e.interactable(); err != nil {
		return err
	}
	options := goquery.NewDocumentFromNode(e.node).Find("option").Nodes
	var chosen *html.Node
	for _, o := range options {
		if textOf(o) == text {
			chosen = o
			break
		}
	}
	if chosen == nil {
		return fmt.Errorf("%w: option %q", browser.ErrNotFound, text)
	}
	for _, o := range options {
		removeAttr(o, "selected")
	}
	setAttr(chosen, "selected", "")
	v, ok := attr(chosen, "value")
	if !ok {
		v = text
	}
	setAttr(e.node, "value", v)
	e.d.dispatch(EventChange, e.node, "")
	return nil
}

// Upload records the file names the way browsers expose them to scripts.
func (e *Element) Upload(ctx context.Context, paths ...string) error {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()
	if err := e.guard(); err != nil {
		return err
	}
	if t, _ := attr(e.node, "type"); e.node.Data != "input" || t != "file" {
		return fmt.Errorf("%w: <%s> is not a file input", browser.ErrNotInteractable, e.node.Data)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no files to upload")
	}
	setAttr(e.node, "value", `C:\fakepath\`+filepath.Base(paths[0]))
	e.d.dispatch(EventChange, e.node, "")
	return nil
}

func (e *Element) Find(ctx context.Context, loc browser.Locator) (browser.Element, error) {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()
	if err := e.guard(); err != nil {
		return nil, err
	}
	nodes, err := query(e.node, loc)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, browser.NotFound(loc)
	}
	return &Element{d: e.d, node: nodes[0]}, nil
}

func (e *Element) FindAll(ctx context.Context, loc browser.Locator) ([]browser.Element, error) {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()
	if err := e.guard(); err != nil {
		return nil, err
	}
	nodes, err := query(e.node, loc)
	if err != nil {
		return nil, err
	}
	return e.d.wrap(nodes), nil
}

var _ browser.Element = (*Element)(nil)
