// Package component renders the page components into an HTML container.
//
// Components never look their container up themselves: the caller passes
// the target node, and a nil target is a render error.
package component

import (
	"fmt"
	"sort"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/3-lines-studio/pagepack/internal/core"
)

type Component interface {
	Render(target *html.Node, content string) error
}

type Heading struct{}

func (Heading) Render(target *html.Node, content string) error {
	if target == nil {
		return &core.RenderError{Component: "heading", Err: core.ErrMissingContainer}
	}
	h1 := element(atom.H1, nil)
	h1.AppendChild(&html.Node{Type: html.TextNode, Data: content})
	target.AppendChild(h1)
	return nil
}

const (
	DefaultButtonLabel = "Hello world"
	ButtonClass        = "hello-world-button"
	TextClass          = "hello-world-text"
)

type HelloWorldButton struct{}

// Render appends the button and the paragraph its click handler fills in.
func (HelloWorldButton) Render(target *html.Node, content string) error {
	if target == nil {
		return &core.RenderError{Component: "hello-world-button", Err: core.ErrMissingContainer}
	}
	label := content
	if label == "" {
		label = DefaultButtonLabel
	}

	button := element(atom.Button, []html.Attribute{{Key: "class", Val: ButtonClass}})
	button.AppendChild(&html.Node{Type: html.TextNode, Data: label})
	target.AppendChild(button)

	target.AppendChild(element(atom.P, []html.Attribute{{Key: "class", Val: TextClass}}))
	return nil
}

func element(a atom.Atom, attrs []html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

type Registry struct {
	components map[string]Component
}

// NewRegistry holds the built-in components pages can name.
func NewRegistry() *Registry {
	r := &Registry{components: make(map[string]Component)}
	r.register("heading", Heading{})
	r.register("hello-world-button", HelloWorldButton{})
	return r
}

func (r *Registry) register(name string, c Component) {
	r.components[name] = c
}

func (r *Registry) Lookup(name string) (Component, error) {
	c, ok := r.components[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownComponent, name)
	}
	return c, nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
