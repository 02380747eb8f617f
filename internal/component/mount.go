package component

import (
	"bytes"
	"fmt"

	"golang.org/x/net/html"

	"github.com/3-lines-studio/pagepack/internal/core"
)

// FindByID returns the first element with the given id, or nil.
func FindByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			if attr.Key == "id" && attr.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := FindByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

// Prerender parses a rendered page, renders refs into the element with id
// mount and serializes the document again.
func Prerender(page []byte, mount string, refs []core.ComponentRef, registry *Registry) ([]byte, error) {
	if len(refs) == 0 {
		return page, nil
	}

	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	target := FindByID(doc, mount)
	for _, ref := range refs {
		c, err := registry.Lookup(ref.Name)
		if err != nil {
			return nil, err
		}
		if err := c.Render(target, ref.Content); err != nil {
			return nil, fmt.Errorf("mount #%s: %w", mount, err)
		}
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
