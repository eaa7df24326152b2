// Package scene builds and edits element trees with golang.org/x/net/html, and binds
// their children to keyed data with enter/update/exit joins.
package scene

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// El creates a detached element. attrs are key, value pairs.
func El(tag string, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	for i := 0; i+1 < len(attrs); i += 2 {
		SetAttr(n, attrs[i], attrs[i+1])
	}
	return n
}

// Append adds child as the last child of parent and returns child.
func Append(parent, child *html.Node) *html.Node {
	parent.AppendChild(child)
	return child
}

// Remove detaches n from its parent, if it has one.
func Remove(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr replaces the value of key or adds it.
func SetAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// SetText replaces the children of n with a single text node.
func SetText(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// Text concatenates the text nodes below n.
func Text(n *html.Node) string {
	var sb strings.Builder
	Walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	})
	return sb.String()
}

// Walk calls visit for n and every node below it, depth first in document order.
func Walk(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		Walk(c, visit)
	}
}

func ElementsByTag(root *html.Node, tag string) []*html.Node {
	var found []*html.Node
	Walk(root, func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			found = append(found, n)
		}
	})
	return found
}

func FindByID(root *html.Node, id string) *html.Node {
	var found *html.Node
	Walk(root, func(n *html.Node) {
		if found != nil || n.Type != html.ElementNode {
			return
		}
		if v, ok := Attr(n, "id"); ok && v == id {
			found = n
		}
	})
	return found
}

// Hrefs gets the targets of all <a> tags below n as absolute http(s) URLs. Both href
// and xlink:href are read, relative targets are resolved against base.
func Hrefs(n *html.Node, base *url.URL) []string {
	var urls []string
	for _, a := range ElementsByTag(n, "a") {
		for _, attr := range a.Attr {
			if attr.Key != "href" && attr.Key != "xlink:href" {
				continue
			}
			parsedURL, err := url.Parse(attr.Val)
			if err != nil {
				break
			}
			absoluteURL := base.ResolveReference(parsedURL)
			if absoluteURL.Scheme != "http" && absoluteURL.Scheme != "https" {
				break
			}
			urls = append(urls, absoluteURL.String())
			break
		}
	}
	return urls
}

func Render(w io.Writer, n *html.Node) error {
	return html.Render(w, n)
}

// Markup renders n to a string.
func Markup(n *html.Node) (string, error) {
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// NewDocument returns an empty html document and its body.
func NewDocument(title string) (doc, head, body *html.Node) {
	doc = &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	root := Append(doc, El("html"))
	head = Append(root, El("head"))
	Append(head, El("meta", "charset", "utf-8"))
	SetText(Append(head, El("title")), title)
	body = Append(root, El("body"))
	return doc, head, body
}
