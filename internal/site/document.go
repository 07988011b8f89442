package site

import (
	"bytes"
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

const doctype = "<!DOCTYPE html>\n"

// decodeDocument returns raw as UTF-8. Content that is not valid UTF-8 is
// transcoded from the encoding sniffed from its meta tags; when that fails
// the bytes are returned untouched and the parser copes as best it can.
func decodeDocument(raw []byte) []byte {
	if utf8.Valid(raw) {
		return raw
	}
	enc, _, _ := charset.DetermineEncoding(raw, "text/html")
	out, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		return raw
	}
	return out
}

func parseDocument(raw []byte) (*html.Node, error) {
	return html.Parse(bytes.NewReader(decodeDocument(raw)))
}

// renderDocument serializes the html element behind an HTML5 doctype.
func renderDocument(doc *html.Node) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(doctype)
	root := doc
	if el := firstElement(doc, "html"); el != nil {
		root = el
	}
	if err := html.Render(&buf, root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// findElements returns all elements with one of the given tag names in
// document order.
func findElements(n *html.Node, tags ...string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, t := range tags {
				if n.Data == t {
					out = append(out, n)
					break
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func firstElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := firstElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// replaceNode swaps old for the nodes parsed from fragment.
func replaceNode(old *html.Node, fragment string) error {
	if old.Parent == nil {
		return errors.New("cannot replace detached node")
	}
	parent := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), parent)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		old.Parent.InsertBefore(n, old)
	}
	old.Parent.RemoveChild(old)
	return nil
}
