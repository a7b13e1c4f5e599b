// Package htmlstyle minifies the style sheets embedded in HTML documents:
// the bodies of <style> elements and the values of style attributes.
package htmlstyle

import (
	"fmt"
	"io"

	"github.com/benbjohnson/cssmin"
	"github.com/benbjohnson/cssmin/diag"
	"golang.org/x/net/html"
)

// Minify reads an HTML document from r and writes it to w with its style
// sheets minified. The diagnostics of all style sheets are returned together;
// their positions are relative to the style sheet they came from.
func Minify(w io.Writer, r io.Reader, opts ...cssmin.Option) (diag.List, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var list diag.List
	if err := walk(doc, &list, opts); err != nil {
		return list, err
	}
	if err := html.Render(w, doc); err != nil {
		return list, fmt.Errorf("render html: %w", err)
	}
	return list, nil
}

// walk minifies the style sheets of n and its descendants.
func walk(n *html.Node, list *diag.List, opts []cssmin.Option) error {
	if n.Type == html.ElementNode {
		if n.Data == "style" {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type != html.TextNode {
					continue
				}
				out, l, err := cssmin.Minify(c.Data, opts...)
				if err != nil {
					return err
				}
				c.Data = out
				*list = append(*list, l...)
			}
		}
		for i, a := range n.Attr {
			if a.Namespace != "" || a.Key != "style" {
				continue
			}
			out, l, err := cssmin.MinifyDeclarations(a.Val, opts...)
			if err != nil {
				return err
			}
			n.Attr[i].Val = out
			*list = append(*list, l...)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := walk(c, list, opts); err != nil {
			return err
		}
	}
	return nil
}
