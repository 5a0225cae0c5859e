package fetch

import (
	"strings"

	"golang.org/x/net/html"
)

// Attr returns the value of the named attribute on n, or "" when absent.
func Attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// HasClass reports whether n carries every class token in class
// (space-separated).
func HasClass(n *html.Node, class string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	have := strings.Fields(Attr(n, "class"))
	for _, want := range strings.Fields(class) {
		found := false
		for _, c := range have {
			if c == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// FindByClass returns the first element named tag carrying all class tokens,
// in document order, or nil. An empty tag matches any element.
func FindByClass(n *html.Node, tag, class string) *html.Node {
	var result *html.Node
	walk(n, func(node *html.Node) bool {
		if matches(node, tag, class) {
			result = node
			return false
		}
		return true
	})
	return result
}

// FindAllByClass returns every element named tag carrying all class tokens,
// in document order.
func FindAllByClass(n *html.Node, tag, class string) []*html.Node {
	var result []*html.Node
	walk(n, func(node *html.Node) bool {
		if matches(node, tag, class) {
			result = append(result, node)
		}
		return true
	})
	return result
}

// FindAll returns every element with the given tag name, in document order.
func FindAll(n *html.Node, tag string) []*html.Node {
	var result []*html.Node
	walk(n, func(node *html.Node) bool {
		if node.Type == html.ElementNode && node.Data == tag {
			result = append(result, node)
		}
		return true
	})
	return result
}

// First returns the first element with the given tag name, or nil.
func First(n *html.Node, tag string) *html.Node {
	var result *html.Node
	walk(n, func(node *html.Node) bool {
		if node.Type == html.ElementNode && node.Data == tag {
			result = node
			return false
		}
		return true
	})
	return result
}

// ElementChildren returns the direct element children of n. An empty tag
// matches any element.
func ElementChildren(n *html.Node, tag string) []*html.Node {
	if n == nil {
		return nil
	}
	var result []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (tag == "" || c.Data == tag) {
			result = append(result, c)
		}
	}
	return result
}

// Text returns the concatenated text content of n with surrounding
// whitespace collapsed, mirroring BeautifulSoup's text.strip().
func Text(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	walk(n, func(node *html.Node) bool {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		return true
	})
	return strings.Join(strings.Fields(sb.String()), " ")
}

func matches(n *html.Node, tag, class string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if tag != "" && n.Data != tag {
		return false
	}
	return HasClass(n, class)
}

// walk visits n and its descendants depth-first; fn returning false stops
// the traversal.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}
