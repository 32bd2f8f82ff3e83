package present

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-mdcanon/internal/fileutil"
)

// ResolveRelativeURLs resolves relative img[src] and a[href] values in an
// HTML fragment against baseURL. Fragments, URLs with a scheme and
// protocol-relative URLs are left alone. An empty baseURL returns the
// fragment unchanged.
func ResolveRelativeURLs(fragment, baseURL string) (string, error) {
	if baseURL == "" {
		return fragment, nil
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base URL %q: %w", baseURL, err)
	}
	if !base.IsAbs() {
		return "", fmt.Errorf("base URL %q is not absolute", baseURL)
	}

	body := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	for _, n := range nodes {
		rewriteNode(n, base)
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// rewriteNode traverses the tree and resolves relative targets.
func rewriteNode(n *html.Node, base *url.URL) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Img:
			rewriteAttr(n, "src", base)
		case atom.A:
			rewriteAttr(n, "href", base)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteNode(c, base)
	}
}

func rewriteAttr(n *html.Node, key string, base *url.URL) {
	for i, a := range n.Attr {
		if a.Key != key || !fileutil.IsInternalLink(a.Val) {
			continue
		}
		ref, err := url.Parse(a.Val)
		if err != nil {
			continue
		}
		n.Attr[i].Val = base.ResolveReference(ref).String()
	}
}
