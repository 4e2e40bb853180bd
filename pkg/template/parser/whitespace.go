package parser

import "github.com/vireo-dev/vireo/pkg/template/ast"

// applyWhitespacePolicy walks the finished tree and trims text nodes
// per mode. It runs once, after parsing, rather than inline during
// token consumption, since the condense rules ("drop a whitespace-only
// node between two elements only if it originally contained a
// newline") need to inspect a node's siblings, which aren't settled
// until the parent element has fully closed.
func applyWhitespacePolicy(n *ast.Node, mode WhitespaceMode) {
	if n.Kind == ast.KindElement && n.Tag == "pre" {
		normalizePreChildren(n)
		return
	}
	if mode == WhitespaceCondense {
		condenseChildren(n)
	}
	for _, c := range n.Children {
		applyWhitespacePolicy(c, mode)
	}
}

func normalizePreChildren(n *ast.Node) {
	for _, c := range n.Children {
		if c.Kind == ast.KindText {
			c.Text = crlfToLF(c.Text)
		}
	}
}

func crlfToLF(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\r' && i+1 < len(s) && s[i+1] == '\n' {
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}

func condenseChildren(n *ast.Node) {
	kept := n.Children[:0:0]
	for i, c := range n.Children {
		if c.Kind != ast.KindText {
			kept = append(kept, c)
			continue
		}
		hadNewline := containsNewline(c.Text)
		collapsed := collapseWhitespaceRuns(c.Text)
		if isBlank(collapsed) {
			if shouldDropBlank(n, i, hadNewline) {
				continue
			}
			c.Text = " "
			kept = append(kept, c)
			continue
		}
		c.Text = collapsed
		kept = append(kept, c)
	}
	n.Children = kept
}

// shouldDropBlank decides whether a whitespace-only text node at
// index i among n's original children should be dropped entirely:
// first/last among siblings, adjacent to a comment, or between two
// elements when the original (pre-collapse) text spanned a newline.
func shouldDropBlank(n *ast.Node, i int, hadNewline bool) bool {
	siblings := n.Children
	if i == 0 || i == len(siblings)-1 {
		return true
	}
	prev, next := siblings[i-1], siblings[i+1]
	if prev.Kind == ast.KindComment || next.Kind == ast.KindComment {
		return true
	}
	if prev.Kind == ast.KindElement && next.Kind == ast.KindElement && hadNewline {
		return true
	}
	return false
}

func containsNewline(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return true
		}
	}
	return false
}

func isBlank(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isWS(s[i]) {
			return false
		}
	}
	return true
}

func isWS(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}

// collapseWhitespaceRuns collapses any run of whitespace bytes to a
// single space, matching condense mode's text-node normalization.
func collapseWhitespaceRuns(s string) string {
	out := make([]byte, 0, len(s))
	inRun := false
	for i := 0; i < len(s); i++ {
		if isWS(s[i]) {
			if !inRun {
				out = append(out, ' ')
				inRun = true
			}
			continue
		}
		inRun = false
		out = append(out, s[i])
	}
	return string(out)
}
