// Package transform lowers a parsed template AST into a render
// program: a tree of RNodes annotated with patch flags, shape flags,
// static-hoisting, and block scope, which package codegen walks to
// build the final render closure.
//
// This generalizes the dispatch-table shape pkg/vdom/patch.go already
// uses for diffing (`switch n2.Kind { ... }`) to a compile-time DFS
// that visits the template AST once and assigns the same flags the
// reconciler later reads, rather than rediscovering them during every
// diff.
package transform

import (
	"github.com/vireo-dev/vireo/pkg/template/ast"
	"github.com/vireo-dev/vireo/pkg/vdom"
)

// RNode is one node of the render program.
type RNode struct {
	Source *ast.Node // nil for the synthetic wrapper produced for an if/else-if/else chain

	Kind ast.Kind

	// Static is true when this node and its whole subtree never change
	// between renders (no directives, no interpolation anywhere
	// beneath it) — codegen builds it once and hands the reconciler
	// the same *vdom.VNode pointer on every render.
	Static bool

	PatchFlag vdom.PatchFlag
	ShapeFlag vdom.ShapeFlag

	// DynamicPropNames lists the bound-attribute names this node's
	// PatchFlag's FlagProps bit refers to.
	DynamicPropNames []string

	// Block marks a node that opens block scope: its render captures
	// every dynamic descendant into Dynamic (flattened, pre-order)
	// instead of requiring the reconciler to walk Children to find
	// them. Root, and any node carrying v-if/v-for, opens a block.
	Block   bool
	Dynamic []*RNode

	Children []*RNode

	// If is set on the synthetic node replacing a v-if/else-if/else
	// sibling run.
	If []IfBranch

	// For is the v-for binding carried over from the source node, set
	// when this RNode renders once per item in a collection.
	For *ast.ForBinding
}

// IfBranch is one arm of a folded v-if/else-if/else chain. Cond is ""
// for the trailing else (if present).
type IfBranch struct {
	Cond string
	Node *RNode
}

// Transform lowers a parsed template root into a render program.
func Transform(root *ast.Node) *RNode {
	r := lower(root)
	r.Block = true
	collectDynamic(r, r)
	return r
}

func lower(n *ast.Node) *RNode {
	r := &RNode{Source: n, Kind: n.Kind}

	switch n.Kind {
	case ast.KindText:
		r.Static = true
		return r
	case ast.KindComment:
		r.Static = true
		return r
	case ast.KindInterpolation:
		r.Static = false
		return r
	}

	r.Children = lowerChildren(n.Children)

	if n.Kind != ast.KindElement {
		r.Static = allStatic(r.Children)
		return r
	}

	assignElementFlags(n, r)

	if forBinding := n.For; forBinding != nil {
		r.For = forBinding
		r.Block = true
	}

	r.Static = r.PatchFlag == 0 && n.ElementKind == ast.ElementPlain && allStatic(r.Children) && r.For == nil
	if r.Static {
		r.PatchFlag = vdom.FlagHoisted
	}
	return r
}

// lowerChildren lowers a sibling list, folding any v-if/else-if/else
// run into one synthetic conditional RNode.
func lowerChildren(children []*ast.Node) []*RNode {
	var out []*RNode
	i := 0
	for i < len(children) {
		c := children[i]
		if c.HasDirective("if") {
			branch := IfBranch{Cond: c.Directive("if").Expr, Node: lower(c)}
			branches := []IfBranch{branch}
			j := i + 1
			for j < len(children) {
				next := children[j]
				if d := next.Directive("else-if"); d != nil {
					branches = append(branches, IfBranch{Cond: d.Expr, Node: lower(next)})
					j++
					continue
				}
				if next.HasDirective("else") {
					branches = append(branches, IfBranch{Cond: "", Node: lower(next)})
					j++
				}
				break
			}
			out = append(out, &RNode{Kind: ast.KindElement, If: branches, Block: true})
			i = j
			continue
		}
		out = append(out, lower(c))
		i++
	}
	return out
}

func allStatic(nodes []*RNode) bool {
	for _, n := range nodes {
		if !n.Static {
			return false
		}
	}
	return true
}

// assignElementFlags inspects an Element node's directives and sets
// the PatchFlag/ShapeFlag/DynamicPropNames a codegen'd VNode needs for
// the reconciler to skip static facets, per the stable flag values in
// pkg/vdom/flags.go.
func assignElementFlags(n *ast.Node, r *RNode) {
	r.ShapeFlag = vdom.ShapeElement
	if len(r.Children) == 1 && r.Children[0].Kind == ast.KindInterpolation {
		r.PatchFlag |= vdom.FlagText
		r.ShapeFlag |= vdom.ShapeTextChildren
	} else if len(r.Children) > 0 {
		r.ShapeFlag |= vdom.ShapeArrayChildren
	}

	for _, d := range n.Directives {
		switch d.Name {
		case "bind":
			switch {
			case d.Arg == "" || d.DynamicArg:
				r.PatchFlag |= vdom.FlagFullProps
			case d.Arg == "class":
				r.PatchFlag |= vdom.FlagClass
			case d.Arg == "style":
				r.PatchFlag |= vdom.FlagStyle
			default:
				r.PatchFlag |= vdom.FlagProps
				r.DynamicPropNames = append(r.DynamicPropNames, d.Arg)
			}
		case "on":
			r.PatchFlag |= vdom.FlagProps
			r.DynamicPropNames = append(r.DynamicPropNames, "on"+capitalize(d.Arg))
		case "model", "show":
			r.PatchFlag |= vdom.FlagNeedPatch
		}
	}

	if n.ElementKind == ast.ElementComponent {
		r.ShapeFlag &^= vdom.ShapeElement
		r.ShapeFlag |= vdom.ShapeFunctionalComponent
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}

// collectDynamic populates each block's Dynamic list with every
// non-static descendant down to (but not crossing into) a nested
// block's own subtree. An interpolation that is the only child of an
// element carrying FlagText is not listed: that element covers it.
func collectDynamic(block, n *RNode) {
	for _, c := range n.Children {
		if !c.Static && !(c.Kind == ast.KindInterpolation && n.PatchFlag.Has(vdom.FlagText)) {
			block.Dynamic = append(block.Dynamic, c)
		}
		if c.Block {
			collectDynamic(c, c)
		} else {
			collectDynamic(block, c)
		}
	}
	for _, branch := range n.If {
		block.Dynamic = append(block.Dynamic, branch.Node)
		collectDynamic(branch.Node, branch.Node)
	}
}
