// Package ast defines the template AST: the tagged-variant tree the
// parser builds from tokenizer events and the transform stage
// consumes. Nothing in this package runs at render time — it is pure
// compile-time data.
package ast

// Kind discriminates the variant a Node holds.
type Kind uint8

const (
	KindRoot Kind = iota
	KindElement
	KindText
	KindInterpolation
	KindComment
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "Root"
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindInterpolation:
		return "Interpolation"
	case KindComment:
		return "Comment"
	default:
		return "Unknown"
	}
}

// ElementKind classifies an Element node on close, once its tag name
// and directive list are known.
type ElementKind uint8

const (
	ElementPlain ElementKind = iota // ordinary host tag
	ElementComponent
	ElementSlot
	ElementTemplate
)

// Namespace selects which tag/attribute rules apply to an Element.
type Namespace uint8

const (
	NamespaceHTML Namespace = iota
	NamespaceSVG
	NamespaceMathML
)

// Location is a node's span in the source text, plus the line/column
// of its start offset for diagnostics.
type Location struct {
	Start, End  int
	Line, Column int
}

// Attribute is a plain (non-directive) attribute: a literal name and
// literal text value, no expression.
type Attribute struct {
	Name  string
	Value string
	Loc   Location
}

// Directive is a `v-xxx`/`:xxx`/`@xxx`/`#xxx`/`.xxx` binding. Arg and
// Modifiers are populated from the attribute name's own syntax;
// DynamicArg is true when the argument was written `[expr]`. Expr is
// the directive's raw value text, parsed as an expression downstream
// by package transform — this package never evaluates it.
type Directive struct {
	Name       string // "bind", "on", "if", "for", "model", "slot", "pre", "once", "show", "text", "html", "cloak", ...
	RawName    string // the attribute's literal source text, e.g. "v-on:click.stop" or "@click.stop"
	Arg        string
	DynamicArg bool
	Modifiers  []string
	Expr       string
	Loc        Location
}

// ForBinding is the parsed `(value, key, index) in source` form of a
// v-for directive's expression, split out during attribute
// finalization so transform doesn't need to re-parse it.
type ForBinding struct {
	Value  string // required
	Key    string // "" if not destructured
	Index  string // "" if not destructured
	Source string
}

// Node is one template AST node. Which fields are meaningful depends
// on Kind: Element uses Tag/Namespace/ElementKind/Attrs/Directives/
// Children/SelfClosing; Text/Comment use Text; Interpolation uses
// Expr. Root uses only Children.
type Node struct {
	Kind Kind
	Loc  Location

	// Element fields.
	Tag         string
	Namespace   Namespace
	ElementKind ElementKind
	Attrs       []*Attribute
	Directives  []*Directive
	SelfClosing bool

	// v-for binding, set on the Node carrying the v-for directive
	// (populated by the parser's attribute finalization, consumed by
	// transform's structural-directive pass).
	For *ForBinding

	// Text/Comment content, or the raw source of an Interpolation
	// expression.
	Text string

	Children []*Node

	// Parent is nil for Root and is never traversed by transform
	// (transform works top-down); kept for parser bookkeeping and
	// diagnostics that want an ancestor chain.
	Parent *Node
}

// NewRoot creates an empty root node.
func NewRoot() *Node {
	return &Node{Kind: KindRoot}
}

// Directive looks up the first directive named name on an Element
// node, or nil if none is present.
func (n *Node) Directive(name string) *Directive {
	if n == nil {
		return nil
	}
	for _, d := range n.Directives {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// HasDirective reports whether n carries a directive named name.
func (n *Node) HasDirective(name string) bool {
	return n.Directive(name) != nil
}

// Attr looks up a plain attribute by name, or nil if absent.
func (n *Node) Attr(name string) *Attribute {
	if n == nil {
		return nil
	}
	for _, a := range n.Attrs {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// AppendChild appends child to n's children and sets its Parent.
func (n *Node) AppendChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}
