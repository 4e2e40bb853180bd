// Package parser consumes a tokenizer's event stream and builds the
// template AST: an ancestor stack of open elements, attribute
// finalization (plain vs. directive, v-for alias splitting, v-pre
// literal mode), whitespace condensing, and element classification.
package parser

import (
	"regexp"
	"strings"

	vireoerrors "github.com/vireo-dev/vireo/internal/errors"
	"github.com/vireo-dev/vireo/pkg/template/ast"
	"github.com/vireo-dev/vireo/pkg/template/token"
)

// WhitespaceMode selects how text nodes are trimmed.
type WhitespaceMode uint8

const (
	WhitespaceCondense WhitespaceMode = iota // default: collapse runs, drop boundary-only whitespace
	WhitespacePreserve
)

// Options configures a Parse call.
type Options struct {
	Whitespace          WhitespaceMode
	DelimOpen, DelimClose string // defaults "{{" / "}}"
	File                string
	Mode                token.Mode
}

// Parse tokenizes and parses src, returning the root AST node and
// every error collected along the way (the parser never stops on an
// error — it resynchronizes and keeps going, like the tokenizer).
func Parse(src string, opts Options) (*ast.Node, []*vireoerrors.FrameworkError) {
	p := &Parser{
		src:        src,
		ws:         opts.Whitespace,
		file:       opts.File,
		delimOpen:  "{{",
		delimClose: "}}",
	}
	if opts.DelimOpen != "" {
		p.delimOpen, p.delimClose = opts.DelimOpen, opts.DelimClose
	}
	root := ast.NewRoot()
	p.stack = []*ast.Node{root}
	p.preStack = []bool{false}

	tok := token.New(src, p).WithFile(opts.File).WithMode(opts.Mode).WithDelimiters(p.delimOpen, p.delimClose)
	p.tok = tok
	tok.Run()
	p.errs = append(p.errs, tok.Errors()...)

	for len(p.stack) > 1 {
		top := p.stack[len(p.stack)-1]
		p.errs = append(p.errs, vireoerrors.New("E002").WithLocation(opts.File, top.Loc.Line, top.Loc.Column))
		p.closeTop()
	}

	applyWhitespacePolicy(root, p.ws)
	return root, p.errs
}

type rawAttr struct {
	Name, Value string
	HasValue    bool
	Loc         ast.Location
}

// Parser implements token.Sink, consuming one token at a time and
// maintaining the open-element ancestor stack.
type Parser struct {
	src  string
	file string
	tok  *token.Tokenizer

	stack    []*ast.Node
	preStack []bool // parallel to stack: did this element introduce v-pre

	building *ast.Node
	rawAttrs []rawAttr

	ws                    WhitespaceMode
	delimOpen, delimClose string

	errs []*vireoerrors.FrameworkError
}

func (p *Parser) loc(start, end int) ast.Location {
	line, col := p.tok.LineCol(start)
	return ast.Location{Start: start, End: end, Line: line, Column: col}
}

func (p *Parser) errorAt(code string, loc ast.Location) {
	p.errs = append(p.errs, vireoerrors.New(code).WithLocation(p.file, loc.Line, loc.Column))
}

func (p *Parser) currentParent() *ast.Node { return p.stack[len(p.stack)-1] }

func (p *Parser) inPre() bool { return len(p.preStack) > 0 && p.preDepth() > 0 }

func (p *Parser) preDepth() int {
	n := 0
	for _, v := range p.preStack {
		if v {
			n++
		}
	}
	return n
}

func (p *Parser) appendChild(n *ast.Node) { p.currentParent().AppendChild(n) }

// Emit implements token.Sink.
func (p *Parser) Emit(tok token.Token) {
	switch tok.Kind {
	case token.KindStartTagName:
		// Tag name case is preserved (not lowercased): component tags are
		// conventionally PascalCase and that casing is what resolves the
		// component by name downstream. Lookups against known HTML tag
		// sets below compare a lowercased copy instead.
		tag := p.src[tok.Start:tok.End]
		p.building = &ast.Node{Kind: ast.KindElement, Tag: tag, Loc: p.loc(tok.Start, tok.End)}
		p.rawAttrs = nil

	case token.KindAttrName:
		p.rawAttrs = append(p.rawAttrs, rawAttr{Name: p.src[tok.Start:tok.End], Loc: p.loc(tok.Start, tok.End)})

	case token.KindAttrValue:
		if n := len(p.rawAttrs); n > 0 {
			p.rawAttrs[n-1].Value = p.src[tok.Start:tok.End]
			p.rawAttrs[n-1].HasValue = true
		}

	case token.KindStartTagEnd:
		p.finalizeOpenTag(false)

	case token.KindSelfClose:
		p.finalizeOpenTag(true)

	case token.KindEndTagName:
		name := p.src[tok.Start:tok.End]
		p.closeMatching(name, p.loc(tok.Start, tok.End))

	case token.KindText:
		raw := p.src[tok.Start:tok.End]
		text := raw
		if !p.inPre() {
			text = token.DecodeEntities(raw, false)
		}
		p.appendChild(&ast.Node{Kind: ast.KindText, Text: text, Loc: p.loc(tok.Start, tok.End)})

	case token.KindComment:
		p.appendChild(&ast.Node{Kind: ast.KindComment, Text: p.src[tok.Start:tok.End], Loc: p.loc(tok.Start, tok.End)})

	case token.KindInterpolation:
		loc := p.loc(tok.Start, tok.End)
		if p.inPre() {
			literal := p.delimOpen + p.src[tok.Start:tok.End] + p.delimClose
			p.appendChild(&ast.Node{Kind: ast.KindText, Text: literal, Loc: loc})
			return
		}
		expr := strings.TrimSpace(p.src[tok.Start:tok.End])
		p.appendChild(&ast.Node{Kind: ast.KindInterpolation, Text: expr, Loc: loc})

	case token.KindEOF:
		// Unclosed elements are handled by Parse after Run returns.
	}
}

func (p *Parser) finalizeOpenTag(selfClosing bool) {
	n := p.building
	attrs := p.rawAttrs
	p.building, p.rawAttrs = nil, nil

	hasPre := false
	for _, a := range attrs {
		if a.Name == "v-pre" {
			hasPre = true
		}
	}
	forcePlain := p.inPre() || hasPre

	for _, a := range attrs {
		p.classifyAttribute(n, a, forcePlain)
	}

	lower := strings.ToLower(n.Tag)
	n.Namespace = p.currentParent().Namespace
	switch lower {
	case "svg":
		n.Namespace = ast.NamespaceSVG
	case "math":
		n.Namespace = ast.NamespaceMathML
	case "foreignobject", "desc", "title":
		if p.currentParent().Namespace == ast.NamespaceSVG {
			n.Namespace = ast.NamespaceHTML
		}
	}

	n.SelfClosing = selfClosing || voidElements[lower]
	p.appendChild(n)

	if n.SelfClosing {
		// No matching end tag will ever pop this node through closeTop,
		// so classify it here instead.
		classifyElementKind(n)
		return
	}
	p.stack = append(p.stack, n)
	p.preStack = append(p.preStack, hasPre)
}

func (p *Parser) closeMatching(name string, loc ast.Location) {
	found := false
	for i := len(p.stack) - 1; i >= 1; i-- {
		if strings.EqualFold(p.stack[i].Tag, name) {
			found = true
			break
		}
	}
	if !found {
		return // stray end tag with no open match; ignored
	}
	for len(p.stack) > 1 {
		top := p.stack[len(p.stack)-1]
		match := strings.EqualFold(top.Tag, name)
		p.closeTop()
		if !match {
			p.errs = append(p.errs, vireoerrors.Newf(vireoerrors.CategoryCompile,
				"implicitly closed <%s> while looking for matching </%s>", top.Tag, name).WithLocation(p.file, loc.Line, loc.Column))
			continue
		}
		break
	}
}

func (p *Parser) closeTop() {
	top := p.stack[len(p.stack)-1]
	wasPre := p.preStack[len(p.preStack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	p.preStack = p.preStack[:len(p.preStack)-1]
	_ = wasPre
	classifyElementKind(top)
}

// classifyAttribute splits a raw (name, value) pair into either a
// plain ast.Attribute or an ast.Directive, per the directive-prefix
// rules: "v-name", ":arg"/"@arg"/"#arg" shorthands, and ".prop"
// bind-with-prop-modifier shorthand.
func (p *Parser) classifyAttribute(n *ast.Node, a rawAttr, forcePlain bool) {
	if forcePlain {
		n.Attrs = append(n.Attrs, &ast.Attribute{Name: a.Name, Value: token.DecodeEntities(a.Value, true), Loc: a.Loc})
		return
	}

	name, rest, isDirective := classifyAttrName(a.Name)
	if !isDirective {
		n.Attrs = append(n.Attrs, &ast.Attribute{Name: a.Name, Value: token.DecodeEntities(a.Value, true), Loc: a.Loc})
		return
	}
	if name == "" {
		p.errorAt("E013", a.Loc)
		return
	}

	arg, dynamic, mods := splitArgModifiers(rest)
	if strings.HasPrefix(a.Name, ".") {
		mods = append(mods, "prop")
	}

	d := &ast.Directive{
		Name:       name,
		RawName:    a.Name,
		Arg:        arg,
		DynamicArg: dynamic,
		Modifiers:  mods,
		Expr:       a.Value,
		Loc:        a.Loc,
	}

	if name == "for" {
		if binding, ok := parseForBinding(a.Value); ok {
			n.For = binding
		} else {
			p.errorAt("E014", a.Loc)
		}
	}

	if name == "else" || name == "else-if" {
		siblings := p.currentParent().Children
		prevHasIf := len(siblings) > 0 &&
			(siblings[len(siblings)-1].HasDirective("if") || siblings[len(siblings)-1].HasDirective("else-if"))
		if !prevHasIf {
			p.errorAt("E015", a.Loc)
		}
	}

	n.Directives = append(n.Directives, d)
}

// classifyAttrName recognizes the directive-shaped attribute name
// syntaxes. isDirective is false for a plain attribute name; name=""
// with isDirective true means a bare "v-" with nothing after it.
func classifyAttrName(raw string) (name, rest string, isDirective bool) {
	switch {
	case strings.HasPrefix(raw, "v-"):
		body := raw[2:]
		if body == "" {
			return "", "", true
		}
		sep := strings.IndexAny(body, ":.")
		if sep == -1 {
			return body, "", true
		}
		return body[:sep], body[sep:], true
	case strings.HasPrefix(raw, ":"):
		return "bind", raw[1:], true
	case strings.HasPrefix(raw, "@"):
		return "on", raw[1:], true
	case strings.HasPrefix(raw, "#"):
		return "slot", raw[1:], true
	case strings.HasPrefix(raw, ".") && len(raw) > 1:
		return "bind", raw[1:], true
	default:
		return "", "", false
	}
}

// splitArgModifiers splits a directive's post-name remainder into an
// argument (static or, via "[expr]", dynamic) and a modifier list.
func splitArgModifiers(rest string) (arg string, dynamic bool, mods []string) {
	rest = strings.TrimPrefix(rest, ":")
	switch {
	case strings.HasPrefix(rest, "["):
		if idx := strings.IndexByte(rest, ']'); idx >= 0 {
			arg = rest[1:idx]
			dynamic = true
			rest = rest[idx+1:]
		}
	case strings.IndexByte(rest, '.') >= 0:
		dot := strings.IndexByte(rest, '.')
		arg = rest[:dot]
		rest = rest[dot:]
	default:
		arg = rest
		rest = ""
	}
	for _, m := range strings.Split(rest, ".") {
		if m != "" {
			mods = append(mods, m)
		}
	}
	return
}

var forRe = regexp.MustCompile(`^\(?\s*([^\s,()]+)\s*(?:,\s*([^\s,()]+))?\s*(?:,\s*([^\s,()]+))?\s*\)?\s+(?:in|of)\s+(.+)$`)

// parseForBinding splits a v-for expression around its `in`/`of`
// alias operator into the destructured (value, key, index) triple and
// the source expression.
func parseForBinding(expr string) (*ast.ForBinding, bool) {
	m := forRe.FindStringSubmatch(strings.TrimSpace(expr))
	if m == nil {
		return nil, false
	}
	return &ast.ForBinding{Value: m[1], Key: m[2], Index: m[3], Source: strings.TrimSpace(m[4])}, true
}

// classifyElementKind sets n.ElementKind once the element is fully
// parsed (attributes and directives known).
func classifyElementKind(n *ast.Node) {
	lower := strings.ToLower(n.Tag)
	switch {
	case lower == "slot":
		n.ElementKind = ast.ElementSlot
	case lower == "template" && (n.HasDirective("if") || n.HasDirective("else-if") || n.HasDirective("else") ||
		n.HasDirective("for") || n.HasDirective("slot")):
		n.ElementKind = ast.ElementTemplate
	case isComponentTag(n.Tag, lower):
		n.ElementKind = ast.ElementComponent
	default:
		n.ElementKind = ast.ElementPlain
	}
}

// isComponentTag reports whether a tag resolves to a component rather
// than a host element: a recognized built-in, an uppercase-initial
// name (PascalCase component convention), or any name absent from the
// representative native-HTML-tag set.
func isComponentTag(original, lower string) bool {
	if lower == "" {
		return false
	}
	if builtinComponents[lower] {
		return true
	}
	if r := original[0]; r >= 'A' && r <= 'Z' {
		return true
	}
	return !nativeTags[lower]
}

var builtinComponents = map[string]bool{
	"transition": true, "transitiongroup": true, "keepalive": true,
	"teleport": true, "suspense": true, "component": true,
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

var nativeTags = map[string]bool{
	"html": true, "head": true, "body": true, "title": true, "meta": true, "link": true,
	"script": true, "style": true, "div": true, "span": true, "p": true, "a": true,
	"ul": true, "ol": true, "li": true, "table": true, "thead": true, "tbody": true,
	"tr": true, "td": true, "th": true, "form": true, "label": true, "input": true,
	"button": true, "select": true, "option": true, "textarea": true, "img": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "footer": true, "nav": true, "main": true, "section": true,
	"article": true, "aside": true, "figure": true, "figcaption": true, "pre": true,
	"code": true, "em": true, "strong": true, "small": true, "br": true, "hr": true,
	"template": true, "slot": true, "svg": true, "path": true, "circle": true,
	"rect": true, "g": true, "math": true, "video": true, "audio": true,
	"canvas": true, "iframe": true, "b": true, "i": true, "u": true, "blockquote": true, "source": true,
}
