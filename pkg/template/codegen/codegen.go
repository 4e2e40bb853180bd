// Package codegen turns a render program (package transform) into an
// executable render closure. Rather than emitting Go source text — a
// build-pipeline concern out of scope here — the generator walks the
// render-program tree once, at compile time, parsing every expression
// it finds via package expr, and returns a func(expr.Scope)
// *vdom.VNode that re-evaluates just those expressions on each call.
// This is the idiomatic Go rendition of "a render function" for a
// framework with no separate source-to-source compile step: the
// teacher's closest analogue is the variadic VNode-builder idiom its
// (now generalized) pkg/vdom/elements.go used for hand-written trees.
package codegen

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/vireo-dev/vireo/pkg/template/ast"
	"github.com/vireo-dev/vireo/pkg/template/expr"
	"github.com/vireo-dev/vireo/pkg/template/transform"
	"github.com/vireo-dev/vireo/pkg/vdom"
)

// RenderFunc renders one compiled template under the given scope.
type RenderFunc func(scope expr.Scope) *vdom.VNode

// Compile lowers a render program into a RenderFunc. A template with
// more than one top-level node compiles to a Fragment wrapping all of
// them, matching VNode's role as "grouping without a wrapper element".
func Compile(program *transform.RNode) RenderFunc {
	c := &compiler{}
	childFns := make([]RenderFunc, len(program.Children))
	for i, ch := range program.Children {
		childFns[i] = c.compile(ch)
	}
	children := program.Children

	switch len(childFns) {
	case 0:
		return func(expr.Scope) *vdom.VNode { return vdom.NewComment("") }
	case 1:
		only, onlyNode := childFns[0], children[0]
		return func(scope expr.Scope) *vdom.VNode {
			vn := only(scope)
			if vn != nil && vn.Kind == vdom.KindElement {
				attachBlockChildren(onlyNode, vn)
			}
			return vn
		}
	default:
		return func(scope expr.Scope) *vdom.VNode {
			frag := vdom.NewFragment(nil, renderAll(childFns, scope)...)
			return frag
		}
	}
}

type compiler struct{}

func (c *compiler) compile(r *transform.RNode) RenderFunc {
	switch {
	case r.If != nil:
		return c.compileIf(r)
	case r.For != nil:
		return c.compileFor(r)
	case r.Static:
		return c.compileStatic(r)
	}
	switch r.Kind {
	case ast.KindInterpolation:
		return c.compileInterpolation(r)
	case ast.KindElement:
		return c.compileElement(r)
	default: // Text, Comment
		return c.compileStatic(r)
	}
}

func renderAll(fns []RenderFunc, scope expr.Scope) []*vdom.VNode {
	out := make([]*vdom.VNode, len(fns))
	for i, fn := range fns {
		out[i] = fn(scope)
	}
	return out
}

// --- static (text, comment, fully static element subtree) ---

func (c *compiler) compileStatic(r *transform.RNode) RenderFunc {
	vn := c.buildStatic(r)
	return func(expr.Scope) *vdom.VNode { return vn }
}

func (c *compiler) buildStatic(r *transform.RNode) *vdom.VNode {
	switch r.Kind {
	case ast.KindComment:
		return vdom.NewComment(r.Source.Text)
	case ast.KindElement:
		children := make([]*vdom.VNode, len(r.Children))
		for i, ch := range r.Children {
			children[i] = c.buildStatic(ch)
		}
		vn := vdom.NewElement(r.Source.Tag, staticProps(r.Source), children...)
		vn.PatchFlag = vdom.FlagHoisted
		return vn
	default: // Text
		text := ""
		if r.Source != nil {
			text = r.Source.Text
		}
		return vdom.NewText(text)
	}
}

func staticProps(n *ast.Node) vdom.Props {
	if len(n.Attrs) == 0 {
		return nil
	}
	props := make(vdom.Props, len(n.Attrs))
	for _, a := range n.Attrs {
		props[a.Name] = a.Value
	}
	return props
}

// --- interpolation ---

func (c *compiler) compileInterpolation(r *transform.RNode) RenderFunc {
	e := expr.MustParse(r.Source.Text)
	return func(scope expr.Scope) *vdom.VNode {
		v, err := e.Eval(scope)
		if err != nil {
			return vdom.NewText(fmt.Sprintf("{%s}", err))
		}
		return vdom.NewText(stringify(v))
	}
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// --- element ---

type boundAttr struct {
	name string
	expr expr.Expr
}

func (c *compiler) compileElement(r *transform.RNode) RenderFunc {
	n := r.Source
	childFns := make([]RenderFunc, len(r.Children))
	for i, ch := range r.Children {
		childFns[i] = c.compile(ch)
	}
	staticAttrs := staticProps(n)

	var binds, events []boundAttr
	var spreads []expr.Expr
	for _, d := range n.Directives {
		switch d.Name {
		case "bind":
			switch {
			case d.Arg == "" || d.DynamicArg:
				spreads = append(spreads, expr.MustParse(d.Expr))
			default:
				binds = append(binds, boundAttr{name: d.Arg, expr: expr.MustParse(d.Expr)})
			}
		case "on":
			events = append(events, boundAttr{name: d.Arg, expr: expr.MustParse(d.Expr)})
		case "show":
			binds = append(binds, boundAttr{name: "__vShow", expr: expr.MustParse(d.Expr)})
		}
	}

	textOnly := r.PatchFlag.Has(vdom.FlagText) && len(childFns) == 1
	tag := n.Tag
	patchFlag, shapeFlag, dynProps := r.PatchFlag, r.ShapeFlag, r.DynamicPropNames

	return func(scope expr.Scope) *vdom.VNode {
		props := make(vdom.Props, len(staticAttrs)+len(binds)+len(events))
		for k, v := range staticAttrs {
			props[k] = v
		}
		for _, sp := range spreads {
			if v, err := sp.Eval(scope); err == nil {
				mergeSpread(props, v)
			}
		}
		for _, b := range binds {
			if v, err := b.expr.Eval(scope); err == nil {
				props[b.name] = v
			}
		}
		for _, ev := range events {
			if v, err := ev.expr.Eval(scope); err == nil {
				props["on"+capitalize(ev.name)] = v
			}
		}

		vn := &vdom.VNode{Kind: vdom.KindElement, Tag: tag, Props: props}
		if textOnly {
			if cv := childFns[0](scope); cv != nil {
				vn.Text = cv.Text
			}
		} else if len(childFns) > 0 {
			vn.Children = renderAll(childFns, scope)
		}
		vn.PatchFlag = patchFlag
		vn.ShapeFlag = shapeFlag
		vn.DynamicProps = dynProps
		return vn
	}
}

func mergeSpread(props vdom.Props, v any) {
	if m, ok := v.(map[string]any); ok {
		for k, val := range m {
			props[k] = val
		}
		return
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return
	}
	for _, k := range rv.MapKeys() {
		if ks, ok := k.Interface().(string); ok {
			props[ks] = rv.MapIndex(k).Interface()
		}
	}
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

// --- v-if / v-else-if / v-else ---

type compiledBranch struct {
	cond   expr.Expr // nil for the trailing else
	node   *transform.RNode
	render RenderFunc
}

func (c *compiler) compileIf(r *transform.RNode) RenderFunc {
	branches := make([]compiledBranch, len(r.If))
	for i, b := range r.If {
		var ce expr.Expr
		if strings.TrimSpace(b.Cond) != "" {
			ce = expr.MustParse(b.Cond)
		}
		branches[i] = compiledBranch{cond: ce, node: b.Node, render: c.compile(b.Node)}
	}

	return func(scope expr.Scope) *vdom.VNode {
		for _, b := range branches {
			if b.cond == nil {
				return finalizeBranch(b.node, b.render(scope))
			}
			if v, err := b.cond.Eval(scope); err == nil && expr.Truthy(v) {
				return finalizeBranch(b.node, b.render(scope))
			}
		}
		return vdom.NewComment("v-if")
	}
}

func finalizeBranch(node *transform.RNode, vn *vdom.VNode) *vdom.VNode {
	if vn != nil && vn.Kind == vdom.KindElement {
		attachBlockChildren(node, vn)
	}
	return vn
}

// --- v-for ---

func (c *compiler) compileFor(r *transform.RNode) RenderFunc {
	body := &transform.RNode{
		Source:           r.Source,
		Kind:             r.Kind,
		PatchFlag:        r.PatchFlag,
		ShapeFlag:        r.ShapeFlag,
		DynamicPropNames: r.DynamicPropNames,
		Children:         r.Children,
	}
	bodyFn := c.compile(body)
	srcExpr := expr.MustParse(r.For.Source)
	binding := r.For

	return func(scope expr.Scope) *vdom.VNode {
		src, err := srcExpr.Eval(scope)
		if err != nil || src == nil {
			return vdom.NewFragment(nil)
		}
		locals, keys := iterate(src, binding)
		children := make([]*vdom.VNode, len(locals))
		for i, l := range locals {
			childScope := expr.ChildScope{Parent: scope, Locals: l}
			vn := bodyFn(childScope)
			if vn != nil {
				vn.Key = keys[i]
				if vn.Kind == vdom.KindElement {
					attachBlockChildren(body, vn)
				}
			}
			children[i] = vn
		}
		frag := vdom.NewFragment(nil, children...)
		frag.PatchFlag = vdom.FlagKeyedFragment
		return frag
	}
}

// iterate reflects over a v-for source — a sequence, a map, an integer
// range, or a plain object (struct, iterated over its own fields) — and
// builds the per-iteration local bindings and reconciliation keys.
func iterate(src any, b *ast.ForBinding) (locals []map[string]any, keys []any) {
	rv := reflect.ValueOf(src)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		n := rv.Len()
		locals = make([]map[string]any, n)
		keys = make([]any, n)
		for i := 0; i < n; i++ {
			m := map[string]any{b.Value: rv.Index(i).Interface()}
			if b.Key != "" {
				m[b.Key] = i
			}
			if b.Index != "" {
				m[b.Index] = i
			}
			locals[i] = m
			keys[i] = i
		}
	case reflect.Map:
		mkeys := rv.MapKeys()
		locals = make([]map[string]any, len(mkeys))
		keys = make([]any, len(mkeys))
		for i, k := range mkeys {
			m := map[string]any{b.Value: rv.MapIndex(k).Interface()}
			if b.Key != "" {
				m[b.Key] = k.Interface()
			}
			if b.Index != "" {
				m[b.Index] = i
			}
			locals[i] = m
			keys[i] = fmt.Sprint(k.Interface())
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := int(rv.Int())
		locals, keys = iterateRange(n, b)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n := int(rv.Uint())
		locals, keys = iterateRange(n, b)
	case reflect.Struct:
		t := rv.Type()
		n := rv.NumField()
		locals = make([]map[string]any, 0, n)
		keys = make([]any, 0, n)
		for i := 0; i < n; i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			m := map[string]any{b.Value: rv.Field(i).Interface()}
			if b.Key != "" {
				m[b.Key] = f.Name
			}
			if b.Index != "" {
				m[b.Index] = len(locals)
			}
			locals = append(locals, m)
			keys = append(keys, f.Name)
		}
	}
	return locals, keys
}

// iterateRange produces the 1-indexed `n in source` bindings an
// integer v-for source yields (`v-for="n in 5"` iterates 1..5).
func iterateRange(n int, b *ast.ForBinding) (locals []map[string]any, keys []any) {
	if n < 0 {
		n = 0
	}
	locals = make([]map[string]any, n)
	keys = make([]any, n)
	for i := 0; i < n; i++ {
		m := map[string]any{b.Value: i + 1}
		if b.Key != "" {
			m[b.Key] = i
		}
		if b.Index != "" {
			m[b.Index] = i
		}
		locals[i] = m
		keys[i] = i
	}
	return locals, keys
}

// --- block scope: attach DynamicChildren to a freshly built VNode ---

// attachBlockChildren walks r's children and the already-rendered vn's
// children in lockstep, collecting every non-static descendant (down
// to, but not across, a nested block boundary) into vn.DynamicChildren
// — the flattened list the reconciler's block fast path walks instead
// of re-diffing the full subtree.
func attachBlockChildren(r *transform.RNode, vn *vdom.VNode) {
	if len(r.Children) == 0 || len(r.Children) != len(vn.Children) {
		return
	}
	var dyn []*vdom.VNode
	gatherDynamic(r, vn, &dyn)
	if len(dyn) > 0 {
		vn.DynamicChildren = dyn
	}
}

func gatherDynamic(rParent *transform.RNode, vParent *vdom.VNode, out *[]*vdom.VNode) {
	for i, rc := range rParent.Children {
		if i >= len(vParent.Children) {
			break
		}
		vc := vParent.Children[i]
		if !rc.Static {
			*out = append(*out, vc)
		}
		if rc.Block || vc == nil || vc.Kind != vdom.KindElement {
			continue
		}
		gatherDynamic(rc, vc, out)
	}
}
