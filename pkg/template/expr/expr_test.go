package expr

import "testing"

func eval(t *testing.T, src string, scope Scope) any {
	t.Helper()
	e, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	v, err := e.Eval(scope)
	if err != nil {
		t.Fatalf("Eval(%q): %v", src, err)
	}
	return v
}

func TestLiterals(t *testing.T) {
	cases := map[string]any{
		"42":      42.0,
		`"hi"`:    "hi",
		"true":    true,
		"false":   false,
		"nil":     nil,
		"1 + 2":   3.0,
		"2 * 3+1": 7.0,
		"(1+2)*3": 9.0,
	}
	for src, want := range cases {
		if got := eval(t, src, nil); got != want {
			t.Errorf("eval(%q) = %v, want %v", src, got, want)
		}
	}
}

func TestComparisonAndLogical(t *testing.T) {
	cases := map[string]any{
		"1 < 2 && 2 < 3": true,
		"1 > 2 || 3 > 2": true,
		"!false":         true,
		"1 == 1":         true,
		"1 != 2":         true,
	}
	for src, want := range cases {
		if got := eval(t, src, nil); got != want {
			t.Errorf("eval(%q) = %v, want %v", src, got, want)
		}
	}
}

func TestIdentifierLookup(t *testing.T) {
	scope := MapScope{"count": func() any { return 5.0 }}
	if got := eval(t, "count", scope); got != 5.0 {
		t.Errorf("count = %v", got)
	}
	if got := eval(t, "count + 1", scope); got != 6.0 {
		t.Errorf("count + 1 = %v", got)
	}
}

func TestMemberAndIndexAccess(t *testing.T) {
	type user struct{ Name string }
	scope := MapScope{
		"user":  func() any { return user{Name: "Ada"} },
		"items": func() any { return []any{"a", "b", "c"} },
		"m":     func() any { return map[string]any{"k": "v"} },
	}
	if got := eval(t, "user.Name", scope); got != "Ada" {
		t.Errorf("user.Name = %v", got)
	}
	if got := eval(t, "items[1]", scope); got != "b" {
		t.Errorf("items[1] = %v", got)
	}
	if got := eval(t, `m["k"]`, scope); got != "v" {
		t.Errorf(`m["k"] = %v`, got)
	}
}

func TestChildScopeShadowsParent(t *testing.T) {
	parent := MapScope{"x": func() any { return "outer" }}
	child := ChildScope{Parent: parent, Locals: map[string]any{"x": "inner"}}
	if got := eval(t, "x", child); got != "inner" {
		t.Errorf("x = %v, want shadowed inner value", got)
	}
}

func TestTernaryConditional(t *testing.T) {
	scope := MapScope{"ok": func() any { return true }}
	if got := eval(t, `ok ? "yes" : "no"`, scope); got != "yes" {
		t.Errorf("ternary = %v", got)
	}
}

func TestFunctionCall(t *testing.T) {
	scope := MapScope{"double": func() any {
		return func(x float64) float64 { return x * 2 }
	}}
	if got := eval(t, "double(21)", scope); got != 42.0 {
		t.Errorf("double(21) = %v", got)
	}
}

func TestUnknownIdentifierEvaluatesToNil(t *testing.T) {
	if got := eval(t, "missing", MapScope{}); got != nil {
		t.Errorf("missing identifier = %v, want nil", got)
	}
}
