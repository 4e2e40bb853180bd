package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates. Codes below E100 are
// compile-time (tokenizer/parser/transform) errors; codes from E100 are
// runtime (reactivity kernel / reconciler) errors.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Compile errors (E001-E099): tokenizer, parser, transform
	// ============================================

	"E001": {
		Category: CategoryCompile,
		Message:  "invalid end tag name",
		Detail:   "An end tag's name did not begin with an ASCII letter.",
		DocURL:   "https://vireo.dev/docs/errors/E001",
	},
	"E002": {
		Category: CategoryCompile,
		Message:  "missing end tag",
		Detail:   "An element was left open: its start tag has no matching end tag before the template ends.",
		DocURL:   "https://vireo.dev/docs/errors/E002",
	},
	"E003": {
		Category: CategoryCompile,
		Message:  "end-of-input inside tag",
		Detail:   "The template ended while a start or end tag was still being read.",
		DocURL:   "https://vireo.dev/docs/errors/E003",
	},
	"E004": {
		Category: CategoryCompile,
		Message:  "end-of-input inside comment",
		Detail:   "The template ended before an open comment was closed with -->.",
		DocURL:   "https://vireo.dev/docs/errors/E004",
	},
	"E005": {
		Category: CategoryCompile,
		Message:  "end-of-input inside attribute value",
		Detail:   "The template ended while a quoted attribute value was still open.",
		DocURL:   "https://vireo.dev/docs/errors/E005",
	},
	"E006": {
		Category: CategoryCompile,
		Message:  "duplicate attribute",
		Detail:   "The same attribute name appears more than once on one element.",
		DocURL:   "https://vireo.dev/docs/errors/E006",
	},
	"E007": {
		Category: CategoryCompile,
		Message:  "missing attribute value",
		Detail:   "An attribute name was followed by '=' but no value.",
		DocURL:   "https://vireo.dev/docs/errors/E007",
	},
	"E008": {
		Category: CategoryCompile,
		Message:  "unexpected character in attribute name",
		Detail:   "An attribute name contains a character that cannot appear there (quote, '<', or '=').",
		DocURL:   "https://vireo.dev/docs/errors/E008",
	},
	"E009": {
		Category: CategoryCompile,
		Message:  "unexpected character in attribute value",
		Detail:   "An unquoted attribute value contains a character that must be quoted instead.",
		DocURL:   "https://vireo.dev/docs/errors/E009",
	},
	"E010": {
		Category: CategoryCompile,
		Message:  "missing interpolation end",
		Detail:   "An interpolation's opening delimiter has no matching closing delimiter before the template ends.",
		DocURL:   "https://vireo.dev/docs/errors/E010",
	},
	"E011": {
		Category: CategoryCompile,
		Message:  "invalid expression",
		Detail:   "An interpolation or directive's bound expression failed to parse.",
		DocURL:   "https://vireo.dev/docs/errors/E011",
	},
	"E012": {
		Category: CategoryCompile,
		Message:  "ignored side-effect tag",
		Detail:   "A <script> or <style> tag was encountered where only template markup is expected, and has been skipped.",
		DocURL:   "https://vireo.dev/docs/errors/E012",
	},
	"E013": {
		Category: CategoryCompile,
		Message:  "missing directive name",
		Detail:   "A 'v-' prefix was not followed by a directive name.",
		DocURL:   "https://vireo.dev/docs/errors/E013",
	},
	"E014": {
		Category: CategoryCompile,
		Message:  "invalid v-for expression",
		Detail:   "A v-for directive's value did not match the 'item in list' or '(item, index) in list' form.",
		DocURL:   "https://vireo.dev/docs/errors/E014",
	},
	"E015": {
		Category: CategoryCompile,
		Message:  "v-else without matching v-if",
		Detail:   "A v-else or v-else-if directive was found with no preceding v-if sibling.",
		DocURL:   "https://vireo.dev/docs/errors/E015",
	},

	// ============================================
	// Runtime errors (E100-E199): reactivity kernel, reconciler
	// ============================================

	"E100": {
		Category: CategoryRuntime,
		Message:  "render function error",
		Detail:   "A component's render function panicked or returned an error while running.",
		DocURL:   "https://vireo.dev/docs/errors/E100",
	},
	"E101": {
		Category: CategoryRuntime,
		Message:  "scheduler job error",
		Detail:   "A queued scheduler job panicked during a flush.",
		DocURL:   "https://vireo.dev/docs/errors/E101",
	},
	"E102": {
		Category: CategoryRuntime,
		Message:  "scheduler recursion limit exceeded",
		Detail:   "The same job was requeued more times than the recursion limit within a single flush, usually from a write inside its own render.",
		DocURL:   "https://vireo.dev/docs/errors/E102",
	},
	"E103": {
		Category: CategoryRuntime,
		Message:  "watcher callback error",
		Detail:   "A Watch callback panicked or returned an error.",
		DocURL:   "https://vireo.dev/docs/errors/E103",
	},
	"E104": {
		Category: CategoryRuntime,
		Message:  "setup function error",
		Detail:   "A component's setup function panicked before it could return its render function.",
		DocURL:   "https://vireo.dev/docs/errors/E104",
	},
	"E105": {
		Category: CategoryRuntime,
		Message:  "lifecycle hook error",
		Detail:   "An onMounted/onUpdated/onUnmounted hook panicked.",
		DocURL:   "https://vireo.dev/docs/errors/E105",
	},
	"E106": {
		Category: CategoryRuntime,
		Message:  "native event handler error",
		Detail:   "A handler bound to a native DOM event panicked.",
		DocURL:   "https://vireo.dev/docs/errors/E106",
	},
	"E107": {
		Category: CategoryRuntime,
		Message:  "component event handler error",
		Detail:   "A handler bound to a component-emitted event panicked.",
		DocURL:   "https://vireo.dev/docs/errors/E107",
	},
	"E108": {
		Category: CategoryRuntime,
		Message:  "computed read its own value during computation",
		Detail:   "A Computed's compute function read its own Get/Peek before the current recomputation finished; the reentrant read was treated as unchanged to break the cycle.",
		DocURL:   "https://vireo.dev/docs/errors/E108",
	},
	"E109": {
		Category: CategoryRuntime,
		Message:  "owner disposed",
		Detail:   "A reactive value was read or written after its owning component instance was unmounted and disposed.",
		DocURL:   "https://vireo.dev/docs/errors/E109",
	},

	// ============================================
	// Config errors (E200-E219): functional-options construction
	// ============================================

	"E200": {
		Category: CategoryConfig,
		Message:  "invalid renderer configuration",
		Detail:   "A Renderer option produced an invalid or incomplete configuration.",
		DocURL:   "https://vireo.dev/docs/errors/E200",
	},
	"E201": {
		Category: CategoryConfig,
		Message:  "invalid KeepAlive cache configuration",
		Detail:   "A KeepAlive cache's max-size option was zero or negative.",
		DocURL:   "https://vireo.dev/docs/errors/E201",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
