// Package errors provides structured, actionable error messages for the
// template compiler and reactivity kernel.
//
// The errors package implements a comprehensive error system that:
//   - Shows exact source locations (file, line, column)
//   - Explains what went wrong in plain language
//   - Suggests how to fix issues with code examples
//   - Links to documentation for deeper understanding
//
// # Error Categories
//
// Errors are organized into categories:
//   - compile: tokenizer/parser/transform errors, always source-located
//   - runtime: render function, scheduler, watcher, and lifecycle errors
//   - config: functional-options construction errors
//
// # Error Codes
//
// Each error has a unique code (e.g., "E001") that maps to:
//   - A short message describing the error
//   - A detailed explanation
//   - A documentation URL
//
// # Usage
//
//	errors.DisableColors()
//	err := errors.New("E011").
//	    WithLocation("home.tmpl", 15, 12).
//	    WithSuggestion("Check the interpolation for a stray closing brace")
//
//	fmt.Println(err.Format())
//	// Output:
//	//
//	// ERROR E011: invalid expression
//	//
//	//   home.tmpl:15:12
//	//
//	//       13 │ <div>
//	//       14 │   <p>{{ count }</p>
//	//   →   15 │   <p>{{ count + }}</p>
//	//        │            ^
//	//       16 │ </div>
//	//       17 │
//	//
//	//   An interpolation or directive's bound expression failed to parse.
//	//
//	//   Hint: Check the interpolation for a stray closing brace
//	//
//	//   Learn more: https://vireo.dev/docs/errors/E011
package errors
