package reactive

// Batch runs fn with subscriber notification deferred until fn returns:
// any number of Signal/Collection writes inside fn that would otherwise
// each trigger their subscribers immediately instead coalesce into one
// notification per affected Effect/Computed, at the highest dirty level
// any of the writes produced. Nested Batch calls on the same goroutine
// flush only when the outermost one returns.
func Batch(fn func()) {
	beginBatch()
	defer endBatch()
	fn()
}
