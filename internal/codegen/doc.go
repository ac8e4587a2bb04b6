// Package codegen translates a Book into specialised C or CUDA reducers.
//
// Each definition becomes an interact_call_<name> function that allocates
// its nodes and variables, writes the definition's template into the net and
// links its redexes. When the definition's root is guaranteed to annihilate
// or erase against the port it meets, that first interaction is performed
// inline. A dispatcher keyed by definition id and the rule table follow.
//
// The generated code is spliced into a runtime template at Marker. The
// bundled templates live in templates/ and are selected with DefaultTemplate.
package codegen
