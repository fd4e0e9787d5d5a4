// Package xmlfmt implements a DOM-less XML pretty-printer: a streaming
// lexical tokenizer over an immutable source buffer, and an indentation
// formatter state machine that consumes its tokens.
//
// The package never builds a tree. A Tokenizer hands out Token values that
// reference byte ranges of the caller's buffer; a Formatter drives a
// Tokenizer to completion and writes indented bytes to a sink.
package xmlfmt
