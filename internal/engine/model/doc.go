// Package model implements the immutable rich-text document tree that the
// list editing engine operates on.
//
// A document is a tree of *Node values. Every node has a NodeType from a
// Schema, a set of attributes, and either a Fragment of child nodes or (for
// text nodes) a string and a set of marks. Nodes are never modified after
// construction; edits build new nodes and share every untouched subtree with
// the previous version.
//
// # Positions
//
// Positions are integers in a flat token stream over the tree:
//
//   - a text node contributes one token per rune
//   - a leaf node (such as hard_break) contributes one token
//   - any other node contributes an opening token, its content, and a
//     closing token
//
// Position 0 is the start of the document's content. Node.Resolve turns a
// position into a ResolvedPos describing the chain of ancestors around it.
//
// # Schema
//
// DefaultSchema returns the schema used throughout richlist: paragraphs,
// headings, blockquotes, code blocks, bullet and ordered lists with list
// items, hard breaks, and the usual inline marks. Content rules are written
// as small expressions such as "paragraph block*" and checked by Node.Check.
package model
