// Package ast defines the tagged parse-tree node shapes the evaluation core
// consumes. The source-text parser that produces these trees is an external
// collaborator (see spec §1, §6) — this package only fixes the node shape a
// parser must produce and the handful of static-semantics helpers that
// operate on it.
package ast

// Position marks a node's origin in source text, for stack traces and the
// inspector. A parser that cannot report positions may leave this zero.
type Position struct {
	Line   int
	Column int
}

// Node is implemented by every parse-tree node. Children are reached via
// typed fields on the concrete node, not through a generic child-iteration
// method — mirroring how a tree walker dispatches on concrete node type.
type Node interface {
	// Type returns the node's tag, e.g. "BinaryExpression".
	Type() string
	// Pos returns the node's source position.
	Pos() Position
}

// Statement is a Node that appears in a statement position.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that appears in an expression position.
type Expression interface {
	Node
	expressionNode()
}

// base carries the fields common to every node. Embed it to get Pos() and to
// mark the concrete type as participating in the ast.Node shape.
type base struct {
	Position Position
}

func (b base) Pos() Position { return b.Position }

// Program is the root of a script or module body.
type Program struct {
	base
	Body       []Statement
	IsModule   bool
	SourceText string
}

func (*Program) Type() string { return "Program" }

// Identifier is a binding or reference to a name.
type Identifier struct {
	base
	Name string
}

func (*Identifier) Type() string { return "Identifier" }
func (*Identifier) expressionNode() {}

// PrivateIdentifier is a `#name` reference, resolved by identity against an
// object's PrivateElements rather than by string lookup (spec §3 invariant).
type PrivateIdentifier struct {
	base
	Name string
}

func (*PrivateIdentifier) Type() string { return "PrivateIdentifier" }
func (*PrivateIdentifier) expressionNode() {}
