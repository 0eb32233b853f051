// Package ast defines the syntax tree produced by the tree builder.
// Every node carries a Position; expression nodes additionally carry a
// stable ExprID so the checker can key its per-expression type map by a
// small integer rather than by pointer identity.
package ast

import "github.com/cwbudde/ctrc/internal/source"

// ExprID is a stable, parse-order-assigned identifier for an expression
// node. The checker's type map and the lowerer's `old(·)` snapshot table are
// both keyed by ExprID.
type ExprID int

// Node is implemented by every tree node.
type Node interface {
	Pos() source.Position
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	ID() ExprID
	exprNode()
}

// Stmt is implemented by every control/statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Decl is implemented by every top-level or nested declaration node.
type Decl interface {
	Node
	declNode()
}

// TypeExpr is implemented by every syntactic type node.
type TypeExpr interface {
	Node
	typeExprNode()
}

// Pattern is implemented by every pattern node.
type Pattern interface {
	Node
	patternNode()
}

// Annotation is implemented by every `@`-introduced annotation node.
type Annotation interface {
	Node
	annotationNode()
}

// ExprBase carries a Position and the expression's stable ID.
type ExprBase struct {
	Position source.Position
	Eid      ExprID
}

func (b ExprBase) Pos() source.Position { return b.Position }
func (b ExprBase) ID() ExprID { return b.Eid }
func (ExprBase) exprNode() {}

// DeclBase, StmtBase, TypeBase, PatternBase and AnnoBase each embed a
// Position and implement exactly one marker method, keeping the five
// families from being structurally interchangeable by accident.
type DeclBase struct{ Position source.Position }

func (b DeclBase) Pos() source.Position { return b.Position }
func (DeclBase) declNode() {}

type StmtBase struct{ Position source.Position }

func (b StmtBase) Pos() source.Position { return b.Position }
func (StmtBase) stmtNode() {}

type TypeBase struct{ Position source.Position }

func (b TypeBase) Pos() source.Position { return b.Position }
func (TypeBase) typeExprNode() {}

type PatternBase struct{ Position source.Position }

func (b PatternBase) Pos() source.Position { return b.Position }
func (PatternBase) patternNode() {}

type AnnoBase struct{ Position source.Position }

func (b AnnoBase) Pos() source.Position { return b.Position }
func (AnnoBase) annotationNode() {}

// Program is the root node: an ordered list of top-level declarations.
type Program struct {
	DeclBase
	Decls []Decl
}

// Identifier is a bare name reference.
type Identifier struct {
	ExprBase
	Name string
}
