// Package jsast is the JavaScript expression tree emitted by the descriptor
// compiler and printed by the generator.
package jsast

// Expr is a JavaScript expression.
type Expr interface {
	expr()
}

// Stmt is a JavaScript statement.
type Stmt interface {
	stmt()
}

type Ident struct {
	Name string
}

type StringLit struct {
	Value string
}

// NumberLit keeps the numeric literal as written in source.
type NumberLit struct {
	Text string
}

type BoolLit struct {
	Value bool
}

// VoidZero is `void 0`, the explicit undefined placeholder.
type VoidZero struct{}

type This struct{}

// Raw is an expression copied verbatim from source, such as a computed
// property name or the operand of `typeof`.
type Raw struct {
	Text string
}

type PropertyAccess struct {
	X    Expr
	Name string
}

type ElementAccess struct {
	X     Expr
	Index Expr
}

type Call struct {
	Callee Expr
	Args   []Expr
}

type ArrayLit struct {
	Elems []Expr
}

// Arrow is an arrow function with either an expression Body or a Block.
type Arrow struct {
	Params []string
	Body   Expr
	Block  *Block
}

type Block struct {
	Stmts []Stmt
}

func (*Ident) expr()          {}
func (*StringLit) expr()      {}
func (*NumberLit) expr()      {}
func (*BoolLit) expr()        {}
func (*VoidZero) expr()       {}
func (*This) expr()           {}
func (*Raw) expr()            {}
func (*PropertyAccess) expr() {}
func (*ElementAccess) expr()  {}
func (*Call) expr()           {}
func (*ArrayLit) expr()       {}
func (*Arrow) expr()          {}

type VarKind string

const (
	Const VarKind = "const"
	Let   VarKind = "let"
)

type VarDecl struct {
	Kind   VarKind
	Name   string
	Init   Expr
	Export bool
}

type Return struct {
	X Expr
}

type ExprStmt struct {
	X Expr
}

// ImportNamespace is `import * as Name from "Module";`.
type ImportNamespace struct {
	Name   string
	Module string
}

func (*VarDecl) stmt()         {}
func (*Return) stmt()          {}
func (*ExprStmt) stmt()        {}
func (*ImportNamespace) stmt() {}

// Program is an emitted module.
type Program struct {
	Stmts []Stmt
}

// MethodCall builds `x.name(args...)`.
func MethodCall(x Expr, name string, args ...Expr) *Call {
	return &Call{Callee: &PropertyAccess{X: x, Name: name}, Args: args}
}

func Str(s string) *StringLit { return &StringLit{Value: s} }
func Id(name string) *Ident   { return &Ident{Name: name} }
