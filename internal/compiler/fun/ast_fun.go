package fun

import (
	"fmt"
	"strings"

	"gopkg.funfront.dev/compiler.go/internal/lang"
)

// Type is the declared type of a parameter or function result.
type Type uint8

const (
	TypeInt Type = iota + 1
	TypeBool
)

func (t Type) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeBool:
		return "bool"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// Program is the result of a successful parse. Functions appear in source
// order.
type Program struct {
	URI       string
	Functions []*Function
}

func (self *Program) String() string {
	lines := make([]string, 0, len(self.Functions))
	for _, f := range self.Functions {
		lines = append(lines, f.String())
	}
	return strings.Join(lines, "\n")
}

// Function is one top level definition. Parameters is nil for the zero
// parameter form.
type Function struct {
	Pos        lang.Location
	Result     Type
	Name       string
	Parameters []*Parameter
	Body       Expression
}

func (self *Function) String() string {
	params := make([]string, 0, len(self.Parameters))
	for _, p := range self.Parameters {
		params = append(params, p.String())
	}
	return fmt.Sprintf("%s %s(%s) = %s", self.Result, self.Name, strings.Join(params, ", "), self.Body)
}

type Parameter struct {
	Pos  lang.Location
	Type Type
	Name string
}

func (self *Parameter) String() string {
	return fmt.Sprintf("%s %s", self.Type, self.Name)
}

// Expression is the closed set of expression nodes. Each node records the
// location of its first token.
type Expression interface {
	fmt.Stringer
	Position() lang.Location
	expression()
}

type NumberLiteral struct {
	Pos   lang.Location
	Value uint64
}

type BoolLiteral struct {
	Pos   lang.Location
	Value bool
}

type Variable struct {
	Pos  lang.Location
	Name string
}

type Add struct {
	Pos   lang.Location
	Left  Expression
	Right Expression
}

type Equals struct {
	Pos   lang.Location
	Left  Expression
	Right Expression
}

type Conditional struct {
	Pos       lang.Location
	Condition Expression
	Then      Expression
	Else      Expression
}

type Call struct {
	Pos       lang.Location
	Callee    string
	Arguments []Expression
}

type Let struct {
	Pos   lang.Location
	Name  string
	Value Expression
	Body  Expression
}

func (*NumberLiteral) expression() {}
func (*BoolLiteral) expression()   {}
func (*Variable) expression()      {}
func (*Add) expression()           {}
func (*Equals) expression()        {}
func (*Conditional) expression()   {}
func (*Call) expression()          {}
func (*Let) expression()           {}

func (self *NumberLiteral) Position() lang.Location { return self.Pos }
func (self *BoolLiteral) Position() lang.Location   { return self.Pos }
func (self *Variable) Position() lang.Location      { return self.Pos }
func (self *Add) Position() lang.Location           { return self.Pos }
func (self *Equals) Position() lang.Location        { return self.Pos }
func (self *Conditional) Position() lang.Location   { return self.Pos }
func (self *Call) Position() lang.Location          { return self.Pos }
func (self *Let) Position() lang.Location           { return self.Pos }

func (self *NumberLiteral) String() string {
	return fmt.Sprintf("%d", self.Value)
}

func (self *BoolLiteral) String() string {
	return fmt.Sprintf("%t", self.Value)
}

func (self *Variable) String() string {
	return self.Name
}

func (self *Add) String() string {
	return fmt.Sprintf("(%s + %s)", self.Left, self.Right)
}

func (self *Equals) String() string {
	return fmt.Sprintf("(%s = %s)", self.Left, self.Right)
}

func (self *Conditional) String() string {
	return fmt.Sprintf("(if %s then %s else %s)", self.Condition, self.Then, self.Else)
}

func (self *Call) String() string {
	args := make([]string, 0, len(self.Arguments))
	for _, a := range self.Arguments {
		args = append(args, a.String())
	}
	return fmt.Sprintf("%s(%s)", self.Callee, strings.Join(args, ", "))
}

func (self *Let) String() string {
	return fmt.Sprintf("(let %s = %s in %s)", self.Name, self.Value, self.Body)
}
